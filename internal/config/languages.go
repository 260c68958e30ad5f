package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Language maps extra file types onto a built-in grammar, e.g.
//
//	[[language]]
//	name = "javascript"
//	file-types = ["es6"]
type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

func LoadLanguages() (Languages, error) {
	path, err := LanguagesPath()
	if err != nil {
		return Languages{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Languages{}, nil
		}
		return Languages{}, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Languages{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
