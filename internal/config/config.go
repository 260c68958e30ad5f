package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/funcsep/internal/logger"
)

// Width modes for the separator banner.
const (
	WidthFixed   = "fixed"
	WidthFunc    = "func"
	WidthLongest = "longest"
)

// Name cases for the function name inside the banner.
const (
	CaseOriginal   = "original"
	CaseCapitalize = "capitalize"
	CaseUpper      = "upper"
	CaseLower      = "lower"
)

type Separator struct {
	MinFunctionHeight int    `toml:"min-function-height"`
	IncludeNested     bool   `toml:"include-nested"`
	BlankLinesAbove   int    `toml:"blank-lines-above"`
	BlankLinesBelow   int    `toml:"blank-lines-below"`
	Indent            int    `toml:"indent"` // -1 matches the function's indentation
	WidthMode         string `toml:"width-mode"`
	FixedWidth        int    `toml:"fixed-width"`
	Fill              string `toml:"fill"`
	SplitCamelCase    bool   `toml:"split-camel-case"`
	SplitSeparators   bool   `toml:"split-separators"`
	NameCase          string `toml:"name-case"`
	TabWidth          int    `toml:"tab-width"`
}

type Navigation struct {
	WrapDocuments bool `toml:"wrap-documents"`
}

type Files struct {
	Exclude []string `toml:"exclude"`
}

type Parser struct {
	OperationLimit int `toml:"operation-limit"`
}

type Config struct {
	Separator  Separator  `toml:"separator"`
	Navigation Navigation `toml:"navigation"`
	Files      Files      `toml:"files"`
	Parser     Parser     `toml:"parser"`
}

func Default() Config {
	return Config{
		Separator: Separator{
			MinFunctionHeight: 3,
			IncludeNested:     true,
			BlankLinesAbove:   2,
			BlankLinesBelow:   1,
			Indent:            0,
			WidthMode:         WidthFunc,
			FixedWidth:        80,
			Fill:              "=",
			SplitCamelCase:    true,
			SplitSeparators:   true,
			NameCase:          CaseUpper,
			TabWidth:          4,
		},
		Navigation: Navigation{
			WrapDocuments: true,
		},
		Files: Files{
			Exclude: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**"},
		},
	}
}

// Load reads config.toml from the config directory on top of the defaults.
// A missing file is not an error.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. Keys absent from the file keep their
// default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("config: unknown keys ignored", "path", path, "keys", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	s := c.Separator
	switch s.WidthMode {
	case WidthFixed, WidthFunc, WidthLongest:
	default:
		return fmt.Errorf("separator.width-mode %q (use fixed, func or longest)", s.WidthMode)
	}
	switch s.NameCase {
	case CaseOriginal, CaseCapitalize, CaseUpper, CaseLower:
	default:
		return fmt.Errorf("separator.name-case %q (use original, capitalize, upper or lower)", s.NameCase)
	}
	if s.MinFunctionHeight < 0 {
		return fmt.Errorf("separator.min-function-height must not be negative")
	}
	if s.BlankLinesAbove < 0 || s.BlankLinesBelow < 0 {
		return fmt.Errorf("separator blank line counts must not be negative")
	}
	if s.Indent < -1 {
		return fmt.Errorf("separator.indent must be -1 or a column")
	}
	if s.WidthMode == WidthFixed && s.FixedWidth <= 0 {
		return fmt.Errorf("separator.fixed-width must be positive in fixed mode")
	}
	if s.Fill == "" {
		return fmt.Errorf("separator.fill must not be empty")
	}
	if s.TabWidth <= 0 {
		return fmt.Errorf("separator.tab-width must be positive")
	}
	if c.Parser.OperationLimit < 0 {
		return fmt.Errorf("parser.operation-limit must not be negative")
	}
	return nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("FUNCSEP_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "funcsep"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "funcsep"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
