package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("FUNCSEP_CONFIG_HOME", "/tmp/funcsep-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/funcsep-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/funcsep-config")
	}

	t.Setenv("FUNCSEP_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/funcsep" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/funcsep")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("FUNCSEP_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Separator.MinFunctionHeight != 3 {
		t.Fatalf("MinFunctionHeight = %d, want 3", cfg.Separator.MinFunctionHeight)
	}
	if !cfg.Navigation.WrapDocuments {
		t.Fatalf("WrapDocuments = false, want true")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FUNCSEP_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[separator]
blank-lines-above = 0
include-nested = false
indent = -1
width-mode = "longest"
fill = "-~"
name-case = "capitalize"

[navigation]
wrap-documents = false

[files]
exclude = ["build/**"]
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	s := cfg.Separator
	if s.BlankLinesAbove != 0 {
		t.Fatalf("BlankLinesAbove = %d, want 0", s.BlankLinesAbove)
	}
	if s.BlankLinesBelow != 1 {
		t.Fatalf("BlankLinesBelow = %d, want default 1", s.BlankLinesBelow)
	}
	if s.IncludeNested {
		t.Fatalf("IncludeNested = true, want false")
	}
	if s.Indent != -1 {
		t.Fatalf("Indent = %d, want -1", s.Indent)
	}
	if s.WidthMode != WidthLongest {
		t.Fatalf("WidthMode = %q, want %q", s.WidthMode, WidthLongest)
	}
	if s.Fill != "-~" {
		t.Fatalf("Fill = %q, want %q", s.Fill, "-~")
	}
	if s.NameCase != CaseCapitalize {
		t.Fatalf("NameCase = %q, want %q", s.NameCase, CaseCapitalize)
	}
	if !s.SplitCamelCase {
		t.Fatalf("SplitCamelCase = false, want default true")
	}
	if cfg.Navigation.WrapDocuments {
		t.Fatalf("WrapDocuments = true, want false")
	}
	if len(cfg.Files.Exclude) != 1 || cfg.Files.Exclude[0] != "build/**" {
		t.Fatalf("Exclude = %v, want [build/**]", cfg.Files.Exclude)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")

	writeFile(t, path, "[separator]\nwidth-mode = \"wide\"\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("LoadFile error = nil, want width-mode error")
	}

	writeFile(t, path, "[separator]\nfill = \"\"\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("LoadFile error = nil, want fill error")
	}

	writeFile(t, path, "[separator]\nblank-lines-below = -2\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("LoadFile error = nil, want blank line error")
	}
}
