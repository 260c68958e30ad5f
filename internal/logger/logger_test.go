package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "funcsep.log")
	if err := Init(path, true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Debug("parsed", "path", "a.go", "functions", 3)
	Once("parse:a.go", "parse failed", "path", "a.go")
	Once("parse:a.go", "parse failed", "path", "a.go")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "parsed") {
		t.Fatalf("log missing debug line:\n%s", text)
	}
	if n := strings.Count(text, "parse failed"); n != 1 {
		t.Fatalf("parse failed logged %d times, want 1", n)
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	Close()
	Debug("ignored")
	Info("ignored")
	Warn("ignored")
	Error("ignored")
}

func TestLogPathEnv(t *testing.T) {
	t.Setenv("FUNCSEP_LOG_FILE", "/tmp/x.log")
	if got, _ := getLogPath(); got != "/tmp/x.log" {
		t.Fatalf("getLogPath = %q, want %q", got, "/tmp/x.log")
	}
	t.Setenv("FUNCSEP_LOG_FILE", "")
	t.Setenv("FUNCSEP_CONFIG_HOME", "/tmp/cfg")
	if got, _ := getLogPath(); got != "/tmp/cfg/funcsep.log" {
		t.Fatalf("getLogPath = %q, want %q", got, "/tmp/cfg/funcsep.log")
	}
}
