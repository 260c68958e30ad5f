package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/funcsep/internal/config"
	"github.com/kobzarvs/funcsep/internal/document"
	"github.com/kobzarvs/funcsep/internal/grammar"
	"github.com/kobzarvs/funcsep/internal/invisible"
	"github.com/kobzarvs/funcsep/internal/navigate"
)

const demoSource = `package demo

func Alpha() int {
	x := 1
	return x
}

func Beta() int {
	y := 2
	return y
}
`

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("FUNCSEP_CONFIG_HOME", home)
	t.Setenv("FUNCSEP_LOG_FILE", filepath.Join(home, "funcsep.log"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	return home
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := New(args)
	a.SetOutput(&out, &errOut)
	err := a.Run()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInsertThenRemoveRoundTrip(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.go")
	writeFile(t, path, demoSource)

	out, _, err := run(t, "insert", dir)
	require.NoError(t, err)
	assert.Equal(t, path+": insert, 0 removed, 2 added\n", out)

	annotated := readFile(t, path)
	assert.True(t, invisible.Contains(annotated))
	assert.Contains(t, annotated, " ALPHA ")
	assert.Contains(t, annotated, " BETA ")

	out, _, err = run(t, "insert", path)
	require.NoError(t, err)
	assert.Equal(t, path+": unchanged\n", out)

	out, _, err = run(t, "remove", path)
	require.NoError(t, err)
	assert.Equal(t, path+": remove, 2 removed, 0 added\n", out)
	assert.Equal(t, demoSource, readFile(t, path))
}

func TestInsertStdoutLeavesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "demo.go")
	writeFile(t, path, demoSource)

	out, _, err := run(t, "insert", "--stdout", path)
	require.NoError(t, err)
	assert.True(t, invisible.Contains(out))
	assert.Equal(t, demoSource, readFile(t, path))
}

func TestDryRun(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "demo.go")
	writeFile(t, path, demoSource)

	out, _, err := run(t, "refresh", "--dry-run", path)
	require.NoError(t, err)
	assert.Equal(t, path+": would refresh, 0 removed, 2 added\n", out)
	assert.Equal(t, demoSource, readFile(t, path))
}

func TestUnsupportedAdvisory(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	other := filepath.Join(dir, "data.csv")
	code := filepath.Join(dir, "demo.go")
	writeFile(t, notes, "hello\n")
	writeFile(t, other, "a,b\n")
	writeFile(t, code, demoSource)

	_, errOut, err := run(t, "insert", notes, other, code)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(errOut, "language not supported"))
	assert.Contains(t, errOut, notes+", "+other)
	assert.Equal(t, "hello\n", readFile(t, notes))
}

func TestSelectNeedsOneFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), demoSource)
	writeFile(t, filepath.Join(dir, "b.go"), demoSource)

	_, _, err := run(t, "insert", "--select", "3-6", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--select")

	_, _, err = run(t, "insert", "--select", "x-y", filepath.Join(dir, "a.go"))
	require.Error(t, err)
}

func TestSelectLimitsInsert(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "demo.go")
	writeFile(t, path, demoSource)

	out, _, err := run(t, "insert", "--select", "8-11", path)
	require.NoError(t, err)
	assert.Equal(t, path+": insert, 0 removed, 1 added\n", out)
	text := readFile(t, path)
	assert.NotContains(t, text, " ALPHA ")
	assert.Contains(t, text, " BETA ")
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.go")
	writeFile(t, path, demoSource)
	cfgPath := filepath.Join(dir, "funcsep.toml")
	writeFile(t, cfgPath, "[separator]\nname-case = \"lower\"\nfill = \"-\"\n")

	out, _, err := run(t, "--config", cfgPath, "insert", "--stdout", path)
	require.NoError(t, err)
	assert.Contains(t, out, "- alpha -")

	writeFile(t, cfgPath, "[separator]\nwidth-mode = \"bogus\"\n")
	_, _, err = run(t, "--config", cfgPath, "insert", "--stdout", path)
	require.Error(t, err)

	_, _, err = run(t, "--config", filepath.Join(dir, "missing.toml"), "languages")
	require.Error(t, err)
}

func TestNext(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.go")
	b := filepath.Join(dir, "b.go")
	writeFile(t, a, demoSource)
	writeFile(t, b, demoSource)
	_, _, err := run(t, "insert", dir)
	require.NoError(t, err)

	marks := navigate.Marks(document.New(readFile(t, a)))
	require.Len(t, marks, 2)

	out, _, err := run(t, "next", a, "--line", "1")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s:%d\n", a, marks[0]+1), out)

	out, _, err = run(t, "next", a, "--line", fmt.Sprint(marks[1]+1), b)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s:%d\n", b, marks[0]+1), out)

	out, _, err = run(t, "next", a, "--line", fmt.Sprint(marks[0]+1), "--up", b)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s:%d\n", b, marks[1]+1), out)

	_, _, err = run(t, "next", a, "--line", fmt.Sprint(marks[1]+1))
	require.ErrorIs(t, err, ErrNoBanner)
}

func TestLanguages(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "languages.toml"), "[[language]]\nname = \"go\"\nfile-types = [\"gotmpl\"]\n")

	out, _, err := run(t, "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "LANGUAGE")
	assert.Regexp(t, `(?m)^go\s+//\s+\.go \.gotmpl$`, out)
	assert.Regexp(t, `(?m)^python\s+#\s+`, out)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{
		"src/a.go",
		"src/b.py",
		"src/readme.md",
		"vendor/dep/c.go",
		"web/node_modules/pkg/d.js",
		"web/app.ts",
	} {
		writeFile(t, filepath.Join(dir, rel), "x\n")
	}
	single := filepath.Join(dir, "src", "readme.md")

	set, err := collectFiles([]string{dir, filepath.Join(dir, "src", "a.go"), single},
		grammar.Default(), config.Default().Files.Exclude, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "src", "a.go"),
		filepath.Join(dir, "src", "b.py"),
		filepath.Join(dir, "web", "app.ts"),
	}, set.Files)
	assert.Equal(t, []string{single}, set.Unsupported)

	set, err = collectFiles([]string{single}, grammar.Default(), nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{single}, set.Files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")}, grammar.Default(), nil, false)
	require.Error(t, err)
}

func TestExcluded(t *testing.T) {
	patterns := config.Default().Files.Exclude
	assert.True(t, excluded(patterns, "proj/node_modules/pkg/index.js"))
	assert.True(t, excluded(patterns, "vendor/x.go"))
	assert.True(t, excluded(patterns, ".git/config"))
	assert.False(t, excluded(patterns, "proj/src/main.go"))
	assert.True(t, excluded([]string{"*_test.go"}, "proj/a_test.go"))
}
