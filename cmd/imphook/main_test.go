package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// runCLI runs the command with an empty search path plus extra args.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--path", t.TempDir()}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUsageError(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "Usage:")
}

func TestUnknownFlag(t *testing.T) {
	code, _, _ := runCLI(t, "--no-such-flag")
	assert.Equal(t, exitFailure, code)
}

func TestScriptCannotBeOpened(t *testing.T) {
	code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "missing.star"))
	assert.Equal(t, exitNoScript, code)
	assert.Contains(t, stderr, "can't open file")
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.star", "n = 3\n")
	script := writeFile(t, dir, "main.star", "load(\"lib\", \"n\")\nprint(\"lib\", n)\nprint(argv[1:])\n")

	code, stdout, stderr := runCLI(t, script, "a", "--b")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "lib 3\n[\"a\", \"--b\"]\n", stdout)
}

func TestScriptError(t *testing.T) {
	script := writeFile(t, t.TempDir(), "main.star", "fail(\"boom\")\n")

	code, _, stderr := runCLI(t, script)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "boom")
	assert.Contains(t, stderr, "main.star")
}

func TestPreloadAndRunModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "example.star", "f = (a, b) => a + b\nprint(f(1, 2))\nprint(argv)\n")

	for _, kind := range []string{"simple", "pipeline"} {
		t.Run(kind, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{"--host", kind, "--path", dir, "-i", "arrowfunc", "-m", "example", "x"}, &stdout, &stderr)
			require.Equal(t, exitOK, code, stderr.String())
			assert.Equal(t, "3\n[\"example\", \"x\"]\n", stdout.String())
		})
	}
}

func TestModuleNotFound(t *testing.T) {
	code, _, stderr := runCLI(t, "-m", "nowhere")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "nowhere")
}

func TestPreloadFailure(t *testing.T) {
	script := writeFile(t, t.TempDir(), "main.star", "print(1)\n")

	code, stdout, stderr := runCLI(t, "-i", "no_such_hook", script)
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "import no_such_hook")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.toml", "name = \"demo\"\nport = 8080\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--path", dir, "-i", "data", "inspect", "settings"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	out := stdout.String()
	assert.Equal(t, "settings", gjson.Get(out, "name").String())
	assert.Equal(t, filepath.Join(dir, "settings.toml"), gjson.Get(out, "origin").String())
	assert.Equal(t, "demo", gjson.Get(out, "namespace.name").String())
	assert.Equal(t, int64(8080), gjson.Get(out, "namespace.port").Int())
}

func TestInvalidConfig(t *testing.T) {
	script := writeFile(t, t.TempDir(), "main.star", "print(1)\n")

	code, _, stderr := runCLI(t, "--host", "threaded", script)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, &stdout, &stderr)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "imphook dev (unknown, unknown)\n", stdout.String())
}

func TestRunLogsThroughContextLogger(t *testing.T) {
	script := writeFile(t, t.TempDir(), "main.star", "print(1)\n")

	code, stdout, stderr := runCLI(t, "--log-level", "debug", "--log-format", "json", script)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "1\n", stdout)
	assert.Contains(t, stderr, `"msg":"running main"`)
	assert.Contains(t, stderr, `"script":"`+script+`"`)
}
