package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/imphook"
)

func writeConf(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name+Ext)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	p := writeConf(t, t.TempDir(), "settings", `
# service settings
host = example.org
  port=8080
url = http://x/?a=b

empty =
`)

	m, err := Load("settings", p)
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "port", "url", "empty"}, m.Keys())

	tests := map[string]string{
		"host":  "example.org",
		"port":  "8080",
		"url":   "http://x/?a=b",
		"empty": "",
	}
	for k, want := range tests {
		v, ok := m.Get(k)
		require.True(t, ok, k)
		assert.Equal(t, starlark.String(want), v, k)
	}
}

func TestLoadSyntaxErrors(t *testing.T) {
	for name, src := range map[string]string{
		"no equals": "a = 1\njust words\n",
		"empty key": " = value\n",
	} {
		t.Run(name, func(t *testing.T) {
			p := writeConf(t, t.TempDir(), "bad", src)
			_, err := Load("bad", p)
			assert.ErrorIs(t, err, ErrSyntax)
		})
	}
}

func TestImportThroughHost(t *testing.T) {
	dir := t.TempDir()
	writeConf(t, dir, "db", "user = admin\n")

	h := host.NewSimple(host.WithPaths(dir))
	require.NoError(t, Register(imphook.New(h)))

	m, err := h.RunFile("main.star", []byte("load(\"db\", \"user\")\nwho = user.upper()\n"))
	require.NoError(t, err)
	v, _ := m.Get("who")
	assert.Equal(t, starlark.String("ADMIN"), v)
}
