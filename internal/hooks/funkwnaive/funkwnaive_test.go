package funkwnaive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/imphook"
)

func TestReplace(t *testing.T) {
	got := Replace([]byte(`f = function x: "function"`))
	assert.Equal(t, `f = lambda x: "lambda"`, string(got))
}

func TestNaiveModule(t *testing.T) {
	dir := t.TempDir()
	src := "double = function x: x * 2\nlabel = \"function\"\nout = double(4)\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "naive.star"), []byte(src), 0o644))

	h := host.NewPipeline(host.WithPaths(dir))
	require.NoError(t, Register(imphook.New(h)))

	m, err := h.Import("naive")
	require.NoError(t, err)

	out, _ := m.Get("out")
	assert.Equal(t, "8", out.String())
	label, _ := m.Get("label")
	assert.Equal(t, `"lambda"`, label.String())
}
