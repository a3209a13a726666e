package imphook

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/module"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// tagged returns a handler that produces a module tagged with tag and
// records every call in calls.
func tagged(tag string, calls *[]string) Handler {
	return func(name, path string) (*module.Module, error) {
		*calls = append(*calls, tag)
		m := module.New(name, path)
		m.Set("by", starlark.String(tag))
		return m, nil
	}
}

func declining(tag string, calls *[]string) Handler {
	return func(name, path string) (*module.Module, error) {
		*calls = append(*calls, tag)
		return nil, nil
	}
}

func by(t *testing.T, m *module.Module) string {
	t.Helper()
	v, ok := m.Get("by")
	require.True(t, ok)
	s, _ := starlark.AsString(v)
	return s
}

// plainHost offers neither a hook nor path hooks.
type plainHost struct {
	inner *host.Simple
}

func (p plainHost) Import(name string) (*module.Module, error) { return p.inner.Import(name) }
func (p plainHost) Exec(name, path string, src []byte) (*module.Module, error) {
	return p.inner.Exec(name, path, src)
}
func (p plainHost) NewThread(name string) *starlark.Thread { return p.inner.NewThread(name) }
func (p plainHost) Logger() *slog.Logger                  { return p.inner.Logger() }

func TestRegisterValidates(t *testing.T) {
	k := New(host.NewSimple())
	noop := func(string, string) (*module.Module, error) { return nil, nil }

	tests := []struct {
		name    string
		handler Handler
		exts    []string
		want    error
	}{
		{"nil handler", nil, []string{".x"}, ErrNilHandler},
		{"no extensions", noop, nil, ErrInvalidExtension},
		{"empty extension", noop, []string{".x", ""}, ErrInvalidExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := k.Register(tt.handler, tt.exts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, StrategyNone, k.Strategy())
	assert.Zero(t, k.Registry().Len())
}

func TestRegisterUnsupportedHost(t *testing.T) {
	k := New(plainHost{inner: host.NewSimple()})
	err := k.Register(func(string, string) (*module.Module, error) { return nil, nil }, ".x")
	assert.ErrorIs(t, err, ErrUnsupportedHost)
	assert.Equal(t, StrategyNone, k.Strategy())
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "none", StrategyNone.String())
	assert.Equal(t, "single-hook", StrategySingleHook.String())
	assert.Equal(t, "pipeline", StrategyPipeline.String())
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	var calls []string
	r.Add(tagged("first", &calls), ".a", ".b")
	before := r.Bindings()
	r.Add(tagged("second", &calls), ".b", ".c")

	assert.Len(t, before, 1)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{".b", ".c", ".a"}, r.Extensions())
	assert.Len(t, r.HandlersFor(".b"), 2)
	assert.Len(t, r.HandlersFor(".a"), 1)
	assert.Empty(t, r.HandlersFor(".z"))
}

func TestResolveContinuesPastDecliningHandler(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.a", "")
	writeFile(t, dir, "m.b", "")

	h := host.NewSimple(host.WithPaths(dir))
	k := New(h)
	var calls []string
	require.NoError(t, k.Register(tagged("b", &calls), ".b"))
	require.NoError(t, k.Register(declining("a", &calls), ".a"))

	m, err := h.Import("m")
	require.NoError(t, err)
	assert.Equal(t, "b", by(t, m))
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, filepath.Join(dir, "m.b"), m.Origin)
}

func TestResolveShortCircuits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.x", "")
	writeFile(t, dir, "m.y", "")

	k := New(host.NewSimple(host.WithPaths(dir)))
	var calls []string
	require.NoError(t, k.Register(tagged("older", &calls), ".x"))
	require.NoError(t, k.Register(tagged("newer", &calls), ".y", ".x"))

	m, err := k.Resolve("m", filepath.Join(dir, "m"))
	require.NoError(t, err)
	assert.Equal(t, "newer", by(t, m))
	assert.Equal(t, []string{"newer"}, calls)
}

func TestResolveSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.y", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "m.x"), 0o755))

	k := New(host.NewSimple(host.WithPaths(dir)))
	var calls []string
	require.NoError(t, k.Register(tagged("y", &calls), ".y"))
	require.NoError(t, k.Register(tagged("x", &calls), ".x", ".z"))

	m, err := k.Resolve("m", filepath.Join(dir, "m"))
	require.NoError(t, err)
	assert.Equal(t, "y", by(t, m))
	assert.Equal(t, []string{"y"}, calls)

	m, err = k.Resolve("other", filepath.Join(dir, "other"))
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestResolveHandlerErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.x", "")
	writeFile(t, dir, "m.y", "")
	boom := errors.New("boom")

	h := host.NewSimple(host.WithPaths(dir))
	k := New(h)
	var calls []string
	require.NoError(t, k.Register(tagged("y", &calls), ".y"))
	require.NoError(t, k.Register(func(string, string) (*module.Module, error) { return nil, boom }, ".x"))

	_, err := h.Import("m")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, calls)
}

func TestSingleHookFallsBackToPreviousResolver(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "new.x", "")

	h := host.NewSimple(host.WithPaths(dir))
	var prevCalls []string
	h.SetImportHook(func(name, base string) (*module.Module, error) {
		prevCalls = append(prevCalls, name)
		if name != "legacy" {
			return nil, nil
		}
		m := module.New(name, base)
		m.Set("by", starlark.String("previous"))
		return m, nil
	})

	k := New(h)
	var calls []string
	require.NoError(t, k.Register(tagged("x", &calls), ".x"))
	require.NoError(t, k.Register(tagged("y", &calls), ".y"))
	assert.Equal(t, StrategySingleHook, k.Strategy())

	m, err := h.Import("legacy")
	require.NoError(t, err)
	assert.Equal(t, "previous", by(t, m))

	m, err = h.Import("new")
	require.NoError(t, err)
	assert.Equal(t, "x", by(t, m))
	assert.Equal(t, []string{"legacy"}, prevCalls)
}

func TestPipelineSplicesAtDefaultFinderPosition(t *testing.T) {
	h := host.NewPipeline(host.WithPaths(t.TempDir()))
	k := New(h)
	var calls []string
	require.NoError(t, k.Register(tagged("x", &calls), ".x"))
	require.NoError(t, k.Register(tagged("y", &calls), ".y", ".x"))
	assert.Equal(t, StrategyPipeline, k.Strategy())

	hooks := h.PathHooks()
	require.Len(t, hooks, 2)

	_, err := hooks[0](".")
	assert.ErrorIs(t, err, host.ErrPathNotHandled)

	f, err := hooks[1](".")
	require.NoError(t, err)
	ff, ok := f.(*host.FileFinder)
	require.True(t, ok)

	loaders := ff.Loaders()
	require.Len(t, loaders, 2)
	assert.Equal(t, []string{".y", ".x"}, loaders[0].Extensions)
	assert.Equal(t, []string{host.SourceExt}, loaders[1].Extensions)
}

func TestPipelineWarnsWithoutDefaultFinder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.x", "")

	var logs bytes.Buffer
	h := host.NewPipeline(
		host.WithPaths(dir),
		host.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	never := host.PathHook(func(string) (host.Finder, error) { return nil, host.ErrPathNotHandled })
	h.SetPathHooks([]host.PathHook{never})

	k := New(h)
	var calls []string
	require.NoError(t, k.Register(tagged("x", &calls), ".x"))

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "default file finder hook not found")

	hooks := h.PathHooks()
	require.Len(t, hooks, 2)
	f, err := hooks[0](dir)
	require.NoError(t, err)
	assert.IsType(t, &host.FileFinder{}, f)

	m, err := h.Import("m")
	require.NoError(t, err)
	assert.Equal(t, "x", by(t, m))
}

func TestPipelineInvalidatesCachedFinders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.star", "v = 1\n")
	writeFile(t, dir, "custom.x", "")

	h := host.NewPipeline(host.WithPaths(dir))
	_, err := h.Import("plain")
	require.NoError(t, err)
	_, err = h.Import("custom")
	require.ErrorIs(t, err, host.ErrModuleNotFound)

	k := New(h)
	var calls []string
	require.NoError(t, k.Register(tagged("x", &calls), ".x"))

	m, err := h.Import("custom")
	require.NoError(t, err)
	assert.Equal(t, "x", by(t, m))
}

func TestPipelineHandlersTakePriorityOverSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.star", "v = 1\n")

	h := host.NewPipeline(host.WithPaths(dir))
	k := New(h)
	var calls []string
	require.NoError(t, k.Register(declining("older", &calls), host.SourceExt))
	require.NoError(t, k.Register(tagged("newer", &calls), host.SourceExt))

	m, err := h.Import("m")
	require.NoError(t, err)
	assert.Equal(t, "newer", by(t, m))
	assert.Equal(t, []string{"newer"}, calls)
}

func TestPipelineLoaderFailsWhenAllHandlersDecline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.x", "")
	writeFile(t, dir, "m.star", "v = 1\n")

	h := host.NewPipeline(host.WithPaths(dir))
	k := New(h)
	var calls []string
	require.NoError(t, k.Register(declining("a", &calls), ".x"))
	require.NoError(t, k.Register(declining("b", &calls), ".x"))

	_, err := h.Import("m")
	assert.ErrorIs(t, err, ErrNoHandler)
	assert.Equal(t, []string{"b", "a"}, calls)
}

func TestDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.x", "")
	h := host.NewSimple(host.WithPaths(dir))

	host.SetDefault(h)
	ResetDefault()
	t.Cleanup(func() {
		ResetDefault()
		host.SetDefault(nil)
	})

	assert.Same(t, Default(), Default())
	var calls []string
	require.NoError(t, AddImportHook(tagged("x", &calls), ".x"))
	assert.Equal(t, StrategySingleHook, Default().Strategy())
	assert.Same(t, host.Host(h), Default().Host())

	m, err := h.Import("m")
	require.NoError(t, err)
	assert.Equal(t, "x", by(t, m))

	ResetDefault()
	assert.Zero(t, Default().Registry().Len())
}
