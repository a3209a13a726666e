package host

import (
	"fmt"
	"log/slog"
	"sync"

	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/module"
)

// SourceExt is the extension of module source files the hosts load natively.
const SourceExt = ".star"

// MainName is the name a script or -m module runs under.
const MainName = "__main__"

// Resolver resolves a module request for one search directory. basePath is
// the directory joined with the module name's components, without an
// extension. A nil module with a nil error means the request is not
// claimed.
type Resolver func(name, basePath string) (*module.Module, error)

// Host is what import handlers need from the module system.
type Host interface {
	Import(name string) (*module.Module, error)
	Exec(name, path string, src []byte) (*module.Module, error)
	NewThread(name string) *starlark.Thread
	Logger() *slog.Logger
}

// HookSetter is a host with a single substitutable resolver.
type HookSetter interface {
	Host
	// SetImportHook installs r and returns the previously installed
	// resolver, which may be nil.
	SetImportHook(r Resolver) Resolver
}

// PathHookHost is a host with an ordered list of path hooks.
type PathHookHost interface {
	Host
	PathHooks() []PathHook
	SetPathHooks(hooks []PathHook)
	// SupportedLoaders returns the host's own loaders, as installed in its
	// default file finder.
	SupportedLoaders() []LoaderDetails
	// InvalidateCaches forgets every cached path finder.
	InvalidateCaches()
}

// Runtime is the full surface of a host as used by programs embedding it.
type Runtime interface {
	Host
	RunFile(path string, src []byte) (*module.Module, error)
	RunModule(name string) (*module.Module, error)
	RegisterBuiltin(name string, fn BuiltinFunc)
	Predeclare(name string, v starlark.Value)
	AddPath(dir string)
	Paths() []string
	Modules() []string
	Forget(name string) bool
	ForgetOrigin(path string) []string
}

// Host kinds accepted by New.
const (
	KindSimple   = "simple"
	KindPipeline = "pipeline"
)

// New returns a host of the given kind. An empty kind selects Pipeline.
func New(kind string, opts ...Option) (Runtime, error) {
	switch kind {
	case KindSimple:
		return NewSimple(opts...), nil
	case KindPipeline, "":
		return NewPipeline(opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

var (
	defaultMu   sync.Mutex
	defaultHost Runtime
)

// Default returns the process-wide host, creating a Pipeline over
// DefaultPaths on first use.
func Default() Runtime {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultHost == nil {
		defaultHost = NewPipeline(WithPaths(DefaultPaths()...))
	}
	return defaultHost
}

// SetDefault replaces the process-wide host. Passing nil makes the next
// Default call create a fresh one.
func SetDefault(h Runtime) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultHost = h
}
