package host

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/module"
)

// BuiltinFunc produces a Go-implemented module. It runs the first time the
// module is imported.
type BuiltinFunc func(name string) (*module.Module, error)

// finder is the host-specific part of resolution: look name up in the
// search path and produce a module called as.
type finder func(name, as string) (*module.Module, error)

// Base is the state shared by every host: search path, module cache,
// builtin modules and the materializer.
//
// Base is not safe for concurrent use. Imports are expected to happen on a
// single goroutine; nested imports triggered while a module loads are fine.
type Base struct {
	paths       []string
	modules     map[string]*module.Module
	loading     map[string]bool
	dependents  map[string]map[string]bool // module -> modules that loaded it
	builtins    map[string]BuiltinFunc
	predeclared starlark.StringDict

	logger *slog.Logger
	stdout io.Writer

	mat  *module.Materializer
	find finder
}

// Option configures a host.
type Option func(*Base)

// WithPaths sets the module search path.
func WithPaths(paths ...string) Option {
	return func(b *Base) {
		b.paths = append([]string(nil), paths...)
	}
}

// WithLogger sets the host logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Base) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithStdout sets where Starlark print() output goes.
func WithStdout(w io.Writer) Option {
	return func(b *Base) {
		if w != nil {
			b.stdout = w
		}
	}
}

// WithPredeclared adds names visible to every module.
func WithPredeclared(d starlark.StringDict) Option {
	return func(b *Base) {
		for k, v := range d {
			b.predeclared[k] = v
		}
	}
}

func newBase(find finder, opts ...Option) *Base {
	b := &Base{
		modules:     make(map[string]*module.Module),
		loading:     make(map[string]bool),
		dependents:  make(map[string]map[string]bool),
		builtins:    make(map[string]BuiltinFunc),
		predeclared: make(starlark.StringDict),
		logger:      slog.Default(),
		stdout:      os.Stdout,
		find:        find,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.mat = &module.Materializer{
		Predeclared: b.predeclared,
		Load:        b.load,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(b.stdout, msg)
		},
	}
	return b
}

// Logger returns the host logger.
func (b *Base) Logger() *slog.Logger { return b.logger }

// Paths returns the search path.
func (b *Base) Paths() []string {
	return append([]string(nil), b.paths...)
}

// AddPath appends a search directory.
func (b *Base) AddPath(dir string) {
	b.paths = append(b.paths, dir)
}

// Predeclare makes v visible under name to every module executed afterwards.
func (b *Base) Predeclare(name string, v starlark.Value) {
	b.predeclared[name] = v
}

// RegisterBuiltin makes fn importable under name. Builtins take precedence
// over the search path.
func (b *Base) RegisterBuiltin(name string, fn BuiltinFunc) {
	b.builtins[name] = fn
}

// Modules returns the names of cached modules, sorted.
func (b *Base) Modules() []string {
	names := make([]string, 0, len(b.modules))
	for name := range b.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Forget drops name from the module cache so the next import reloads it.
func (b *Base) Forget(name string) bool {
	m, ok := b.modules[name]
	if ok {
		b.drop(name, m)
	}
	return ok
}

// ForgetOrigin drops every cached module loaded from path, and every module
// that loaded one of those directly or indirectly, and returns their names.
func (b *Base) ForgetOrigin(path string) []string {
	var queue []string
	for name, m := range b.modules {
		if m.Origin == path {
			queue = append(queue, name)
		}
	}

	seen := make(map[string]bool)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		for dep := range b.dependents[name] {
			queue = append(queue, dep)
		}
	}

	var dropped []string
	for name := range seen {
		delete(b.dependents, name)
		if m, ok := b.modules[name]; ok {
			b.drop(name, m)
			dropped = append(dropped, name)
		}
	}
	sort.Strings(dropped)
	return dropped
}

func (b *Base) drop(name string, m *module.Module) {
	delete(b.modules, name)
	m.Release()
}

// NewThread returns a Starlark thread whose load statements go through
// this host.
func (b *Base) NewThread(name string) *starlark.Thread {
	return b.mat.Thread(name)
}

// Exec executes src as module name from path without caching it.
func (b *Base) Exec(name, path string, src []byte) (*module.Module, error) {
	return b.mat.Exec(name, path, src)
}

// RunFile executes a script as the main module.
func (b *Base) RunFile(path string, src []byte) (*module.Module, error) {
	m, err := b.Exec(MainName, path, src)
	if err != nil {
		return nil, err
	}
	b.setMain(m)
	return m, nil
}

// RunModule resolves name on the search path and executes it as the main
// module.
func (b *Base) RunModule(name string) (*module.Module, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	m, err := b.find(name, MainName)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	b.setMain(m)
	return m, nil
}

// setMain caches m as the main module, releasing the one it replaces.
func (b *Base) setMain(m *module.Module) {
	if old, ok := b.modules[MainName]; ok && old != m {
		old.Release()
	}
	b.modules[MainName] = m
}

// Import returns the module called name, loading it on first use.
func (b *Base) Import(name string) (*module.Module, error) {
	if m, ok := b.modules[name]; ok {
		return m, nil
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if b.loading[name] {
		return nil, fmt.Errorf("%w: %s", ErrImportCycle, name)
	}
	b.loading[name] = true
	defer delete(b.loading, name)

	log := b.logger.With("module", name, "load_id", uuid.NewString())
	log.Debug("loading module")

	var (
		m   *module.Module
		err error
	)
	if fn, ok := b.builtins[name]; ok {
		m, err = fn(name)
	} else {
		m, err = b.find(name, name)
	}
	if err != nil {
		log.Debug("module load failed", "error", err)
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}

	b.modules[name] = m
	log.Debug("module loaded", "origin", m.Origin)
	return m, nil
}

func (b *Base) load(thread *starlark.Thread, name string) (starlark.StringDict, error) {
	m, err := b.Import(name)
	if err != nil {
		return nil, err
	}
	// Threads run under the name of the module they execute.
	if thread.Name != "" && thread.Name != name {
		if b.dependents[name] == nil {
			b.dependents[name] = make(map[string]bool)
		}
		b.dependents[name][thread.Name] = true
	}
	return m.Globals(), nil
}

// loadSource executes the source file at path as module as. It returns
// nil, nil when path is not a regular file.
func (b *Base) loadSource(as, path string) (*module.Module, error) {
	if !IsFile(path) {
		return nil, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.Exec(as, path, src)
}

// ValidateName checks that name is a dotted sequence of identifiers.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		for i, r := range part {
			if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
				continue
			}
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}
