package host

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/imphook/internal/module"
)

// Spec describes a module a Finder located.
type Spec struct {
	// Name is the name the module is created under.
	Name string
	// Origin is the file the module is loaded from.
	Origin string
	// Ext is the matched extension, including its leading dot.
	Ext    string
	Loader Loader
}

// Loader produces a module from a located spec.
type Loader interface {
	Load(spec *Spec) (*module.Module, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(spec *Spec) (*module.Module, error)

// Load calls f.
func (f LoaderFunc) Load(spec *Spec) (*module.Module, error) { return f(spec) }

// LoaderDetails binds a loader to the extensions it handles.
type LoaderDetails struct {
	Loader     Loader
	Extensions []string
}

// Finder locates modules within one search directory.
type Finder interface {
	// FindSpec returns nil when the module is not in this directory.
	FindSpec(name string) (*Spec, error)
	InvalidateCaches()
}

// PathHook builds a Finder for a search directory. It returns
// ErrPathNotHandled to let later hooks try.
type PathHook func(dir string) (Finder, error)

// Pipeline is a host whose resolution is driven by an ordered list of path
// hooks and a cache of the finders they built.
type Pipeline struct {
	*Base
	hooks []PathHook
	cache map[string]Finder
}

var _ PathHookHost = (*Pipeline)(nil)

// NewPipeline returns a Pipeline host with the archive hook followed by
// the default file finder hook.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{cache: make(map[string]Finder)}
	p.Base = newBase(p.find, opts...)
	p.hooks = []PathHook{
		ArchiveHook(p.Base),
		FileFinderHook(p.SupportedLoaders()...),
	}
	return p
}

// PathHooks returns a copy of the path hook list.
func (p *Pipeline) PathHooks() []PathHook {
	return append([]PathHook(nil), p.hooks...)
}

// SetPathHooks replaces the path hook list. Cached finders are kept until
// InvalidateCaches.
func (p *Pipeline) SetPathHooks(hooks []PathHook) {
	p.hooks = append([]PathHook(nil), hooks...)
}

// SupportedLoaders returns the loaders of the host's default file finder.
func (p *Pipeline) SupportedLoaders() []LoaderDetails {
	return []LoaderDetails{
		{Loader: SourceLoader{Base: p.Base}, Extensions: []string{SourceExt}},
	}
}

// InvalidateCaches forgets every cached finder.
func (p *Pipeline) InvalidateCaches() {
	for _, f := range p.cache {
		if f != nil {
			f.InvalidateCaches()
		}
	}
	p.cache = make(map[string]Finder)
}

// finderFor returns the finder for dir, building it with the first path
// hook that accepts dir. A nil finder means no hook accepted it.
func (p *Pipeline) finderFor(dir string) (Finder, error) {
	if f, ok := p.cache[dir]; ok {
		return f, nil
	}
	for _, hook := range p.hooks {
		f, err := hook(dir)
		if errors.Is(err, ErrPathNotHandled) {
			continue
		}
		if err != nil {
			return nil, err
		}
		p.cache[dir] = f
		return f, nil
	}
	p.cache[dir] = nil
	return nil, nil
}

func (p *Pipeline) find(name, as string) (*module.Module, error) {
	for _, dir := range p.paths {
		f, err := p.finderFor(dir)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		spec, err := f.FindSpec(name)
		if err != nil {
			return nil, err
		}
		if spec == nil {
			continue
		}
		spec.Name = as
		m, err := spec.Loader.Load(spec)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("%w: %s from %s", ErrNoModule, name, spec.Origin)
		}
		return m, nil
	}
	return nil, nil
}

// SourceLoader executes Starlark source files.
type SourceLoader struct {
	Base *Base
}

// Load reads spec.Origin and executes it.
func (l SourceLoader) Load(spec *Spec) (*module.Module, error) {
	src, err := os.ReadFile(spec.Origin)
	if err != nil {
		return nil, err
	}
	return l.Base.Exec(spec.Name, spec.Origin, src)
}
