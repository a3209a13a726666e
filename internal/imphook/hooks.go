package imphook

import (
	"fmt"
	"log/slog"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/module"
)

// Strategy identifies how the Dispatcher is spliced into a host.
type Strategy int

const (
	// StrategyNone means nothing has been installed yet.
	StrategyNone Strategy = iota
	// StrategySingleHook replaces the host's single import hook.
	StrategySingleHook
	// StrategyPipeline rebuilds the host's default path hook.
	StrategyPipeline
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategySingleHook:
		return "single-hook"
	case StrategyPipeline:
		return "pipeline"
	default:
		return "none"
	}
}

// probeDir is handed to path hooks to find out what kind of finder they
// build.
const probeDir = "."

// Hooks is a Registry and Dispatcher spliced into one host.
type Hooks struct {
	host     host.Host
	reg      *Registry
	strategy Strategy
	fallback host.Resolver
	logger   *slog.Logger
}

// New returns Hooks for h. Nothing is installed until the first Register.
func New(h host.Host) *Hooks {
	return &Hooks{
		host:   h,
		reg:    NewRegistry(),
		logger: h.Logger(),
	}
}

// Host returns the host the hooks are installed into.
func (k *Hooks) Host() host.Host { return k.host }

// Registry returns the hooks' registry.
func (k *Hooks) Registry() *Registry { return k.reg }

// Strategy returns the install strategy chosen by the first registration.
func (k *Hooks) Strategy() Strategy { return k.strategy }

// Register binds handler to exts and makes sure the Dispatcher is
// installed. The first call probes the host and fixes the strategy for the
// lifetime of k.
func (k *Hooks) Register(handler Handler, exts ...string) error {
	if handler == nil {
		return ErrNilHandler
	}
	if len(exts) == 0 {
		return fmt.Errorf("%w: no extensions", ErrInvalidExtension)
	}
	for _, ext := range exts {
		if ext == "" {
			return fmt.Errorf("%w: empty string", ErrInvalidExtension)
		}
	}

	if k.strategy == StrategyNone {
		switch k.host.(type) {
		case host.HookSetter:
			k.strategy = StrategySingleHook
		case host.PathHookHost:
			k.strategy = StrategyPipeline
		default:
			return fmt.Errorf("%w: %T", ErrUnsupportedHost, k.host)
		}
		k.logger.Debug("import hooks installing", "strategy", k.strategy.String())
	}

	first := k.reg.Len() == 0
	k.reg.Add(handler, exts...)
	k.logger.Debug("import hook registered", "extensions", exts)

	switch k.strategy {
	case StrategySingleHook:
		if first {
			k.installSingleHook(k.host.(host.HookSetter))
		}
	case StrategyPipeline:
		k.installPipeline(k.host.(host.PathHookHost))
	}
	return nil
}

// Resolve is the Dispatcher. It tries each binding, most recent first, and
// each of its extensions in order. A handler is called only when
// basePath+ext is a regular file, and only a non-nil module stops the
// search. When every binding declines, the request goes to the resolver
// that was installed before k, if any.
func (k *Hooks) Resolve(name, basePath string) (*module.Module, error) {
	for _, b := range k.reg.Bindings() {
		for _, ext := range b.Extensions {
			p := basePath + ext
			if !host.IsFile(p) {
				continue
			}
			m, err := b.Handler(name, p)
			if err != nil {
				return nil, err
			}
			if m != nil {
				k.logger.Debug("import hook claimed module", "module", name, "path", p)
				return m, nil
			}
		}
	}
	if k.fallback != nil {
		return k.fallback(name, basePath)
	}
	return nil, nil
}

func (k *Hooks) installSingleHook(h host.HookSetter) {
	k.fallback = h.SetImportHook(k.Resolve)
}

// installPipeline replaces the host's default file finder hook with one
// whose first loader serves every registered extension. It runs on every
// registration so the finder learns about new extensions.
func (k *Hooks) installPipeline(h host.PathHookHost) {
	details := make([]host.LoaderDetails, 0, 2)
	details = append(details, host.LoaderDetails{
		Loader:     extLoader{reg: k.reg},
		Extensions: k.reg.Extensions(),
	})
	details = append(details, h.SupportedLoaders()...)
	spliced := host.FileFinderHook(details...)

	hooks := h.PathHooks()
	at := defaultFinderIndex(hooks)
	if at < 0 {
		k.logger.Warn("default file finder hook not found; installing import hooks first")
		hooks = append([]host.PathHook{spliced}, hooks...)
	} else {
		hooks[at] = spliced
	}
	h.SetPathHooks(hooks)
	h.InvalidateCaches()
}

// defaultFinderIndex returns the position of the first path hook that
// builds a *host.FileFinder, or -1.
func defaultFinderIndex(hooks []host.PathHook) int {
	for i, hook := range hooks {
		f, err := hook(probeDir)
		if err != nil {
			continue
		}
		if _, ok := f.(*host.FileFinder); ok {
			return i
		}
	}
	return -1
}

// extLoader loads a located file with the handlers registered for its
// extension. There is no fallback past them; the host's own loaders come
// later in the same finder.
type extLoader struct {
	reg *Registry
}

func (l extLoader) Load(spec *host.Spec) (*module.Module, error) {
	for _, handler := range l.reg.HandlersFor(spec.Ext) {
		m, err := handler(spec.Name, spec.Origin)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (%s)", ErrNoHandler, spec.Name, spec.Origin)
}
