package imphook

import (
	"sync"

	"github.com/dshills/imphook/internal/module"
)

// Handler produces the module called name from the file at path. It
// returns (nil, nil) to decline the request; an error aborts the load.
type Handler func(name, path string) (*module.Module, error)

// Binding is a handler and the extensions it was registered for, in
// order. Extensions include their leading dot.
type Binding struct {
	Handler    Handler
	Extensions []string
}

// Registry holds bindings, most recently registered first. Bindings are
// never removed.
type Registry struct {
	mu       sync.RWMutex
	bindings []Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add prepends a binding for handler.
func (r *Registry) Add(handler Handler, exts ...string) {
	b := Binding{Handler: handler, Extensions: append([]string(nil), exts...)}

	r.mu.Lock()
	defer r.mu.Unlock()

	// A fresh slice keeps snapshots handed out earlier stable.
	next := make([]Binding, 0, len(r.bindings)+1)
	next = append(next, b)
	r.bindings = append(next, r.bindings...)
}

// Bindings returns the current bindings, most recent first. The returned
// slice is not affected by later registrations.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// Extensions returns every registered extension once, in dispatch order.
func (r *Registry) Extensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, b := range r.Bindings() {
		for _, ext := range b.Extensions {
			if !seen[ext] {
				seen[ext] = true
				exts = append(exts, ext)
			}
		}
	}
	return exts
}

// HandlersFor returns the handlers registered for ext, most recent first.
func (r *Registry) HandlersFor(ext string) []Handler {
	var hs []Handler
	for _, b := range r.Bindings() {
		for _, e := range b.Extensions {
			if e == ext {
				hs = append(hs, b.Handler)
				break
			}
		}
	}
	return hs
}
