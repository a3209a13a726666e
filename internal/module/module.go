// Package module defines the module record produced by import handlers and
// the materializer that turns source text into one.
package module

import (
	"fmt"

	"go.starlark.net/starlark"
)

// Module is a loaded module: an identity plus the names it defines.
//
// A Module is created per successful load. Once returned to the host it is
// owned by the host's module cache.
type Module struct {
	Name   string
	Origin string

	ns      Namespace
	release []func()
}

// New returns an empty module bound to name and origin path.
func New(name, origin string) *Module {
	return &Module{Name: name, Origin: origin}
}

// FromGlobals returns a module whose namespace holds globals.
func FromGlobals(name, origin string, globals starlark.StringDict) *Module {
	m := New(name, origin)
	for _, k := range globals.Keys() {
		m.ns.Set(k, globals[k])
	}
	return m
}

// Namespace returns the module's namespace.
func (m *Module) Namespace() *Namespace { return &m.ns }

// Set binds name to v in the module namespace.
func (m *Module) Set(name string, v starlark.Value) { m.ns.Set(name, v) }

// Get returns the value bound to name.
func (m *Module) Get(name string) (starlark.Value, bool) { return m.ns.Get(name) }

// Keys returns the bound names in insertion order.
func (m *Module) Keys() []string { return m.ns.Keys() }

// Globals returns the namespace as a StringDict, the form Starlark's load
// statement expects.
func (m *Module) Globals() starlark.StringDict { return m.ns.StringDict() }

// OnRelease registers fn to run when the host drops the module from its
// cache, for handlers that keep a runtime alive behind the module's values.
func (m *Module) OnRelease(fn func()) { m.release = append(m.release, fn) }

// Release runs the functions registered with OnRelease, most recent first.
// Later calls do nothing.
func (m *Module) Release() {
	fns := m.release
	m.release = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Namespace is an ordered mapping from name to value.
type Namespace struct {
	keys []string
	vals map[string]starlark.Value
}

// Set binds name to v. Rebinding keeps the original position.
func (n *Namespace) Set(name string, v starlark.Value) {
	if n.vals == nil {
		n.vals = make(map[string]starlark.Value)
	}
	if _, ok := n.vals[name]; !ok {
		n.keys = append(n.keys, name)
	}
	n.vals[name] = v
}

// Get returns the value bound to name.
func (n *Namespace) Get(name string) (starlark.Value, bool) {
	v, ok := n.vals[name]
	return v, ok
}

// Keys returns the bound names in insertion order.
func (n *Namespace) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Len returns the number of bindings.
func (n *Namespace) Len() int { return len(n.keys) }

// StringDict copies the namespace into a StringDict.
func (n *Namespace) StringDict() starlark.StringDict {
	d := make(starlark.StringDict, len(n.keys))
	for _, k := range n.keys {
		d[k] = n.vals[k]
	}
	return d
}

func (m *Module) describe() string {
	if m.Origin == "" {
		return fmt.Sprintf("<module %q>", m.Name)
	}
	return fmt.Sprintf("<module %q from %q>", m.Name, m.Origin)
}
