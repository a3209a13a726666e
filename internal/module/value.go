package module

import (
	"fmt"

	"go.starlark.net/starlark"
)

// Special attributes every module answers, unless its namespace overrides them.
const (
	AttrName = "__name__"
	AttrFile = "__file__"
)

var (
	_ starlark.Value    = (*Module)(nil)
	_ starlark.HasAttrs = (*Module)(nil)
)

func (m *Module) String() string        { return m.describe() }
func (m *Module) Type() string          { return "module" }
func (m *Module) Truth() starlark.Bool  { return starlark.True }
func (m *Module) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: module") }

// Freeze freezes every value in the namespace.
func (m *Module) Freeze() {
	for _, k := range m.ns.keys {
		m.ns.vals[k].Freeze()
	}
}

// Attr implements starlark.HasAttrs.
func (m *Module) Attr(name string) (starlark.Value, error) {
	if v, ok := m.ns.Get(name); ok {
		return v, nil
	}
	switch name {
	case AttrName:
		return starlark.String(m.Name), nil
	case AttrFile:
		return starlark.String(m.Origin), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs.
func (m *Module) AttrNames() []string { return m.ns.Keys() }
