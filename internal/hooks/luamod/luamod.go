package luamod

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/imphook/internal/imphook"
	"github.com/dshills/imphook/internal/module"
)

// Ext is the extension handled by this package.
const Ext = ".lua"

// Loader turns Lua files into modules.
type Loader struct {
	opts []StateOption
}

// NewLoader returns a Loader whose states are built with opts.
func NewLoader(opts ...StateOption) *Loader {
	return &Loader{opts: opts}
}

// Load runs the file at path in a fresh state and returns the module it
// defines. It implements imphook.Handler.
func (l *Loader) Load(name, path string) (*module.Module, error) {
	st := NewState(l.opts...)
	baseline := st.GlobalNames()

	ret, err := st.DoFile(path, lua.LString(name))
	if err != nil {
		st.Close()
		return nil, err
	}

	m := module.New(name, path)
	switch v := ret.(type) {
	case *lua.LTable:
		err = st.exportTable(m, v)
	case *lua.LNilType:
		err = st.exportGlobals(m, baseline)
	default:
		err = fmt.Errorf("%w: got %s", ErrBadReturn, ret.Type())
	}
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// Exported functions call back into st, so it lives as long as the
	// module stays cached.
	m.OnRelease(func() { _ = st.Close() })
	return m, nil
}

func (s *State) exportTable(m *module.Module, t *lua.LTable) error {
	var keys []string
	t.ForEach(func(k, _ lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			keys = append(keys, string(ks))
		}
	})
	return s.export(m, keys, func(k string) lua.LValue { return t.RawGetString(k) })
}

func (s *State) exportGlobals(m *module.Module, baseline map[string]bool) error {
	var keys []string
	for k := range s.GlobalNames() {
		if !baseline[k] {
			keys = append(keys, k)
		}
	}
	return s.export(m, keys, s.GetGlobal)
}

func (s *State) export(m *module.Module, keys []string, get func(string) lua.LValue) error {
	sort.Strings(keys)
	for _, k := range keys {
		v, err := s.toStarlark(k, get(k))
		if err != nil {
			return err
		}
		m.Set(k, v)
	}
	return nil
}

// Handler returns an import handler backed by a new Loader.
func Handler(opts ...StateOption) imphook.Handler {
	return NewLoader(opts...).Load
}

// Register binds a Lua handler to ".lua" files.
func Register(k *imphook.Hooks, opts ...StateOption) error {
	return k.Register(Handler(opts...), Ext)
}
