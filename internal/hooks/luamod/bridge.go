package luamod

import (
	"fmt"
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/module"
)

// Function is a Lua function callable from Starlark.
type Function struct {
	name  string
	fn    *lua.LFunction
	state *State
}

var _ starlark.Callable = (*Function)(nil)

func (f *Function) Name() string          { return f.name }
func (f *Function) String() string        { return fmt.Sprintf("<lua function %s>", f.name) }
func (f *Function) Type() string          { return "lua_function" }
func (f *Function) Freeze()               {}
func (f *Function) Truth() starlark.Bool  { return starlark.True }
func (f *Function) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", f.Type()) }

// CallInternal converts args into Lua, calls the function and converts its
// results back. No results give None, several give a tuple.
func (f *Function) CallInternal(_ *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", f.name)
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = f.state.toLua(a)
	}

	rets, err := f.state.CallValue(f.fn, largs...)
	if err != nil {
		return nil, err
	}
	switch len(rets) {
	case 0:
		return starlark.None, nil
	case 1:
		return f.state.toStarlark(f.name, rets[0])
	}
	out := make(starlark.Tuple, len(rets))
	for i, r := range rets {
		v, err := f.state.toStarlark(f.name, r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// toStarlark converts a Lua value; name labels functions found inside it.
func (s *State) toStarlark(name string, lv lua.LValue) (starlark.Value, error) {
	return s.toStarlarkVisited(name, lv, make(map[*lua.LTable]bool))
}

func (s *State) toStarlarkVisited(name string, lv lua.LValue, visited map[*lua.LTable]bool) (starlark.Value, error) {
	switch v := lv.(type) {
	case nil, *lua.LNilType:
		return starlark.None, nil
	case lua.LBool:
		return starlark.Bool(v), nil
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return starlark.MakeInt64(int64(f)), nil
		}
		return starlark.Float(f), nil
	case lua.LString:
		return starlark.String(v), nil
	case *lua.LFunction:
		return &Function{name: name, fn: v, state: s}, nil
	case *lua.LTable:
		if visited[v] {
			return nil, fmt.Errorf("%s: table contains a reference cycle", name)
		}
		visited[v] = true
		defer delete(visited, v)
		return s.tableToStarlark(name, v, visited)
	case *lua.LUserData:
		return module.FromGo(v.Value)
	}
	return nil, fmt.Errorf("%s: cannot convert lua %s", name, lv.Type())
}

// tableToStarlark converts a table to a list when its keys are exactly
// 1..n and to a dict with sorted keys otherwise.
func (s *State) tableToStarlark(name string, t *lua.LTable, visited map[*lua.LTable]bool) (starlark.Value, error) {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && count == n {
		elems := make([]starlark.Value, n)
		for i := 1; i <= n; i++ {
			v, err := s.toStarlarkVisited(name, t.RawGetInt(i), visited)
			if err != nil {
				return nil, err
			}
			elems[i-1] = v
		}
		return starlark.NewList(elems), nil
	}

	type entry struct {
		key string
		val lua.LValue
	}
	var entries []entry
	t.ForEach(func(k, v lua.LValue) {
		entries = append(entries, entry{key: k.String(), val: v})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	d := starlark.NewDict(len(entries))
	for _, e := range entries {
		v, err := s.toStarlarkVisited(name+"."+e.key, e.val, visited)
		if err != nil {
			return nil, err
		}
		if err := d.SetKey(starlark.String(e.key), v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// toLua converts a Starlark value into Lua. Lua functions pass through;
// other values go through their plain Go form.
func (s *State) toLua(v starlark.Value) lua.LValue {
	if f, ok := v.(*Function); ok && f.state == s {
		return f.fn
	}
	return s.goToLua(module.ToGo(v))
}

func (s *State) goToLua(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := s.L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, s.goToLua(e))
		}
		return t
	case map[string]any:
		t := s.L.NewTable()
		for k, e := range val {
			t.RawSetString(k, s.goToLua(e))
		}
		return t
	}
	return lua.LString(fmt.Sprint(v))
}
