// Package hooks makes the bundled import handlers importable by name.
//
// Importing one of these modules, for example with "imphook -i arrowfunc"
// or load("arrowfunc", "extensions"), registers its handler with the
// given Hooks. The module itself exposes the extensions it registered.
package hooks

import (
	"sort"

	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/hooks/arrowfunc"
	"github.com/dshills/imphook/internal/hooks/conf"
	"github.com/dshills/imphook/internal/hooks/datamod"
	"github.com/dshills/imphook/internal/hooks/funkw"
	"github.com/dshills/imphook/internal/hooks/funkwnaive"
	"github.com/dshills/imphook/internal/hooks/luamod"
	"github.com/dshills/imphook/internal/imphook"
	"github.com/dshills/imphook/internal/module"
)

// Builtin describes a bundled handler module.
type Builtin struct {
	Extensions []string
	Register   func(k *imphook.Hooks) error
}

// Builtins returns the bundled handler modules by name. luaOpts configure
// the states of Lua modules.
func Builtins(luaOpts ...luamod.StateOption) map[string]Builtin {
	return map[string]Builtin{
		"arrowfunc":   {Extensions: []string{arrowfunc.Ext}, Register: arrowfunc.Register},
		"funkw":       {Extensions: []string{funkw.Ext}, Register: funkw.Register},
		"funkw_naive": {Extensions: []string{funkwnaive.Ext}, Register: funkwnaive.Register},
		"conf":        {Extensions: []string{conf.Ext}, Register: conf.Register},
		"data":        {Extensions: datamod.Extensions, Register: datamod.Register},
		"lua": {
			Extensions: []string{luamod.Ext},
			Register: func(k *imphook.Hooks) error {
				return luamod.Register(k, luaOpts...)
			},
		},
	}
}

// Names returns the names of the bundled handler modules, sorted.
func Names() []string {
	var names []string
	for name := range Builtins() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install registers every bundled handler module with r. Importing one
// registers its handler with k; r caches the module so that happens once.
func Install(r host.Runtime, k *imphook.Hooks, luaOpts ...luamod.StateOption) {
	for name, b := range Builtins(luaOpts...) {
		b := b
		r.RegisterBuiltin(name, func(name string) (*module.Module, error) {
			if err := b.Register(k); err != nil {
				return nil, err
			}
			exts := make([]starlark.Value, len(b.Extensions))
			for i, ext := range b.Extensions {
				exts[i] = starlark.String(ext)
			}
			m := module.New(name, "")
			m.Set("extensions", starlark.NewList(exts))
			return m, nil
		})
	}
}
