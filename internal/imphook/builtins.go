package imphook

import (
	"fmt"
	"os"

	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/module"
	"github.com/dshills/imphook/internal/rewrite"
)

// Builtins returns the Starlark functions that let import handlers be
// written in Starlark:
//
//	add_import_hook(handler, exts)       register handler(name, path) for exts
//	new_module(name, path="", **attrs)   build a module from attributes
//	read_file(path)                      file contents as a string
//	exec_module(name, path, src)         execute src as a module
//	rewrite_arrows(src)                  expand (params) => body arrows
//	map(fn, iterable)                    list of fn(x) for each x
//
// A handler module can call add_import_hook while it is itself being
// loaded; later load statements see the new handler.
func Builtins(k *Hooks) starlark.StringDict {
	return starlark.StringDict{
		"add_import_hook": starlark.NewBuiltin("add_import_hook", k.addImportHook),
		"new_module":      starlark.NewBuiltin("new_module", newModule),
		"read_file":       starlark.NewBuiltin("read_file", readFile),
		"exec_module":     starlark.NewBuiltin("exec_module", k.execModule),
		"rewrite_arrows":  starlark.NewBuiltin("rewrite_arrows", rewriteArrows),
		"map":             starlark.NewBuiltin("map", mapList),
	}
}

func (k *Hooks) addImportHook(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		fn   starlark.Callable
		extv starlark.Value
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "handler", &fn, "exts", &extv); err != nil {
		return nil, err
	}
	exts, err := stringList(extv)
	if err != nil {
		return nil, fmt.Errorf("%s: exts: %w", b.Name(), err)
	}
	if err := k.Register(k.starlarkHandler(fn), exts...); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return starlark.None, nil
}

// starlarkHandler adapts a Starlark callable to a Handler. The callable
// returns a module or None.
func (k *Hooks) starlarkHandler(fn starlark.Callable) Handler {
	return func(name, path string) (*module.Module, error) {
		thread := k.host.NewThread("import hook " + name)
		v, err := starlark.Call(thread, fn, starlark.Tuple{starlark.String(name), starlark.String(path)}, nil)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case starlark.NoneType:
			return nil, nil
		case *module.Module:
			return v, nil
		}
		return nil, fmt.Errorf("import hook %s returned %s, want module or None", fn.Name(), v.Type())
	}
}

func (k *Hooks) execModule(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, path, src string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "path", &path, "src", &src); err != nil {
		return nil, err
	}
	m, err := k.host.Exec(name, path, []byte(src))
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newModule(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, path string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, nil, 1, &name, &path); err != nil {
		return nil, err
	}
	attrs := make([]starlark.Tuple, 0, len(kwargs))
	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		if key == "path" && len(args) < 2 {
			s, ok := starlark.AsString(kv[1])
			if !ok {
				return nil, fmt.Errorf("%s: path must be a string, got %s", b.Name(), kv[1].Type())
			}
			path = s
			continue
		}
		attrs = append(attrs, kv)
	}

	m := module.New(name, path)
	for _, kv := range attrs {
		m.Set(string(kv[0].(starlark.String)), kv[1])
	}
	return m, nil
}

func readFile(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "path", &path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return starlark.String(data), nil
}

func rewriteArrows(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var src string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "src", &src); err != nil {
		return nil, err
	}
	out, err := rewrite.Source([]byte(src), rewrite.NewArrow())
	if err != nil {
		return nil, err
	}
	return starlark.String(out), nil
}

func mapList(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		fn starlark.Callable
		xs starlark.Iterable
	)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &fn, &xs); err != nil {
		return nil, err
	}
	iter := xs.Iterate()
	defer iter.Done()

	var out []starlark.Value
	var x starlark.Value
	for iter.Next(&x) {
		y, err := starlark.Call(thread, fn, starlark.Tuple{x}, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return starlark.NewList(out), nil
}

// stringList accepts a string or an iterable of strings.
func stringList(v starlark.Value) ([]string, error) {
	if s, ok := starlark.AsString(v); ok {
		return []string{s}, nil
	}
	xs, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("want string or list of strings, got %s", v.Type())
	}
	iter := xs.Iterate()
	defer iter.Done()

	var out []string
	var x starlark.Value
	for iter.Next(&x) {
		s, ok := starlark.AsString(x)
		if !ok {
			return nil, fmt.Errorf("want string, got %s", x.Type())
		}
		out = append(out, s)
	}
	return out, nil
}
