package module

import (
	"go.starlark.net/starlark"
)

// LoadFunc resolves a load() statement to the globals of another module.
type LoadFunc func(thread *starlark.Thread, name string) (starlark.StringDict, error)

// Materializer turns source text into a populated Module by executing it.
type Materializer struct {
	// Predeclared names visible to every executed module.
	Predeclared starlark.StringDict

	// Load handles load() statements. Nil disables them.
	Load LoadFunc

	// Print receives print() output. Nil uses Starlark's default (stderr).
	Print func(thread *starlark.Thread, msg string)
}

// Thread returns a new thread wired to m's Load and Print.
func (m *Materializer) Thread(name string) *starlark.Thread {
	t := &starlark.Thread{Name: name, Print: m.Print}
	if m.Load != nil {
		t.Load = m.Load
	}
	return t
}

// Exec executes src as module name loaded from path.
//
// The source is compiled under path, so errors point at the original file
// even when src is a rewritten version of it. Compile and runtime errors are
// returned unchanged.
func (m *Materializer) Exec(name, path string, src []byte) (*Module, error) {
	return m.ExecThread(m.Thread(name), name, path, src)
}

// ExecThread is like Exec but runs on the given thread.
func (m *Materializer) ExecThread(thread *starlark.Thread, name, path string, src []byte) (*Module, error) {
	predeclared := make(starlark.StringDict, len(m.Predeclared)+2)
	for k, v := range m.Predeclared {
		predeclared[k] = v
	}
	predeclared[AttrName] = starlark.String(name)
	predeclared[AttrFile] = starlark.String(path)

	globals, err := starlark.ExecFile(thread, path, src, predeclared)
	if err != nil {
		return nil, err
	}
	return FromGlobals(name, path, globals), nil
}
