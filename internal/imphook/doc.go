// Package imphook lets a program register handlers that turn files with
// custom extensions into modules of a host.
//
// A Handler is bound to a list of extensions. Bindings live in a Registry,
// most recently registered first. On a module request the Dispatcher
// (Hooks.Resolve) tries every binding and extension against the request's
// base path and returns the first module a handler produces. A handler
// that returns (nil, nil) does not claim the request and the search goes
// on, even though a matching file existed.
//
// How the Dispatcher reaches the host depends on what the host offers,
// probed once on the first registration:
//
//   - host.HookSetter (single-hook splice): Resolve replaces the host's
//     resolver and the replaced one becomes the fallback.
//   - host.PathHookHost (pipeline splice): the host's default file finder
//     factory is located, removed, and rebuilt with an extension loader
//     for the registered extensions placed ahead of the host's own
//     loaders, at the same position in the path hook list.
//
// # Usage
//
//	hooks := imphook.New(h)
//	err := hooks.Register(func(name, path string) (*module.Module, error) {
//	    src, err := os.ReadFile(path)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return h.Exec(name, path, src)
//	}, ".mystar")
//
// Default returns a process-wide Hooks bound to host.Default. Registration
// is not synchronised for concurrent use; it is expected to happen while
// the program sets up, though a module being loaded may register handlers
// itself.
package imphook
