// Package host provides the module system that import hooks splice into.
//
// A host resolves module names against an ordered list of search
// directories, executes Starlark module source, and caches every loaded
// module by name. Two hosts are provided, one per capability model:
//
//   - Simple exposes a single substitution point, SetImportHook. The
//     installed Resolver is consulted for every search directory before the
//     host's own ".star" lookup.
//
//   - Pipeline exposes an ordered list of path hooks. Each hook is a factory
//     that builds a Finder for one search directory; the first hook that
//     accepts a directory wins, and the resulting Finder is kept in a path
//     cache until InvalidateCaches. The default hook, built by
//     FileFinderHook, maps file extensions to Loaders.
//
// Both hosts share Base, which owns the module cache, import cycle
// detection, Go-implemented builtin modules and the Starlark materializer.
//
// Module names are dotted. The base path of a name in a directory is the
// directory joined with the name's components:
//
//	BasePath("/srv/mods", "net.http") == "/srv/mods/net/http"
package host
