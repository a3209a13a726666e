// Package luamod loads ".lua" files as modules.
//
// Each module gets its own sandboxed gopher-lua state. The chunk runs with
// the module name as its single vararg. If it returns a table, the table's
// string keys become the module's attributes; if it returns nothing, the
// globals it defined do.
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load and loadstring are removed, require only resolves the
// opened libraries, and print writes to the configured writer. Each call
// into Lua runs under a timeout enforced through the state's context.
//
// # Values
//
// Lua values cross into Starlark as follows:
//
//	nil          None
//	boolean      bool
//	number       int when integral, float otherwise
//	string       string
//	table        list when its keys are 1..n, dict otherwise
//	function     callable; arguments are converted back into Lua
//
// A module keeps its state alive for as long as the module is referenced,
// since its functions run in it.
package luamod
