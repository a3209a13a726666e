package luamod

import "errors"

// Errors for Lua module loading.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a chunk or call runs past the
	// state's timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrBadReturn is returned when a chunk returns something other than a
	// table or nil.
	ErrBadReturn = errors.New("lua module must return a table or nothing")
)
