package imphook

import "errors"

// Registration and dispatch errors.
var (
	// ErrNoHandler is returned by the pipeline loader when no handler
	// registered for the matched extension produced a module.
	ErrNoHandler = errors.New("no import handler produced a module")

	// ErrUnsupportedHost is returned when the host offers neither a single
	// import hook nor a path hook pipeline.
	ErrUnsupportedHost = errors.New("host does not support import hooks")

	// ErrInvalidExtension is returned for an empty extension list or an
	// empty extension string.
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("handler is nil")
)
