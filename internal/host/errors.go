package host

import "errors"

// Host errors.
var (
	// ErrModuleNotFound is returned when no search directory yields the module.
	ErrModuleNotFound = errors.New("module not found")

	// ErrImportCycle is returned when a module is requested while it is
	// still being loaded.
	ErrImportCycle = errors.New("import cycle")

	// ErrInvalidName is returned for module names that are not dotted identifiers.
	ErrInvalidName = errors.New("invalid module name")

	// ErrPathNotHandled is returned by a PathHook that declines a search directory.
	ErrPathNotHandled = errors.New("path not handled")

	// ErrNoModule is returned when a loader accepted a spec but produced nothing.
	ErrNoModule = errors.New("loader produced no module")

	// ErrUnknownKind is returned by New for an unrecognised host kind.
	ErrUnknownKind = errors.New("unknown host kind")
)
