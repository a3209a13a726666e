package imphook

import (
	"sync"

	"github.com/dshills/imphook/internal/host"
)

var (
	defaultMu    sync.Mutex
	defaultHooks *Hooks
)

// Default returns the process-wide Hooks, bound to host.Default on first
// use. It lives until ResetDefault.
func Default() *Hooks {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultHooks == nil {
		defaultHooks = New(host.Default())
	}
	return defaultHooks
}

// ResetDefault drops the process-wide Hooks so the next Default call binds
// a fresh registry to whatever host.Default returns then.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultHooks = nil
}

// AddImportHook registers handler for exts with the process-wide Hooks.
func AddImportHook(handler Handler, exts ...string) error {
	return Default().Register(handler, exts...)
}
