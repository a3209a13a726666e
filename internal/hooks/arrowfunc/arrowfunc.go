// Package arrowfunc adds JavaScript-style arrow functions to module
// source:
//
//	f = (a, b) => a + b
//
// is executed as
//
//	f = lambda a, b: a + b
package arrowfunc

import (
	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/imphook"
	"github.com/dshills/imphook/internal/rewrite"
)

// Ext is the extension the handler is registered for.
const Ext = host.SourceExt

// Handler returns a handler that expands arrows before executing in h.
func Handler(h host.Host) imphook.Handler {
	return imphook.RewriteHandler(h, rewrite.NewArrow())
}

// Register installs the handler for source files.
func Register(k *imphook.Hooks) error {
	return k.Register(Handler(k.Host()), Ext)
}
