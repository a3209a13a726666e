// Package funkw lets module source spell lambda as function:
//
//	double = function x: x * 2
//
// Only name tokens are renamed, so strings and comments mentioning
// "function" are untouched.
package funkw

import (
	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/imphook"
	"github.com/dshills/imphook/internal/rewrite"
)

// Ext is the extension the handler is registered for.
const Ext = host.SourceExt

// Keyword is the rewrite applied to source.
var Keyword = rewrite.Keyword{From: "function", To: "lambda"}

// Handler returns a handler that renames function to lambda before
// executing in h.
func Handler(h host.Host) imphook.Handler {
	return imphook.RewriteHandler(h, Keyword)
}

// Register installs the handler for source files.
func Register(k *imphook.Hooks) error {
	return k.Register(Handler(k.Host()), Ext)
}
