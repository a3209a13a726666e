// Package funkwnaive is funkw done with plain text substitution: every
// occurrence of "function" in the file becomes "lambda", including inside
// strings, comments and longer identifiers.
package funkwnaive

import (
	"bytes"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/imphook"
)

// Ext is the extension the handler is registered for.
const Ext = host.SourceExt

// Replace returns src with every "function" replaced by "lambda".
func Replace(src []byte) []byte {
	return bytes.ReplaceAll(src, []byte("function"), []byte("lambda"))
}

// Handler returns a handler that substitutes before executing in h.
func Handler(h host.Host) imphook.Handler {
	return imphook.SourceHandler(h, func(src []byte) ([]byte, error) {
		return Replace(src), nil
	})
}

// Register installs the handler for source files.
func Register(k *imphook.Hooks) error {
	return k.Register(Handler(k.Host()), Ext)
}
