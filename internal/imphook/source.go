package imphook

import (
	"fmt"
	"os"

	"github.com/dshills/imphook/internal/host"
	"github.com/dshills/imphook/internal/module"
	"github.com/dshills/imphook/internal/rewrite"
)

// SourceHandler returns a handler that reads the file, passes its text
// through transform and executes the result in h. The module's origin and
// error positions refer to the original file.
func SourceHandler(h host.Host, transform func(src []byte) ([]byte, error)) Handler {
	return func(name, path string) (*module.Module, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out, err := transform(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return h.Exec(name, path, out)
	}
}

// RewriteHandler returns a SourceHandler that runs the source's tokens
// through rs.
func RewriteHandler(h host.Host, rs ...rewrite.Rewriter) Handler {
	return SourceHandler(h, func(src []byte) ([]byte, error) {
		out, err := rewrite.Source(src, rs...)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	})
}
