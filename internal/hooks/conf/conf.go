// Package conf loads "key = value" files as modules whose attributes are
// strings.
//
//	# comment
//	host = example.org
//	port = 8080
//
// gives host == "example.org" and port == "8080". Blank lines and lines
// starting with # are skipped. Keys and values are trimmed; a value keeps
// any further "=" it contains.
package conf

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/imphook"
	"github.com/dshills/imphook/internal/module"
)

// Ext is the extension the handler is registered for.
const Ext = ".conf"

// ErrSyntax is returned for a line with no "=" or an empty key.
var ErrSyntax = errors.New("conf syntax error")

// Load reads the file at path into a module called name.
func Load(name, path string) (*module.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := module.New(name, path)
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		k, v, ok := strings.Cut(text, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %s:%d: want key = value", ErrSyntax, path, line)
		}
		m.Set(k, starlark.String(strings.TrimSpace(v)))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Register installs the handler for ".conf" files.
func Register(k *imphook.Hooks) error {
	return k.Register(Load, Ext)
}
