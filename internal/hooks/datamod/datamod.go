package datamod

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dshills/imphook/internal/imphook"
	"github.com/dshills/imphook/internal/module"
)

// Decoder fills m from the contents of the file at path.
type Decoder func(m *module.Module, path string, data []byte) error

var decoders = map[string]Decoder{
	".toml": decodeTOML,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".json": decodeJSON,
	".hcl":  decodeHCL,
}

// Extensions lists the handled extensions in registration order.
var Extensions = []string{".toml", ".yaml", ".yml", ".json", ".hcl"}

// Load decodes the file at path into a module called name. The decoder is
// chosen by the path's extension.
func Load(name, path string) (*module.Module, error) {
	dec, ok := decoders[filepath.Ext(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := module.New(name, path)
	if err := dec(m, path, data); err != nil {
		return nil, err
	}
	return m, nil
}

// Register binds Load to every data extension.
func Register(k *imphook.Hooks) error {
	return k.Register(Load, Extensions...)
}

// setSorted converts a decoded mapping and adds it to m in key order.
func setSorted(m *module.Module, path string, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := module.FromGo(data[k])
		if err != nil {
			return fmt.Errorf("%s: key %q: %w", path, k, err)
		}
		m.Set(k, v)
	}
	return nil
}
