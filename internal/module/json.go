package module

import (
	"strings"

	"github.com/tidwall/sjson"
)

// ToJSON renders the module identity and namespace as a JSON object:
//
//	{"name": ..., "origin": ..., "namespace": {...}}
//
// Values without a data representation are rendered with their String form.
func ToJSON(m *Module) ([]byte, error) {
	out := []byte(`{"namespace":{}}`)
	var err error
	if out, err = sjson.SetBytes(out, "name", m.Name); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "origin", m.Origin); err != nil {
		return nil, err
	}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out, err = sjson.SetBytes(out, "namespace."+escapePath(k), ToGo(v))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// escapePath quotes characters that sjson treats as path syntax.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
