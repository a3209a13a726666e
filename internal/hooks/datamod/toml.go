package datamod

import (
	"errors"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/imphook/internal/module"
)

func decodeTOML(m *module.Module, path string, data []byte) error {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return setSorted(m, path, doc)
}
