package datamod

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/imphook/internal/module"
)

func decodeYAML(m *module.Module, path string, data []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	// An empty document decodes to a zero node.
	if root.Kind == 0 {
		return nil
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: %w", path, ErrNotMapping)
	}

	var values map[string]any
	if err := doc.Decode(&values); err != nil {
		return &ParseError{Path: path, Line: doc.Line, Column: doc.Column, Message: err.Error(), Err: err}
	}
	return setSorted(m, path, values)
}
