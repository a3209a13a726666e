package datamod

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMapping is returned when a file's top level is not a mapping.
	ErrNotMapping = errors.New("top level of data file is not a mapping")

	// ErrUnknownFormat is returned for a path whose extension has no decoder.
	ErrUnknownFormat = errors.New("unknown data format")
)

// ParseError describes a file that could not be decoded.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }
