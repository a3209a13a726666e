package lexer

import (
	"errors"
	"fmt"

	"github.com/dshills/imphook/internal/token"
)

// ErrUnterminatedString is returned when a string literal runs into the end
// of its line (or of the input, for triple-quoted strings).
var ErrUnterminatedString = errors.New("unterminated string literal")

// Error is a lexical error with its source position.
type Error struct {
	Pos token.Pos
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Pos.Line, e.Pos.Col, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
