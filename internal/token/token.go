// Package token defines the lexical units exchanged between the lexer and the
// token rewriters, and the pull-based stream they flow through.
package token

import "fmt"

// Kind represents the type of a token.
type Kind uint8

const (
	// Error marks a character the lexer could not classify.
	Error Kind = iota
	Name
	Number
	String
	Op
	Comment
	Newline   // end of a logical line
	NL        // line break that does not end a logical line
	EndMarker // end of input
)

var kindNames = [...]string{
	Error:     "ERRORTOKEN",
	Name:      "NAME",
	Number:    "NUMBER",
	String:    "STRING",
	Op:        "OP",
	Comment:   "COMMENT",
	Newline:   "NEWLINE",
	NL:        "NL",
	EndMarker: "ENDMARKER",
}

// String returns the conventional upper-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Pos is a 1-based line and 0-based column in the original source.
type Pos struct {
	Line int
	Col  int
}

// IsValid reports whether the position refers to a real source location.
// Tokens synthesized by a rewriter carry the zero Pos.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is an immutable lexical unit.
//
// Space holds the whitespace that preceded the token in the source, so a
// token sequence can be turned back into text without losing layout.
type Token struct {
	Kind  Kind
	Text  string
	Space string
	Pos   Pos
}

// New returns a synthesized token with no source position.
func New(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// Is reports whether the token's text equals s.
func (t Token) Is(s string) bool { return t.Text == s }

// WithSpace returns a copy of t with its leading whitespace replaced.
func (t Token) WithSpace(space string) Token {
	t.Space = space
	return t
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%s", t.Kind, t.Text, t.Pos)
}
