package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/imphook/internal/token"
)

// Operator tables, longest first.
var (
	ops3 = []string{"**=", "//=", "<<=", ">>=", "..."}
	ops2 = []string{
		"==", "!=", "<=", ">=", "**", "//", "<<", ">>", "->",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	}
	ops1 = "+-*/%&|^~<>()[]{},:;.=@!"
)

// Scanner produces tokens on demand. It implements token.Stream.
type Scanner struct {
	src  []byte
	off  int
	line int
	col  int

	depth      int  // bracket nesting; newlines inside brackets are NL
	hasContent bool // current logical line has a non-comment token
	done       bool
	err        error
}

// New returns a Scanner over src.
func New(src []byte) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Tokenize scans all of src.
func Tokenize(src []byte) ([]token.Token, error) {
	s := New(src)
	toks := token.Collect(s)
	return toks, s.Err()
}

// Err returns the first lexical error encountered, if any.
func (s *Scanner) Err() error { return s.err }

func (s *Scanner) pos() token.Pos { return token.Pos{Line: s.line, Col: s.col} }

func (s *Scanner) peekRune(ahead int) rune {
	off := s.off
	for i := 0; ; i++ {
		if off >= len(s.src) {
			return -1
		}
		r, size := utf8.DecodeRune(s.src[off:])
		if i == ahead {
			return r
		}
		off += size
	}
}

func (s *Scanner) advance() rune {
	if s.off >= len(s.src) {
		return -1
	}
	r, size := utf8.DecodeRune(s.src[s.off:])
	s.off += size
	if r == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	return r
}

// skipSpace consumes blanks and backslash continuations and returns them.
func (s *Scanner) skipSpace() string {
	start := s.off
	for {
		switch r := s.peekRune(0); {
		case r == ' ' || r == '\t' || r == '\f':
			s.advance()
		case r == '\r' && s.peekRune(1) != '\n':
			s.advance()
		case r == '\\' && s.peekRune(1) == '\n':
			s.advance()
			s.advance()
		case r == '\\' && s.peekRune(1) == '\r' && s.peekRune(2) == '\n':
			s.advance()
			s.advance()
			s.advance()
		default:
			return string(s.src[start:s.off])
		}
	}
}

// Next returns the next token. The final token is always an EndMarker.
func (s *Scanner) Next() (token.Token, bool) {
	if s.done {
		return token.Token{}, false
	}

	space := s.skipSpace()
	pos := s.pos()
	start := s.off

	mk := func(kind token.Kind) (token.Token, bool) {
		return token.Token{Kind: kind, Text: string(s.src[start:s.off]), Space: space, Pos: pos}, true
	}

	r := s.peekRune(0)
	switch {
	case r < 0:
		if s.hasContent {
			s.hasContent = false
			return token.Token{Kind: token.Newline, Space: space, Pos: pos}, true
		}
		s.done = true
		return token.Token{Kind: token.EndMarker, Space: space, Pos: pos}, true

	case r == '\n' || r == '\r':
		if r == '\r' {
			s.advance()
		}
		s.advance()
		kind := token.NL
		if s.depth == 0 && s.hasContent {
			kind = token.Newline
		}
		s.hasContent = false
		return mk(kind)

	case r == '#':
		for c := s.peekRune(0); c >= 0 && c != '\n' && c != '\r'; c = s.peekRune(0) {
			s.advance()
		}
		return mk(token.Comment)
	}

	s.hasContent = true

	switch {
	case r == '"' || r == '\'':
		return s.scanString(start, space, pos)

	case isDigit(r) || (r == '.' && isDigit(s.peekRune(1))):
		s.scanNumber()
		return mk(token.Number)

	case isIdentStart(r):
		for isIdentPart(s.peekRune(0)) {
			s.advance()
		}
		if isStringPrefix(string(s.src[start:s.off])) {
			if q := s.peekRune(0); q == '"' || q == '\'' {
				return s.scanString(start, space, pos)
			}
		}
		return mk(token.Name)
	}

	if op := s.matchOp(); op != "" {
		switch op {
		case "(", "[", "{":
			s.depth++
		case ")", "]", "}":
			if s.depth > 0 {
				s.depth--
			}
		}
		return mk(token.Op)
	}

	s.advance()
	return mk(token.Error)
}

func (s *Scanner) matchOp() string {
	rest := s.src[s.off:]
	for _, table := range [][]string{ops3, ops2} {
		for _, op := range table {
			if strings.HasPrefix(string(rest[:min(len(rest), len(op))]), op) {
				s.off += len(op)
				s.col += len(op)
				return op
			}
		}
	}
	if len(rest) > 0 && strings.IndexByte(ops1, rest[0]) >= 0 {
		s.advance()
		return string(rest[:1])
	}
	return ""
}

// scanString consumes a string literal whose optional prefix starts at start.
// On an unterminated literal the rest of the input becomes an Error token.
func (s *Scanner) scanString(start int, space string, pos token.Pos) (token.Token, bool) {
	q := s.advance()
	triple := s.peekRune(0) == q && s.peekRune(1) == q
	if triple {
		s.advance()
		s.advance()
	}

	for {
		r := s.peekRune(0)
		switch {
		case r < 0:
			return s.unterminated(start, space, pos)
		case r == '\\':
			s.advance()
			if s.peekRune(0) >= 0 {
				s.advance()
			}
		case r == '\n' && !triple:
			return s.unterminated(start, space, pos)
		case r == q && !triple:
			s.advance()
			return token.Token{Kind: token.String, Text: string(s.src[start:s.off]), Space: space, Pos: pos}, true
		case r == q && s.peekRune(1) == q && s.peekRune(2) == q:
			s.advance()
			s.advance()
			s.advance()
			return token.Token{Kind: token.String, Text: string(s.src[start:s.off]), Space: space, Pos: pos}, true
		default:
			s.advance()
		}
	}
}

func (s *Scanner) unterminated(start int, space string, pos token.Pos) (token.Token, bool) {
	if s.err == nil {
		s.err = &Error{Pos: pos, Err: ErrUnterminatedString}
	}
	for s.advance() >= 0 {
	}
	s.hasContent = false
	return token.Token{Kind: token.Error, Text: string(s.src[start:s.off]), Space: space, Pos: pos}, true
}

func (s *Scanner) scanNumber() {
	if s.peekRune(0) == '0' {
		switch s.peekRune(1) {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			s.advance()
			s.advance()
			for isIdentPart(s.peekRune(0)) {
				s.advance()
			}
			return
		}
	}
	digits := func() {
		for r := s.peekRune(0); isDigit(r) || r == '_'; r = s.peekRune(0) {
			s.advance()
		}
	}
	digits()
	if s.peekRune(0) == '.' {
		s.advance()
		digits()
	}
	if r := s.peekRune(0); r == 'e' || r == 'E' {
		next := s.peekRune(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(s.peekRune(2))) {
			s.advance()
			if next == '+' || next == '-' {
				s.advance()
			}
			digits()
		}
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "b", "rb", "br":
		return true
	}
	return false
}
