package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/imphook/internal/token"
)

// Untokenize rebuilds source text from a token stream.
//
// Tokens are written as Space followed by Text. When a synthesized token
// (one without a source position) would otherwise be glued to a
// neighbouring word, a single blank is inserted between them.
func Untokenize(s token.Stream) string {
	var b strings.Builder
	var prev token.Token
	for {
		t, ok := s.Next()
		if !ok {
			break
		}
		if t.Space != "" {
			b.WriteString(t.Space)
		} else if needsBlank(prev, t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
		if t.Text != "" {
			prev = t
		}
	}
	return b.String()
}

func needsBlank(prev, cur token.Token) bool {
	if prev.Pos.IsValid() && cur.Pos.IsValid() {
		return false
	}
	return wordEnd(prev.Text) && wordStart(cur.Text)
}

func wordEnd(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r != utf8.RuneError && isIdentPart(r)
}

func wordStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && isIdentPart(r)
}
