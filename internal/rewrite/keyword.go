package rewrite

import "github.com/dshills/imphook/internal/token"

// Keyword renames every Name token spelled From to To, keeping its
// position and leading whitespace. Strings and comments are left alone.
type Keyword struct {
	From string
	To   string
}

// Rewrite implements Rewriter.
func (k Keyword) Rewrite(src token.Stream) token.Stream {
	return token.StreamFunc(func() (token.Token, bool) {
		t, ok := src.Next()
		if ok && t.Kind == token.Name && t.Text == k.From {
			t.Text = k.To
		}
		return t, ok
	})
}
