package token

// Stream is a pull-based sequence of tokens. Next returns false once the
// sequence is exhausted; after that it keeps returning false.
type Stream interface {
	Next() (Token, bool)
}

// StreamFunc adapts a function to the Stream interface.
type StreamFunc func() (Token, bool)

// Next calls f.
func (f StreamFunc) Next() (Token, bool) { return f() }

type sliceStream struct {
	toks []Token
	pos  int
}

// FromSlice returns a Stream yielding toks in order.
func FromSlice(toks []Token) Stream {
	return &sliceStream{toks: toks}
}

func (s *sliceStream) Next() (Token, bool) {
	if s.pos >= len(s.toks) {
		return Token{}, false
	}
	t := s.toks[s.pos]
	s.pos++
	return t, true
}

// Collect drains s into a slice.
func Collect(s Stream) []Token {
	var out []Token
	for {
		t, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}

// Texts returns the Text of every token, in order.
func Texts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}
