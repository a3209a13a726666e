package rewrite

import "github.com/dshills/imphook/internal/token"

// Default tokens emitted in place of an arrow's parentheses.
const (
	DefaultIntroducer = "lambda"
	DefaultSeparator  = ":"
)

// Arrow rewrites "(params) => body" into "lambda params: body".
//
// Only the innermost open parenthesis group that has not yet been
// classified is held back. When a nested "(" arrives, everything buffered
// for the outer group is released unchanged and buffering restarts at the
// new "(". A ")" triggers a two-token lookahead: "=" ">" turns the group
// into a function literal, anything else releases the group, the ")" and
// both lookahead tokens as they are. The body after the separator is
// scanned by the same pass, so curried arrows need no special handling.
//
// Nothing here is fatal. A group still open at end of input is released
// verbatim.
type Arrow struct {
	Introducer string
	Separator  string
}

// NewArrow returns an Arrow emitting "lambda" and ":".
func NewArrow() *Arrow {
	return &Arrow{Introducer: DefaultIntroducer, Separator: DefaultSeparator}
}

// Rewrite implements Rewriter.
func (a *Arrow) Rewrite(src token.Stream) token.Stream {
	return &arrowStream{
		in:    token.NewPeeker(src),
		intro: a.Introducer,
		sep:   a.Separator,
	}
}

type arrowStream struct {
	in    *token.Peeker
	intro string
	sep   string

	buf []token.Token // pending group, buf[0] is its "("
	out queue
}

// Buffering reports whether a parenthesis group is being held back.
func (s *arrowStream) buffering() bool { return len(s.buf) > 0 }

func (s *arrowStream) Next() (token.Token, bool) {
	for s.out.empty() {
		if !s.step() {
			return token.Token{}, false
		}
	}
	return s.out.pop()
}

// flush releases the pending group unchanged.
func (s *arrowStream) flush() {
	s.out.push(s.buf...)
	s.buf = s.buf[:0]
}

// step consumes one upstream token. It returns false when upstream is
// exhausted and nothing is left to release.
func (s *arrowStream) step() bool {
	t, ok := s.in.Next()
	if !ok {
		if s.buffering() {
			s.flush()
			return true
		}
		return false
	}

	switch {
	case t.Is("("):
		s.flush()
		s.buf = append(s.buf, t)

	case !s.buffering():
		s.out.push(t)

	case t.Is(")"):
		la := s.in.Peek(2)
		if len(la) == 2 && la[0].Is("=") && la[1].Is(">") {
			s.in.Skip(2)
			s.out.push(token.New(token.Name, s.intro).WithSpace(s.buf[0].Space))
			s.out.push(s.buf[1:]...)
			s.buf = s.buf[:0]
			s.out.push(token.New(token.Op, s.sep))
			return true
		}
		s.flush()
		s.out.push(t)
		// Lookahead tokens go out as-is, even a "(" that could open a
		// new group.
		s.in.Skip(len(la))
		s.out.push(la...)

	default:
		s.buf = append(s.buf, t)
	}
	return true
}
