package token

// peekCap bounds the lookahead a Peeker can hold. Rewriters in this module
// never look further than two tokens ahead.
const peekCap = 4

// Peeker wraps a Stream with a small ring buffer of pending tokens so callers
// can look ahead without losing what they looked at.
//
// Tokens pulled from upstream by Peek stay pending until Next returns them.
type Peeker struct {
	src  Stream
	ring [peekCap]Token
	head int // index of the oldest pending token
	n    int // number of pending tokens
	done bool
}

// NewPeeker returns a Peeker reading from src.
func NewPeeker(src Stream) *Peeker {
	if p, ok := src.(*Peeker); ok {
		return p
	}
	return &Peeker{src: src}
}

// fill pulls from upstream until n tokens are pending or upstream ends.
func (p *Peeker) fill(n int) {
	for p.n < n && !p.done {
		t, ok := p.src.Next()
		if !ok {
			p.done = true
			return
		}
		p.ring[(p.head+p.n)%peekCap] = t
		p.n++
	}
}

// Peek returns up to n upcoming tokens without consuming them. Fewer than n
// tokens are returned only when the upstream sequence ends first.
// Peek panics if n exceeds the ring capacity.
func (p *Peeker) Peek(n int) []Token {
	if n > peekCap {
		panic("token: peek beyond lookahead capacity")
	}
	p.fill(n)
	if n > p.n {
		n = p.n
	}
	out := make([]Token, n)
	for i := 0; i < n; i++ {
		out[i] = p.ring[(p.head+i)%peekCap]
	}
	return out
}

// Next returns the next token, draining pending lookahead first.
func (p *Peeker) Next() (Token, bool) {
	p.fill(1)
	if p.n == 0 {
		return Token{}, false
	}
	t := p.ring[p.head]
	p.ring[p.head] = Token{}
	p.head = (p.head + 1) % peekCap
	p.n--
	return t, true
}

// Skip discards up to n tokens and returns how many were discarded.
func (p *Peeker) Skip(n int) int {
	skipped := 0
	for skipped < n {
		if _, ok := p.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}

// Pending returns the number of tokens already pulled from upstream but not
// yet returned by Next.
func (p *Peeker) Pending() int { return p.n }
