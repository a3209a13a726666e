// Package rewrite provides lazy token-stream transducers used to extend the
// surface syntax of module source before it is executed.
//
// A Rewriter never builds a syntax tree. It pulls tokens from upstream as the
// consumer pulls from it, possibly running a bounded distance ahead.
package rewrite

import (
	"github.com/dshills/imphook/internal/lexer"
	"github.com/dshills/imphook/internal/token"
)

// Rewriter transforms a token stream into another token stream.
type Rewriter interface {
	Rewrite(src token.Stream) token.Stream
}

// Func adapts a function to the Rewriter interface.
type Func func(src token.Stream) token.Stream

// Rewrite calls f.
func (f Func) Rewrite(src token.Stream) token.Stream { return f(src) }

// Chain composes rewriters; the first one sees the lexer output.
func Chain(rs ...Rewriter) Rewriter {
	return Func(func(src token.Stream) token.Stream {
		for _, r := range rs {
			src = r.Rewrite(src)
		}
		return src
	})
}

// Source tokenizes src, runs it through rs and rebuilds the text.
func Source(src []byte, rs ...Rewriter) (string, error) {
	sc := lexer.New(src)
	out := lexer.Untokenize(Chain(rs...).Rewrite(sc))
	if err := sc.Err(); err != nil {
		return "", err
	}
	return out, nil
}

// queue is a FIFO of tokens ready to be handed downstream.
type queue struct {
	toks []token.Token
}

func (q *queue) push(ts ...token.Token) { q.toks = append(q.toks, ts...) }

func (q *queue) pop() (token.Token, bool) {
	if len(q.toks) == 0 {
		return token.Token{}, false
	}
	t := q.toks[0]
	q.toks = q.toks[1:]
	if len(q.toks) == 0 {
		q.toks = nil
	}
	return t, true
}

func (q *queue) empty() bool { return len(q.toks) == 0 }
