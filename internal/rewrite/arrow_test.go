package rewrite

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/imphook/internal/lexer"
	"github.com/dshills/imphook/internal/token"
)

func rewriteArrows(t *testing.T, src string) string {
	t.Helper()
	out, err := Source([]byte(src), NewArrow())
	require.NoError(t, err)
	return out
}

func TestArrowRewritesSource(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "simple",
			src:  "f = (a, b) => a + b\n",
			want: "f = lambda a, b: a + b\n",
		},
		{
			name: "immediately invoked",
			src:  "res = ((a, b) => a + b)(3, 4)\n",
			want: "res = (lambda a, b: a + b)(3, 4)\n",
		},
		{
			name: "argument",
			src:  "print(list(map((x) => x * 2, [1, 2, 3, 4])))\n",
			want: "print(list(map(lambda x: x * 2, [1, 2, 3, 4])))\n",
		},
		{
			name: "curried",
			src:  "curry = (a) => (b) => a + b\n",
			want: "curry = lambda a: lambda b: a + b\n",
		},
		{
			name: "no params",
			src:  "k = () => 42\n",
			want: "k = lambda: 42\n",
		},
		{
			name: "tight spacing",
			src:  "g=(x)=>x\n",
			want: "g=lambda x:x\n",
		},
		{
			name: "split arrow",
			src:  "h = (y) = > y\n",
			want: "h = lambda y: y\n",
		},
		{
			name: "bare tuple at end of input",
			src:  "(1, 2)",
			want: "(1, 2)",
		},
		{
			name: "unclosed group at end of input",
			src:  "x = (1,\n",
			want: "x = (1,\n",
		},
		{
			name: "comparison is not an arrow",
			src:  "ok = (a) >= b\n",
			want: "ok = (a) >= b\n",
		},
		{
			name: "strings untouched",
			src:  "s = \"(a) => a\"\n",
			want: "s = \"(a) => a\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteArrows(t, tt.src))
		})
	}
}

// After a non-arrow ")", the two lookahead tokens are released as they are.
// A "(" among them does not start a new group, so the arrow that follows
// it is left unrewritten.
func TestArrowLookaheadParenIsNotRebuffered(t *testing.T) {
	got := rewriteArrows(t, "v = (1) + (x) => x\n")
	assert.Equal(t, "v = (1) + (x) => x\n", got)

	// With anything else between the groups the arrow is found.
	got = rewriteArrows(t, "v = (1) + 2 * (x) => x\n")
	assert.Equal(t, "v = (1) + 2 * lambda x: x\n", got)
}

func TestArrowTokenSequence(t *testing.T) {
	toks, err := lexer.Tokenize([]byte("(a, b) => a"))
	require.NoError(t, err)

	got := token.Collect(NewArrow().Rewrite(token.FromSlice(toks)))
	want := []string{"lambda", "a", ",", "b", ":", "a", "", ""}
	if diff := cmp.Diff(want, token.Texts(got)); diff != "" {
		t.Errorf("Rewrite() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, got[0].Pos.IsValid(), "introducer should be synthesized")
	assert.Equal(t, token.Name, got[0].Kind)
	assert.Equal(t, token.Op, got[4].Kind)
}

func TestArrowLookaheadCutShortByEndOfStream(t *testing.T) {
	in := []token.Token{
		{Kind: token.Op, Text: "(", Pos: token.Pos{Line: 1, Col: 0}},
		{Kind: token.Name, Text: "a", Pos: token.Pos{Line: 1, Col: 1}},
		{Kind: token.Op, Text: ")", Pos: token.Pos{Line: 1, Col: 2}},
		{Kind: token.Op, Text: "=", Pos: token.Pos{Line: 1, Col: 3}},
	}
	got := token.Collect(NewArrow().Rewrite(token.FromSlice(in)))
	assert.Equal(t, in, got)
}

func TestArrowCustomTokens(t *testing.T) {
	a := &Arrow{Introducer: "fn", Separator: "->"}
	out, err := Source([]byte("(x) => x"), a)
	require.NoError(t, err)
	assert.Equal(t, "fn x-> x", out)
}

// Any token sequence without the arrow pattern passes through unchanged.
func TestArrowIdentity(t *testing.T) {
	alphabet := []string{"(", ")", "a", ",", "=", "+", "1", "[", "]"}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(24)
		in := make([]token.Token, n)
		for j := range in {
			text := alphabet[rng.Intn(len(alphabet))]
			kind := token.Op
			if text == "a" {
				kind = token.Name
			} else if text == "1" {
				kind = token.Number
			}
			in[j] = token.Token{Kind: kind, Text: text, Pos: token.Pos{Line: 1, Col: j}}
		}

		got := token.Collect(NewArrow().Rewrite(token.FromSlice(in)))
		if diff := cmp.Diff(in, got); diff != "" {
			t.Fatalf("identity violated for %q (-want +got):\n%s", strings.Join(token.Texts(in), " "), diff)
		}
	}
}

func TestArrowIdentityOnSource(t *testing.T) {
	src := "def f(a, b=(1, 2)):\n    return (a) >= (b)\n\nx = f((3), [4])\n"
	assert.Equal(t, src, rewriteArrows(t, src))
}
