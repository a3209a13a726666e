package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordRewrite(t *testing.T) {
	src := "f = function a, b: a + b  # function\ns = \"function\"\nfunctional = 1\n"
	out, err := Source([]byte(src), Keyword{From: "function", To: "lambda"})
	require.NoError(t, err)
	assert.Equal(t, "f = lambda a, b: a + b  # function\ns = \"function\"\nfunctional = 1\n", out)
}

func TestChainAppliesInOrder(t *testing.T) {
	r := Chain(Keyword{From: "fn", To: "lambda"}, NewArrow())
	out, err := Source([]byte("f = fn x: (y) => x + y\n"), r)
	require.NoError(t, err)
	assert.Equal(t, "f = lambda x: lambda y: x + y\n", out)
}

func TestSourceReportsLexError(t *testing.T) {
	_, err := Source([]byte("x = 'open\n"), NewArrow())
	require.Error(t, err)
}
