// Package lexer turns Starlark/Python-style source text into a token stream
// and back.
//
// The scanner is deliberately shallow: it knows names, numbers, strings,
// comments, operators and line structure, and nothing about grammar. Every
// token records the whitespace that preceded it, so
//
//	Untokenize(New(src)) == string(src)
//
// holds for any input that scans without error. Rewriters may splice in
// tokens that carry no whitespace; Untokenize separates adjacent words in
// that case so the output still scans the same way.
//
// Operators are matched greedily against a fixed table. "=>" is not an
// operator in the language, so it scans as "=" followed by ">", which is
// what the arrow rewriter looks for.
package lexer
