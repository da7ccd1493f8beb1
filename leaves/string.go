// Package leaves provides the primitive, input-consuming parsers a
// grammar is built out of: literal strings, regular expressions, and end
// of input. Everything else in a grammar (Chain, Seq, Alt, Repeat, ...)
// composes these.
package leaves

import (
	"fmt"
	"strings"

	"github.com/alexzandros/packrattle"
)

// Literal matches s exactly, producing s as its value.
func Literal(s string) *packrattle.Parser {
	return literal(s, false)
}

// LiteralFold matches s ignoring case, producing the matched text (not s)
// as its value.
func LiteralFold(s string) *packrattle.Parser {
	return literal(s, true)
}

func literal(s string, fold bool) *packrattle.Parser {
	want := []rune(s)
	n := len(want)
	name := fmt.Sprintf("%q", s)
	return packrattle.NewLeaf(name, true, func(text []rune, index int) packrattle.MatchResult {
		if index+n > len(text) {
			return packrattle.Fail(index, name, nil)
		}
		got := text[index : index+n]
		if fold {
			if !strings.EqualFold(string(got), s) {
				return packrattle.Fail(index, name, nil)
			}
			return packrattle.Succeed(index, index+n, string(got))
		}
		for i := 0; i < n; i++ {
			if got[i] != want[i] {
				return packrattle.Fail(index, name, nil)
			}
		}
		return packrattle.Succeed(index, index+n, s)
	})
}

// CharIn matches a single rune drawn from chars, producing it as a string
// of length one.
func CharIn(chars string) *packrattle.Parser {
	set := []rune(chars)
	name := fmt.Sprintf("one of %q", chars)
	return packrattle.NewLeaf(name, true, func(text []rune, index int) packrattle.MatchResult {
		if index >= len(text) {
			return packrattle.Fail(index, name, nil)
		}
		r := text[index]
		for _, c := range set {
			if c == r {
				return packrattle.Succeed(index, index+1, string(r))
			}
		}
		return packrattle.Fail(index, name, nil)
	})
}
