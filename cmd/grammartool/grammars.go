package main

import (
	"strconv"

	"github.com/alexzandros/packrattle"
	"github.com/alexzandros/packrattle/leaves"
)

// builtinGrammars names every grammar grammartool ships with, keyed by the
// name passed to --grammar.
var builtinGrammars = map[string]func() *packrattle.Parser{
	"arith":    arithGrammar,
	"balanced": balancedGrammar,
	"sexp":     sexpGrammar,
}

var (
	ws     = packrattle.Repeat(leaves.CharIn(" \t\r\n"), packrattle.RepeatOptions{Min: 0, Max: -1})
	number = leaves.Regexp(`[0-9]+`).Map(func(sp packrattle.Span, v any) any {
		n, _ := strconv.Atoi(v.(string))
		return n
	})
)

func padded(p *packrattle.Parser) *packrattle.Parser {
	return packrattle.Seq(ws, p, ws).Map(func(sp packrattle.Span, v any) any {
		return v.([]any)[1]
	})
}

// arithGrammar is a left-recursive expression grammar exercising the
// engine's fixed-point memoization directly: sum and term both recurse
// into themselves as the first element of their own alternatives.
//
//	sum    := sum "+" term | term
//	term   := term "*" factor | factor
//	factor := number | "(" sum ")"
func arithGrammar() *packrattle.Parser {
	var sum, term, factor *packrattle.Parser

	factor = packrattle.Lazy(func() *packrattle.Parser {
		return packrattle.Alt(
			padded(number),
			packrattle.Seq(padded(leaves.Literal("(")), sum, padded(leaves.Literal(")"))).
				Map(func(sp packrattle.Span, v any) any { return v.([]any)[1] }),
		)
	})

	term = packrattle.Lazy(func() *packrattle.Parser {
		return packrattle.Alt(
			packrattle.Seq(term, padded(leaves.Literal("*")), factor).
				Map(func(sp packrattle.Span, v any) any {
					parts := v.([]any)
					return parts[0].(int) * parts[2].(int)
				}),
			factor,
		)
	})

	sum = packrattle.Lazy(func() *packrattle.Parser {
		return packrattle.Alt(
			packrattle.Seq(sum, padded(leaves.Literal("+")), term).
				Map(func(sp packrattle.Span, v any) any {
					parts := v.([]any)
					return parts[0].(int) + parts[2].(int)
				}),
			term,
		)
	})

	return sum
}

// balancedGrammar matches nested, balanced parentheses:
//
//	group := "(" group ")" group | ""
func balancedGrammar() *packrattle.Parser {
	var group *packrattle.Parser
	group = packrattle.Lazy(func() *packrattle.Parser {
		return packrattle.Alt(
			packrattle.Seq(leaves.Literal("("), group, leaves.Literal(")"), group).
				Map(func(sp packrattle.Span, v any) any { return sp.End - sp.Start }),
			packrattle.Empty().Map(func(sp packrattle.Span, v any) any { return 0 }),
		)
	})
	return group
}

// sexpGrammar matches s-expressions: a bare atom, or a parenthesized,
// whitespace-separated list of s-expressions.
func sexpGrammar() *packrattle.Parser {
	atom := leaves.Regexp(`[^\s()]+`)

	var sexp *packrattle.Parser
	sexp = packrattle.Lazy(func() *packrattle.Parser {
		list := packrattle.Seq(
			padded(leaves.Literal("(")),
			packrattle.Repeat(sexp, packrattle.RepeatOptions{Min: 0, Max: -1, Sep: ws}),
			padded(leaves.Literal(")")),
		).Map(func(sp packrattle.Span, v any) any { return v.([]any)[1] })

		return packrattle.Alt(padded(atom), list)
	})
	return sexp
}
