package packrattle

import (
	"fmt"
	"strings"
)

// Chain runs p, and on success calls f with p's span and value to build
// the next parser to run starting where p left off. The overall span
// covers from where Chain itself started to where the second parser
// finished; the overall value is the second parser's value. Every other
// sequencing combinator in this file (Seq, Repeat) is written directly in
// terms of the same schedule-then-continue shape rather than in terms of
// Chain, since each needs its own accumulator.
func Chain(p *Parser, f func(Span, any) *Parser) *Parser {
	return newCombinator("chain", true, []*Parser{p}, func(text []rune, index int) MatchResult {
		return scheduleResult(p, index, func(m Match) MatchResult {
			switch v := m.(type) {
			case Success:
				next := f(v.Span, v.Value)
				return scheduleResult(next, v.Span.End, func(m2 Match) MatchResult {
					switch v2 := m2.(type) {
					case Success:
						return Succeed(index, v2.Span.End, v2.Value)
					case Failure:
						return MatchResult{v2}
					default:
						panic(errImpossibleMatch)
					}
				})
			case Failure:
				return MatchResult{v}
			default:
				panic(errImpossibleMatch)
			}
		})
	}, func() string { return p.Description() })
}

// Seq matches each parser in order, threading the input position through
// and collecting every value into a []any. An empty Seq matches the empty
// string.
func Seq(parsers ...*Parser) *Parser {
	if len(parsers) == 0 {
		return NewLeaf("()", true, func(text []rune, index int) MatchResult {
			return Succeed(index, index, []any{})
		})
	}
	return newCombinator("seq", true, parsers, func(text []rune, index int) MatchResult {
		return seqStep(parsers, 0, index, index, nil)
	}, func() string {
		parts := make([]string, len(parsers))
		for i, p := range parsers {
			parts[i] = p.Description()
		}
		return "(" + strings.Join(parts, " ") + ")"
	})
}

// Seq2 through Seq5 are fixed-arity forms of Seq. They build exactly the
// parser Seq builds, so their value is still a []any of that length.
func Seq2(p1, p2 *Parser) *Parser             { return Seq(p1, p2) }
func Seq3(p1, p2, p3 *Parser) *Parser         { return Seq(p1, p2, p3) }
func Seq4(p1, p2, p3, p4 *Parser) *Parser     { return Seq(p1, p2, p3, p4) }
func Seq5(p1, p2, p3, p4, p5 *Parser) *Parser { return Seq(p1, p2, p3, p4, p5) }

func seqStep(parsers []*Parser, i, start, pos int, values []any) MatchResult {
	if i == len(parsers) {
		return Succeed(start, pos, values)
	}
	return scheduleResult(parsers[i], pos, func(m Match) MatchResult {
		switch v := m.(type) {
		case Success:
			nv := append(append([]any{}, values...), v.Value)
			return seqStep(parsers, i+1, start, v.Span.End, nv)
		case Failure:
			return MatchResult{v}
		default:
			panic(errImpossibleMatch)
		}
	})
}

// Alt tries every parser at the same position and reports every distinct
// Success any of them produces — ambiguous grammars are embraced rather
// than resolved to "first wins". All N alternatives are handed to the
// engine in one call, in the order they're listed, so a plain FIFO work
// queue already gives "earlier alternatives are activated first"; nothing
// in Alt itself needs to pick a winner. If every alternative fails, Alt
// waits until all N failures are in and reports the best of them by the
// engine's best-failure selection (see betterFailure).
//
// A failure that starts exactly at the alt's own position and carries no
// priority (i.e. it wasn't already relabeled by a Named alternative) is
// replaced with a generic "Expected <alt>" rather than surfacing whichever
// child leaf happened to win the tie-break in betterFailure — a bare leaf
// message ("a") is rarely as useful to a reader as the alternation it came
// from ("(a | b)"). A prioritized failure (e.g. from a Named alternative)
// is always more specific than this generic fallback and is left alone.
func Alt(parsers ...*Parser) *Parser {
	describe := func() string {
		parts := make([]string, len(parsers))
		for i, p := range parsers {
			parts[i] = p.Description()
		}
		return "(" + strings.Join(parts, " | ") + ")"
	}
	raw := newCombinator("alt", true, parsers, func(text []rune, index int) MatchResult {
		failed := 0
		var best *Failure
		result := make(MatchResult, 0, len(parsers))
		for _, p := range parsers {
			result = append(result, Schedule{p, index, func(m Match) MatchResult {
				f, ok := m.(Failure)
				if !ok {
					return MatchResult{m}
				}
				if best == nil || betterFailure(f, *best) {
					best = &f
				}
				if failed++; failed < len(parsers) {
					return nil
				}
				return MatchResult{*best}
			}})
		}
		return result
	}, describe)

	alt := &Parser{
		id:        allocParserID(),
		name:      "alt",
		cacheable: true,
		children:  parsers,
		describe:  describe,
	}
	alt.matcher = func(text []rune, index int) MatchResult {
		return scheduleResult(raw, index, func(m Match) MatchResult {
			if f, ok := m.(Failure); ok && f.Span.Start == index && f.Priority == 0 {
				return Fail(index, alt, f.Task)
			}
			return MatchResult{m}
		})
	}
	return alt
}

func identityHandler(m Match) MatchResult {
	return MatchResult{m}
}

var sharedEmpty = NewLeaf("empty", true, func(text []rune, index int) MatchResult {
	return Succeed(index, index, nil)
})

// Empty always succeeds without consuming input, producing a nil value.
func Empty() *Parser {
	return sharedEmpty
}

// Optional matches p if it can, or matches the empty string with a nil
// value if it can't. Like Alt, both branches are reported when p actually
// succeeds at this position, since an optional rule is ambiguous between
// "took it" and "skipped it" in a grammar where the following rule can
// accept either continuation.
func Optional(p *Parser) *Parser {
	return newCombinator("optional", true, []*Parser{p}, func(text []rune, index int) MatchResult {
		return MatchResult{
			Schedule{p, index, identityHandler},
			Success{Span{index, index}, nil},
		}
	}, func() string { return p.Description() + "?" })
}

// OptionalOr is like Optional but substitutes def instead of nil when p
// doesn't match. The combinator is only cache-safe when def is a literal
// Go value (isPrimitive) — a non-primitive default may be something the
// caller expects re-evaluated per activation rather than memoized.
func OptionalOr(p *Parser, def any) *Parser {
	cacheable := isPrimitive(def)
	return newCombinator("optionalOr", cacheable, []*Parser{p}, func(text []rune, index int) MatchResult {
		return MatchResult{
			Schedule{p, index, identityHandler},
			Success{Span{index, index}, def},
		}
	}, func() string { return p.Description() + "?" })
}

// Check is positive lookahead: it succeeds with p's value, consuming no
// input, exactly when p would succeed here.
func Check(p *Parser) *Parser {
	return newCombinator("check", true, []*Parser{p}, func(text []rune, index int) MatchResult {
		return scheduleResult(p, index, func(m Match) MatchResult {
			switch v := m.(type) {
			case Success:
				return MatchResult{Success{Span{index, index}, v.Value}}
			case Failure:
				return MatchResult{v}
			default:
				panic(errImpossibleMatch)
			}
		})
	}, func() string { return "&" + p.Description() })
}

// Not is negative lookahead: it succeeds (consuming no input, nil value)
// exactly when p fails here, and fails when p succeeds.
func Not(p *Parser) *Parser {
	return newCombinator("not", true, []*Parser{p}, func(text []rune, index int) MatchResult {
		return scheduleResult(p, index, func(m Match) MatchResult {
			switch m.(type) {
			case Success:
				return Fail(index, fmt.Sprintf("not %s", p.Description()), nil)
			case Failure:
				return Succeed(index, index, nil)
			default:
				panic(errImpossibleMatch)
			}
		})
	}, func() string { return "!" + p.Description() })
}

// RepeatOptions configures Repeat. Max < 0 means unbounded. Sep, when
// non-nil, must match between consecutive repetitions (and is not itself
// included in the produced values).
type RepeatOptions struct {
	Min int
	Max int
	Sep *Parser
}

// Repeat matches p Min..Max times (Max < 0 for unbounded), separated by
// Sep if given, and produces the []any of p's values (Sep's values are
// discarded). Repeat is ambiguous like Alt and Optional: at every count
// that has already met Min, it reports a candidate Success for that count
// *and* schedules one more repetition, so a grammar like
// Seq(Repeat(digit,{Min:0,Max:-1}), digit) can still find the shorter
// count that leaves a digit for the trailing parser, instead of the
// repeat's own greediness starving its neighbor. If it falls short of Min,
// the failure's span runs from where Repeat started to where the breaking
// failure started, per the first finding that a repeat failure should
// blame the whole attempted span rather than just the final failing atom.
func Repeat(p *Parser, opts RepeatOptions) *Parser {
	return newCombinator("repeat", true, []*Parser{p}, func(text []rune, index int) MatchResult {
		return repeatStep(p, opts, index, index, 0, nil)
	}, func() string {
		return fmt.Sprintf("%s{%d,%s}", p.Description(), opts.Min, maxLabel(opts.Max))
	})
}

func maxLabel(max int) string {
	if max < 0 {
		return ""
	}
	return fmt.Sprint(max)
}

// repeatStep reports the state at (pos, count): a candidate Success
// covering what's been matched so far, if count has reached Min, plus a
// Schedule attempting one more repetition, unless Max has already been
// reached. Both can be present at once, the same "two live branches" shape
// Optional uses for its own two outcomes.
func repeatStep(p *Parser, opts RepeatOptions, startIndex, pos, count int, values []any) MatchResult {
	var result MatchResult
	if count >= opts.Min {
		result = append(result, Success{Span{startIndex, pos}, values})
	}
	if opts.Max >= 0 && count >= opts.Max {
		return result
	}
	if count > 0 && opts.Sep != nil {
		return append(result, Schedule{opts.Sep, pos, func(m Match) MatchResult {
			switch v := m.(type) {
			case Success:
				return attemptRepeatItem(p, opts, startIndex, v.Span.End, count, values)
			case Failure:
				if count >= opts.Min {
					// Already reported as the candidate Success above.
					return nil
				}
				return MatchResult{Failure{Span{startIndex, v.Span.Start}, v.Message, v.Task, v.Priority}}
			default:
				panic(errImpossibleMatch)
			}
		}})
	}
	return append(result, attemptRepeatItem(p, opts, startIndex, pos, count, values)...)
}

// attemptRepeatItem tries one more repetition of p at sepEnd (the position
// after any separator was consumed, or pos itself when there is no
// separator). A Success that consumes no input would leave the position
// unchanged while count grows on every further attempt, looping the work
// queue forever, so it's treated as a grammar defect instead of silently
// recursing.
func attemptRepeatItem(p *Parser, opts RepeatOptions, startIndex, sepEnd, count int, values []any) MatchResult {
	return scheduleResult(p, sepEnd, func(m Match) MatchResult {
		switch v := m.(type) {
		case Success:
			if v.Span.Start == v.Span.End {
				panic(errRepeatNoProgress(sepEnd))
			}
			nv := append(append([]any{}, values...), v.Value)
			return repeatStep(p, opts, startIndex, v.Span.End, count+1, nv)
		case Failure:
			if count >= opts.Min {
				// Already reported as the candidate Success above.
				return nil
			}
			return MatchResult{Failure{Span{startIndex, v.Span.Start}, v.Message, v.Task, v.Priority}}
		default:
			panic(errImpossibleMatch)
		}
	})
}

// Map transforms p's produced value through f, leaving failures untouched.
func (p *Parser) Map(f func(Span, any) any) *Parser {
	return newCombinator("map", p.Cacheable(), []*Parser{p}, func(text []rune, index int) MatchResult {
		return scheduleResult(p, index, func(m Match) MatchResult {
			return MatchResult{mapMatch(m, f)}
		})
	}, func() string { return p.Description() })
}
