package packrattle

import "fmt"

// Match is the sum type a parser activation produces: a terminal Success,
// a terminal Failure, or a Schedule asking the engine to run a sub-parser
// and feed its eventual Match into a continuation. Only packrattle itself
// constructs Schedule values; leaf matchers and combinators built on top of
// NewLeaf/Chain/Seq/etc. never need to touch it directly.
type Match interface {
	isMatch()
}

// Success records that a parser consumed input[Span.Start:Span.End],
// producing Value.
type Success struct {
	Span  Span
	Value any
}

// Failure records that a parser rejected the input at Span (a zero-width
// span: Start == End == the failure position). Priority is used by the
// engine's best-failure ranking (see betterFailure); Task is for debugging
// only and takes no part in that ranking. Neither is part of the public
// contract a leaf matcher needs to honor — a leaf may
// always return a bare Failure{Span: ..., Message: ...} with Priority 0
// and a nil Task.
type Failure struct {
	Span     Span
	Message  string
	Task     *ActivationTask
	Priority int
}

// ActivationTask names the scheduled activation that produced a Failure,
// for debugging and log correlation. It carries no parse semantics.
type ActivationTask struct {
	ParserID int
	Index    int
}

// scheduleHandler receives the eventual Match for the parser/index a
// Schedule named, and returns the next MatchResult to process — which may
// itself contain further Schedules, or terminal Success/Failure items that
// become the output of whichever activation issued this Schedule.
type scheduleHandler func(Match) MatchResult

// Schedule asks the engine to activate Parser at Index and feed every
// Match it eventually produces into Handler.
type Schedule struct {
	Parser  *Parser
	Index   int
	Handler scheduleHandler
}

func (Success) isMatch()  {}
func (Failure) isMatch()  {}
func (Schedule) isMatch() {}

func (s Success) String() string {
	return fmt.Sprintf("Success(%s, %v)", s.Span, s.Value)
}

func (f Failure) String() string {
	return fmt.Sprintf("Failure(%s, %s)", f.Span, f.Message)
}

// MatchResult is the list a matcher function (leaf or combinator) returns:
// zero, one, or several Match items. More than one item expresses
// nondeterminism — Alt schedules every alternative at once, Optional
// schedules its child AND emits an immediate empty Success.
type MatchResult []Match

// Succeed builds the single-item MatchResult for a successful match.
func Succeed(start, end int, value any) MatchResult {
	return MatchResult{Success{Span{Start: start, End: end}, value}}
}

// Fail builds the single-item MatchResult for a failed match at index.
// messageOrParser is either a literal message string, or a *Parser whose
// Description() becomes "Expected <description>".
func Fail(index int, messageOrParser any, task *ActivationTask) MatchResult {
	var (
		msg      string
		priority int
	)
	switch m := messageOrParser.(type) {
	case string:
		msg = m
	case *Parser:
		msg = "Expected " + m.Description()
		priority = m.priority
	default:
		msg = fmt.Sprint(messageOrParser)
	}
	return MatchResult{Failure{Span{index, index}, msg, task, priority}}
}

// scheduleResult builds the single-item MatchResult that defers to a
// sub-parser, used internally by combinators.
func scheduleResult(p *Parser, index int, h scheduleHandler) MatchResult {
	return MatchResult{Schedule{p, index, h}}
}

// deferResult runs p at index and passes its Match through unchanged —
// the identity continuation.
func deferResult(p *Parser, index int) MatchResult {
	return scheduleResult(p, index, func(m Match) MatchResult {
		return MatchResult{m}
	})
}

// mapMatch leaves a Failure untouched and rewrites a Success's value
// through f, preserving its span. Used by Parser.Map.
func mapMatch(m Match, f func(Span, any) any) Match {
	if s, ok := m.(Success); ok {
		return Success{Span: s.Span, Value: f(s.Span, s.Value)}
	}
	return m
}
