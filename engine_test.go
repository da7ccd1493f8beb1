package packrattle

import "testing"

func TestLeftRecursiveSumParsesAllTerms(t *testing.T) {
	var sum *Parser
	sum = Lazy(func() *Parser {
		return Alt(
			Seq(sum, lit("+"), digit).Map(func(sp Span, v any) any {
				parts := v.([]any)
				return parts[0].(int) + atoi(parts[2].(string))
			}),
			digit.Map(func(sp Span, v any) any { return atoi(v.(string)) }),
		)
	})

	v, err := sum.Consume("1+2+3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(int) != 6 {
		t.Errorf("sum.Consume(%q) => %v, want 6", "1+2+3", v)
	}
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func TestLeftRecursiveSingleDigit(t *testing.T) {
	var sum *Parser
	sum = Lazy(func() *Parser {
		return Alt(
			Seq(sum, lit("+"), digit).Map(func(sp Span, v any) any {
				parts := v.([]any)
				return parts[0].(int) + atoi(parts[2].(string))
			}),
			digit.Map(func(sp Span, v any) any { return atoi(v.(string)) }),
		)
	})
	v, err := sum.Consume("7")
	if err != nil || v.(int) != 7 {
		t.Errorf("sum.Consume(%q) => %v, %v, want 7, nil", "7", v, err)
	}
}

// A cacheable cycle that can never succeed must still terminate instead of
// looping the work queue forever: its self-activation joins the cache
// entry already started for it rather than re-running the matcher, so the
// queue drains with no Success and the parse fails.
func TestPureLeftRecursionWithNoBaseCaseFails(t *testing.T) {
	var loop *Parser
	loop = Lazy(func() *Parser {
		return Chain(loop, func(sp Span, v any) *Parser { return lit("never") })
	})
	if _, err := loop.Execute("anything"); err == nil {
		t.Fatal("expected the unproductive left-recursive cycle to fail, not hang or succeed")
	}
}

func TestBestFailurePrefersHighestPriorityThenLatestStart(t *testing.T) {
	a := Failure{Span{2, 2}, "a", nil, 0}
	b := Failure{Span{1, 1}, "b", nil, 1}
	if !betterFailure(b, a) {
		t.Errorf("higher priority failure should win regardless of position")
	}

	c := Failure{Span{5, 5}, "c", nil, 0}
	if !betterFailure(c, a) {
		t.Errorf("equal priority: later start should win")
	}
	if betterFailure(a, c) {
		t.Errorf("equal priority: earlier start should lose")
	}
}

// A Named parser with a higher priority should win the engine's
// best-failure selection even though it starts no later than a sibling
// leaf's failure, because a named rule's message is more useful to a
// reader than the raw leaf's.
func TestNamedPriorityWinsBestFailure(t *testing.T) {
	statement := Seq(lit("if"), lit(" "), digit).Named("an if-statement", 5)
	g := Alt(statement, lit("x"))

	_, failure, err := g.Run("yikes!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failure == nil {
		t.Fatal("expected a recorded failure")
	}
	if failure.Message != "Expected an if-statement" {
		t.Errorf("failure message => %q, want the higher-priority named rule's message", failure.Message)
	}
}

// When every alternative fails right at the alt's own starting position
// and none of them was relabeled by Named (so all carry priority 0), the
// alt reports its own generic "Expected <alt>" rather than whichever
// child's raw message happened to win the tie-break in betterFailure.
func TestAltFallsBackToGenericMessageWhenNoAlternativeIsPrioritized(t *testing.T) {
	g := Alt(lit("a"), lit("b"))
	_, failure, err := g.Run("c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failure == nil {
		t.Fatal("expected a recorded failure")
	}
	want := "Expected " + g.Description()
	if failure.Message != want {
		t.Errorf("failure message => %q, want %q", failure.Message, want)
	}
}

func TestAltAmbiguityReportsEverySuccess(t *testing.T) {
	g := Alt(lit("a"), Seq(lit("a"), lit("b")).Map(func(sp Span, v any) any { return "ab" }))
	values, err := g.ExecuteAll("ab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("ExecuteAll => %d results, want 2 (ambiguous at this position)", len(values))
	}
}

func TestExecuteReportsFailurePosition(t *testing.T) {
	g := Seq(lit("foo"), lit("bar"))
	_, err := g.Execute("foobaz")
	if err == nil {
		t.Fatal("expected a failure")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("err => %T, want *ParseError", err)
	}
	if pe.Pos.Offset != 3 {
		t.Errorf("failure offset => %d, want 3 (where \"bar\" was expected)", pe.Pos.Offset)
	}
}
