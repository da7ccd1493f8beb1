package packrattle

import "testing"

func TestSucceedAndFail(t *testing.T) {
	result := Succeed(2, 5, "hi")
	if len(result) != 1 {
		t.Fatalf("Succeed => %d items, want 1", len(result))
	}
	s, ok := result[0].(Success)
	if !ok {
		t.Fatalf("Succeed produced %T, want Success", result[0])
	}
	if s.Span != (Span{2, 5}) || s.Value != "hi" {
		t.Errorf("Succeed => %+v, want span 2..5 value hi", s)
	}

	result = Fail(3, "oops", nil)
	f, ok := result[0].(Failure)
	if !ok {
		t.Fatalf("Fail produced %T, want Failure", result[0])
	}
	if f.Span != (Span{3, 3}) || f.Message != "oops" {
		t.Errorf("Fail => %+v, want zero-width span at 3 with message oops", f)
	}
}

func TestFailDescribesParser(t *testing.T) {
	p := lit("x").Named("the letter x", 0)
	result := Fail(0, p, nil)
	f := result[0].(Failure)
	if f.Message != "Expected the letter x" {
		t.Errorf("Fail(parser) message => %q, want %q", f.Message, "Expected the letter x")
	}
}

func TestMapMatch(t *testing.T) {
	s := Success{Span{0, 3}, "abc"}
	m := mapMatch(s, func(sp Span, v any) any { return len(v.(string)) })
	got := m.(Success)
	if got.Value != 3 || got.Span != s.Span {
		t.Errorf("mapMatch => %+v, want value 3 span unchanged", got)
	}

	f := Failure{Span{1, 1}, "nope", nil, 0}
	m = mapMatch(f, func(sp Span, v any) any { t.Fatal("f should not be mapped"); return nil })
	if m != Match(f) {
		t.Errorf("mapMatch on Failure should pass through unchanged, got %+v", m)
	}
}
