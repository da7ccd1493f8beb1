package packrattle

import "fmt"

// ParseError is what Execute/Consume/ExecuteAll return when a grammar
// produces zero successes (or, for Consume, zero successes that reach end
// of input). Pos is rendered from the best failure's span via a
// positionCalculator, never used internally for any matching decision.
type ParseError struct {
	Message string
	Pos     Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at %s)", e.Message, e.Pos)
}

// run activates p over text starting at start and drains the engine to
// completion, returning every distinct Success found and one Failure: the
// root's own failure when the root itself failed, otherwise the best
// Failure recorded anywhere in the grammar (nil if none was recorded). A
// non-nil error here is always a
// *GrammarDefectError recovered from a panic, never an ordinary parse
// failure — ordinary failures are reported through the returned Failure
// and through Execute/Consume's ParseError, not through error.
func (p *Parser) run(text []rune, start int) (successes []Success, failure *Failure, err error) {
	if p == nil {
		return nil, nil, errNilRootParser
	}
	defer func() {
		if r := recover(); r != nil {
			if gd, ok := r.(*GrammarDefectError); ok {
				err = gd
				return
			}
			panic(r)
		}
	}()

	sessionID := newSessionID()
	eng := newEngine(text, engineLogger, sessionID)
	eng.logger.Debug().Str("session", sessionID).Int("start", start).Int("length", len(text)).Msg("execute begin")

	var (
		collected   []Success
		rootFailure *Failure
	)
	eng.activateRaw(p, start, func(m Match) {
		switch v := m.(type) {
		case Success:
			collected = append(collected, v)
		case Failure:
			if rootFailure == nil || betterFailure(v, *rootFailure) {
				rootFailure = &v
			}
		}
	})
	eng.drainAll()

	eng.logger.Debug().Str("session", sessionID).Int("successes", len(collected)).Msg("execute done")
	if rootFailure != nil {
		return collected, rootFailure, nil
	}
	return collected, eng.globalFailure, nil
}

func failureError(failure *Failure, runes []rune) error {
	if failure == nil {
		return &ParseError{Message: "no match", Pos: newPositionCalculator(runes).calculate(0)}
	}
	calc := newPositionCalculator(runes)
	return &ParseError{Message: failure.Message, Pos: calc.calculate(failure.Span.Start)}
}

// Run reports every distinct parse the grammar finds for text starting at
// position 0, plus the root's own failure (or, when the root did not fail,
// the best failure seen anywhere), without picking a winner or requiring
// the input be fully consumed. Most callers want
// Execute, ExecuteAll, or Consume instead.
func (p *Parser) Run(text string) ([]Success, *Failure, error) {
	return p.run([]rune(text), 0)
}

// Execute parses text from the beginning and returns the first Success
// found, in the order the engine's work queue discovered it (which for an
// unambiguous grammar is the only one there is). It does not require the
// whole input be consumed; use Consume for that.
func (p *Parser) Execute(text string) (any, error) {
	return p.ExecuteRange(text, 0)
}

// ExecuteRange is Execute starting from an arbitrary rune offset into
// text, for parsing a sub-range of a larger buffer.
func (p *Parser) ExecuteRange(text string, start int) (any, error) {
	runes := []rune(text)
	successes, failure, err := p.run(runes, start)
	if err != nil {
		return nil, err
	}
	if len(successes) == 0 {
		return nil, failureError(failure, runes)
	}
	return successes[0].Value, nil
}

// ExecuteAll returns every distinct successful parse of text, for
// grammars expected to be genuinely ambiguous at the top level.
func (p *Parser) ExecuteAll(text string) ([]any, error) {
	runes := []rune(text)
	successes, failure, err := p.run(runes, 0)
	if err != nil {
		return nil, err
	}
	if len(successes) == 0 {
		return nil, failureError(failure, runes)
	}
	values := make([]any, len(successes))
	for i, s := range successes {
		values[i] = s.Value
	}
	return values, nil
}

// Consume parses text and requires that at least one of the resulting
// successes reaches the end of the input; among those it returns the
// first found.
func (p *Parser) Consume(text string) (any, error) {
	runes := []rune(text)
	successes, failure, err := p.run(runes, 0)
	if err != nil {
		return nil, err
	}
	for _, s := range successes {
		if s.Span.End == len(runes) {
			return s.Value, nil
		}
	}
	if failure == nil {
		return nil, &ParseError{Message: "incomplete parse", Pos: newPositionCalculator(runes).calculate(0)}
	}
	return nil, failureError(failure, runes)
}
