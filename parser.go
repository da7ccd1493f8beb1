package packrattle

import "sync/atomic"

var nextParserID int64

func allocParserID() int {
	return int(atomic.AddInt64(&nextParserID, 1))
}

// matcherFunc is the core of every parser: given the input and a starting
// index, produce a MatchResult describing what happened. A matcherFunc
// never recurses into another Parser directly — it names the sub-parser in
// a Schedule and lets the engine's trampoline do the activation, so grammar
// depth never grows the host call stack.
type matcherFunc func(text []rune, index int) MatchResult

// descState tracks reentrancy while computing a Parser's description, so a
// left-recursive or otherwise self-referential grammar doesn't spin forever
// rendering its own name.
type descState uint8

const (
	descNone descState = iota
	descComputing
	descDone
)

// Parser is one named node of a grammar: a matcherFunc plus the bookkeeping
// (identity, cacheability, children, description) the engine and the
// combinators need around it. Parser values are built once via the
// exported constructors (NewLeaf, Chain, Seq, Alt, ...) and then reused
// across any number of Execute calls and any number of positions within
// one call — the matcherFunc itself must be side-effect free.
type Parser struct {
	id         int
	name       string
	priority   int
	cacheable  bool
	matcher    matcherFunc
	children   []*Parser
	describe   func() string
	descState  descState
	descCached string

	// lazy-only fields; nil for every ordinary parser.
	thunk    func() *Parser
	resolved *Parser
}

// NewLeaf builds a primitive parser with no children: a leaf of the
// grammar tree, such as a literal string or a regexp match. name is used in
// Description() and in trace logging.
func NewLeaf(name string, cacheable bool, fn matcherFunc) *Parser {
	return &Parser{
		id:        allocParserID(),
		name:      name,
		cacheable: cacheable,
		matcher:   fn,
	}
}

// newCombinator builds a derived parser whose description is computed from
// its children, e.g. "(a | b | c)".
func newCombinator(name string, cacheable bool, children []*Parser, fn matcherFunc, describe func() string) *Parser {
	return &Parser{
		id:        allocParserID(),
		name:      name,
		cacheable: cacheable,
		matcher:   fn,
		children:  children,
		describe:  describe,
	}
}

// Lazy defers construction of a parser until it is first needed, which is
// how a grammar refers to itself: a rule can embed Lazy(func() *Parser {
// return rule }) to close the cycle. The thunk runs at most once; its
// result is cached and reused for the grammar's whole lifetime.
func Lazy(thunk func() *Parser) *Parser {
	return &Parser{
		id:    allocParserID(),
		name:  "lazy",
		thunk: thunk,
	}
}

// resolve returns the parser a Lazy wraps, running its thunk exactly once.
// Non-lazy parsers resolve to themselves.
func (p *Parser) resolve() *Parser {
	if p.thunk == nil {
		return p
	}
	if p.resolved == nil {
		next := p.thunk()
		if next == nil {
			panic(errLazyResolvedNil)
		}
		p.resolved = next
	}
	return p.resolved
}

// ID returns the parser's monotonic identity, used as half of the engine's
// memoization cache key. Identity is allocation order, never structural —
// two parsers built the same way are still distinct cache keys.
func (p *Parser) ID() int {
	return p.id
}

// Cacheable reports whether the engine should memoize this parser's
// matches by (id, position). Virtually every parser should be cacheable;
// the one built-in exception is OptionalOr with a non-primitive default
// (see isPrimitive). Map and Named report whatever the parser they wrap
// reported when they were built.
func (p *Parser) Cacheable() bool {
	if p.thunk != nil {
		return true
	}
	return p.cacheable
}

// Children returns the sub-parsers this parser was built from. Leaves
// return nil. Used for debugging and by Description()'s cycle guard.
func (p *Parser) Children() []*Parser {
	if p.thunk != nil {
		if p.resolved == nil {
			return nil
		}
		return p.resolved.Children()
	}
	return p.children
}

// Named wraps p so that a failure starting exactly where this rule was
// activated is reported as "Expected <name>" at the given priority,
// instead of whatever deeper leaf actually produced it — the rule's own
// name is usually more useful to a reader than one of its internal
// tokens. A failure that starts further into the input than this rule's
// own activation (i.e. the rule got partway through before failing) is
// left alone, since that failure is more specific than this rule's own
// name would be. priority feeds the engine's best-failure selection (see
// betterFailure in engine.go); pass 0 for ordinary rules and a higher
// number for a rule whose name should win over sibling failures in an
// Alt.
func (p *Parser) Named(name string, priority int) *Parser {
	named := &Parser{
		id:       allocParserID(),
		name:     name,
		priority: priority,
	}
	named.cacheable = p.Cacheable()
	named.children = []*Parser{p}
	named.matcher = func(text []rune, index int) MatchResult {
		return scheduleResult(p, index, func(m Match) MatchResult {
			if f, ok := m.(Failure); ok && f.Span.Start == index {
				return Fail(index, named, f.Task)
			}
			return MatchResult{m}
		})
	}
	return named
}

// Description renders a short human-readable description of the parser,
// e.g. "digit{1,}" or "\"foo\"". Self-referential grammars (built with Lazy)
// can call back into their own description mid-computation; descState
// detects that reentrancy and returns a short placeholder instead of
// recursing forever.
func (p *Parser) Description() string {
	if p.thunk != nil {
		return p.resolve().Description()
	}
	if p.describe == nil {
		return p.name
	}
	switch p.descState {
	case descComputing:
		return p.name
	case descDone:
		return p.descCached
	}
	p.descState = descComputing
	p.descCached = p.describe()
	p.descState = descDone
	return p.descCached
}

func (p *Parser) String() string {
	return p.Description()
}
