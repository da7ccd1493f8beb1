package packrattle

import (
	"reflect"

	"github.com/rs/zerolog"
)

// cacheKey identifies one memoized activation: a parser's identity at an
// input position. Using allocation-order identity (never structural
// hashing) means two grammars built identically but at different call
// sites never collide, and a grammar built once and reused across many
// Execute calls gets a fresh cache each time (the cache lives on the
// engine, not the Parser).
type cacheKey struct {
	parserID int
	index    int
}

// cacheEntry accumulates everything known about one cacheKey's activation:
// every distinct Success seen so far, the single best Failure seen so far,
// and every sink still waiting to hear about new matches. Successes are
// fed to sinks as soon as they're found; Failures are held back until
// sweepFailures confirms the entry will never produce a Success, which is
// what lets a left-recursive rule terminate instead of looping forever on
// its own failure.
type cacheEntry struct {
	successes        []Success
	bestFailure      *Failure
	failureDelivered bool
	started          bool
	sinks            []func(Match)
}

// Equatable lets a parser's produced value control how duplicate
// successes are detected at a (parser, position) cache entry, when the
// default reflect.DeepEqual comparison isn't appropriate (e.g. two
// semantically-equal values with incomparable internal representations).
type Equatable interface {
	Equal(other any) bool
}

func equalValues(a, b any) bool {
	if eq, ok := a.(Equatable); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

func successEqual(a, b Success) bool {
	return a.Span == b.Span && equalValues(a.Value, b.Value)
}

// isPrimitive reports whether v is a plain literal Go value (as opposed to
// e.g. a closure-captured or freshly-computed value). OptionalOr uses this
// to decide whether its own activation is safe to memoize: a literal
// default always renders the same regardless of when it runs, but a
// non-primitive default may depend on state that changes between calls, so
// memoizing it could serve a stale answer.
func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// betterFailure reports whether a should replace b as the "best" failure
// recorded at some point in the grammar: highest priority wins first, and
// among equal priorities, the failure that got furthest into the input
// (latest Span.Start) wins.
func betterFailure(a, b Failure) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Span.Start > b.Span.Start
}

// engine runs one grammar over one input from start to finish. It is not
// safe for concurrent use — each Execute call (or each goroutine in a
// concurrent driver) must build its own engine.
type engine struct {
	text      []rune
	cache     map[cacheKey]*cacheEntry
	queue     []func()
	logger    zerolog.Logger
	sessionID string
	maxSteps  int
	steps     int

	globalFailure *Failure
}

func newEngine(text []rune, logger zerolog.Logger, sessionID string) *engine {
	return &engine{
		text:      text,
		cache:     make(map[cacheKey]*cacheEntry),
		logger:    logger,
		sessionID: sessionID,
		maxSteps:  maxEngineSteps,
	}
}

func (e *engine) enqueue(step func()) {
	e.queue = append(e.queue, step)
}

// trackGlobalFailure folds f into the engine's overall best-failure
// record, used by the driver to build a diagnostic message when the whole
// parse fails to produce any Success.
func (e *engine) trackGlobalFailure(f Failure) {
	if e.globalFailure == nil || betterFailure(f, *e.globalFailure) {
		cp := f
		e.globalFailure = &cp
	}
}

// activateRaw ensures p is matched at index, routing every terminal
// Success or Failure it (eventually) produces to sink. Repeated
// activations of the same cacheable (p, index) pair share one underlying
// matcher run; activateRaw just registers another sink against the
// existing cacheEntry and replays whatever it already knows.
func (e *engine) activateRaw(p *Parser, index int, sink func(Match)) {
	p = p.resolve()

	if !p.Cacheable() {
		e.logger.Trace().Int("parser", p.ID()).Int("index", index).Msg("activate uncached")
		e.enqueue(func() {
			e.expand(p.matcher(e.text, index), sink)
		})
		return
	}

	key := cacheKey{p.ID(), index}
	entry := e.cache[key]
	if entry == nil {
		entry = &cacheEntry{}
		e.cache[key] = entry
		e.logger.Trace().Int("parser", p.ID()).Int("index", index).Msg("new cache entry")
	}
	entry.sinks = append(entry.sinks, sink)

	for _, s := range entry.successes {
		succ := s
		e.enqueue(func() { sink(succ) })
	}
	if entry.failureDelivered && entry.bestFailure != nil {
		fail := *entry.bestFailure
		e.enqueue(func() { sink(fail) })
	}

	if !entry.started {
		entry.started = true
		e.enqueue(func() {
			e.expand(p.matcher(e.text, index), func(m Match) {
				e.recordCacheMatch(key, m)
			})
		})
	}
}

// expand walks one matcherFunc's (or handler's) MatchResult, resolving
// every Schedule into a further activation chained through the same
// handler, and forwarding every terminal Success/Failure straight to sink.
// This is the trampoline: expand itself never calls a matcherFunc or a
// scheduleHandler except from inside a queued step, so no call here grows
// the host stack with grammar depth.
func (e *engine) expand(result MatchResult, sink func(Match)) {
	for _, item := range result {
		if sched, ok := item.(Schedule); ok {
			handler := sched.Handler
			e.activateRaw(sched.Parser, sched.Index, func(sub Match) {
				e.expand(handler(sub), sink)
			})
			continue
		}
		sink(item)
	}
}

// recordCacheMatch folds a new terminal Match into a cache entry: a new
// distinct Success is recorded and fanned out to every sink immediately. A
// Failure is only ever held as the entry's running best candidate — it is
// never delivered here. Delivering failures eagerly would mean a
// left-recursive rule's first (failing) activation could propagate a
// failure to its own waiters before the rule's later, successful
// activations get a chance to run, breaking the fixed point. sweepFailures
// is the only path that ever sets failureDelivered.
func (e *engine) recordCacheMatch(key cacheKey, m Match) {
	entry := e.cache[key]
	switch v := m.(type) {
	case Success:
		for _, s := range entry.successes {
			if successEqual(s, v) {
				return
			}
		}
		entry.successes = append(entry.successes, v)
		for _, sink := range entry.sinks {
			s2, succ := sink, v
			e.enqueue(func() { s2(succ) })
		}
	case Failure:
		if entry.bestFailure == nil || betterFailure(v, *entry.bestFailure) {
			cp := v
			entry.bestFailure = &cp
		}
	}
}

// sweepFailures runs once the queue has fully drained: every cache entry
// that produced no Success and still holds an undelivered Failure gets
// that failure delivered to its waiters now. Delivering a failure can
// enqueue new work (e.g. a Not turning its child's failure into a Success,
// or a Seq passing the failure up to its own cache entry), so the caller
// loops drain+sweep until a full sweep delivers nothing.
func (e *engine) sweepFailures() bool {
	delivered := false
	for _, entry := range e.cache {
		if entry.bestFailure == nil || entry.failureDelivered || len(entry.successes) > 0 {
			continue
		}
		entry.failureDelivered = true
		fail := *entry.bestFailure
		e.trackGlobalFailure(fail)
		for _, sink := range entry.sinks {
			s2 := sink
			e.enqueue(func() { s2(fail) })
		}
		delivered = true
	}
	return delivered
}

func (e *engine) drainQueue() {
	for len(e.queue) > 0 {
		if e.maxSteps > 0 && e.steps >= e.maxSteps {
			panic(errStepLimitExceeded(e.maxSteps))
		}
		step := e.queue[0]
		e.queue = e.queue[1:]
		e.steps++
		step()
	}
}

// drainAll runs the trampoline to completion: drain every queued step,
// then sweep stuck failures, repeating until a full drain+sweep cycle
// delivers nothing new. This is the fixed-point loop that lets cyclic
// (left-recursive) grammars terminate — see recordCacheMatch and
// sweepFailures for why failures must lag one phase behind successes.
func (e *engine) drainAll() {
	for {
		e.drainQueue()
		if !e.sweepFailures() {
			return
		}
	}
}
