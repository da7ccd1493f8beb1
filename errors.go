package packrattle

import "fmt"

// GrammarDefectError reports a programmer mistake in how a grammar was
// built, or a runaway grammar that had to be aborted — as opposed to an
// ordinary parse failure. Parse failures are Failure values and are
// recoverable by Alt/Optional/Not; a GrammarDefectError is not recoverable
// by any combinator and always aborts the whole Execute/Run call.
type GrammarDefectError struct {
	value string
}

func defect(format string, v ...interface{}) *GrammarDefectError {
	return &GrammarDefectError{fmt.Sprintf(format, v...)}
}

func (err *GrammarDefectError) Error() string {
	return "packrattle: " + err.value
}

var (
	errNilRootParser   = defect("the root parser is nil")
	errImpossibleMatch = defect("a Match value that is neither Success nor Failure reached a handler")
	errLazyResolvedNil = defect("a lazy parser thunk resolved to a nil parser")
)

func errStepLimitExceeded(limit int) *GrammarDefectError {
	return defect("exceeded the configured limit of %d work-queue steps; grammar may be runaway", limit)
}

func errRepeatNoProgress(pos int) *GrammarDefectError {
	return defect("Repeating parser isn't making progress at position %d", pos)
}
