package packrattle

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// engineLogger is disabled by default, matching the teacher's convention
// that a library stays silent until its caller opts in. cmd/grammartool
// and any other embedder call SetLogger to turn on structured trace
// output.
var engineLogger = zerolog.Nop()

// SetLogger installs the zerolog.Logger every subsequent Execute call on
// any Parser will use for its trace/debug output.
func SetLogger(l zerolog.Logger) {
	engineLogger = l
}

// maxEngineSteps bounds how many work-queue steps a single Execute call
// may run before aborting as a grammar defect. 0 (the default) means
// unlimited.
var maxEngineSteps = 0

// SetMaxSteps installs the step ceiling every subsequent Execute call on
// any Parser will enforce.
func SetMaxSteps(n int) {
	maxEngineSteps = n
}

// newSessionID mints a correlation id for one Execute call, so log lines
// from concurrent parses (see cmd/grammartool's per-file engines) can be
// told apart in a shared log stream.
func newSessionID() string {
	return uuid.NewString()
}
