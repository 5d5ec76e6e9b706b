package exifpipe

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// marks holds the three sentinel tokens generated for one call.
//
// The child emits Ready at the end of the call's stdout and ErrPost at
// the end of its stderr, so the session can locate the call's response
// boundaries in otherwise unstructured streams.  Execute is the
// argument that triggers the child to run the queued command and emit
// the markers.
type marks struct {
	// Ready terminates the call's stdout, e.g. "{ready421}".
	Ready string
	// ErrPost terminates the call's stderr, e.g. "post421".
	ErrPost string
	// Execute triggers execution, e.g. "-execute421".
	Execute string
}

// markSource hands out sentinel tokens unique for the life of a
// session.  The numeric suffix combines a nonce chosen at session
// construction with a monotonically increasing call counter, so a
// token from one call cannot appear in another call's in-flight data.
//
// The suffix must be numeric; the child echoes it back verbatim inside
// its ready marker and only accepts numbers there.
type markSource struct {
	nonce uint32
	calls atomic.Uint64
}

func newMarkSource() *markSource {
	return &markSource{nonce: uuid.New().ID()}
}

func (ms *markSource) next() marks {
	id := fmt.Sprintf("%d%d", ms.nonce, ms.calls.Add(1))
	return marks{
		Ready:   "{ready" + id + "}",
		ErrPost: "post" + id,
		Execute: "-execute" + id,
	}
}
