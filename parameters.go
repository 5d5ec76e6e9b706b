package exifpipe

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ganelon/exifpipe/piper"
)

// Parameters is a bag of parameters for a Session.
// See individual fields for their explanation.
type Parameters struct {
	piper.Params

	// BlockSize is the chunk size used when draining the child's
	// output and error streams.
	BlockSize int

	// PollInterval is how long to pause after a zero-byte read
	// before retrying.
	PollInterval time.Duration

	// Logger receives debug records for each call's write/read/decode
	// cycle.  Leave nil to disable logging.
	Logger *log.Logger
}

const (
	defaultBlockSize    = 4096
	defaultPollInterval = 10 * time.Millisecond
)

// Validate returns an error if there's a problem in the Parameters.
func (p *Parameters) Validate() error {
	if p.BlockSize < 0 {
		return fmt.Errorf("block size must be positive, got %d", p.BlockSize)
	}
	p.setDefaults()
	return p.Params.Validate()
}

func (p *Parameters) setDefaults() {
	if p.BlockSize < 1 {
		p.BlockSize = defaultBlockSize
	}
	if p.PollInterval < 1 {
		p.PollInterval = defaultPollInterval
	}
	if p.Logger == nil {
		p.Logger = discardLogger()
	}
}
