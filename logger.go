package exifpipe

import (
	"io"

	"github.com/charmbracelet/log"
)

// abbrevMaxLen bounds payload excerpts in log records and errors.
const abbrevMaxLen = 65

// discardLogger returns a logger that writes nowhere.
func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func abbrev(b []byte) string {
	if len(b) > abbrevMaxLen {
		return string(b[:abbrevMaxLen-1]) + "..."
	}
	return string(b)
}
