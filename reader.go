package exifpipe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// readUntil reads r in blockSize chunks, appending to an accumulator,
// until the accumulator's tail contains term, then returns everything
// accumulated (terminator included).  Only the last len(term)+2 bytes
// are scanned, so a terminator buried mid-stream is never mistaken for
// the end of a response; the two extra bytes tolerate a trailing CR/LF
// landing in the same chunk as the terminator.
//
// Zero-byte reads pause for pollDelay before retrying.  If the stream
// ends or errors before the terminator appears, readUntil returns the
// bytes accumulated so far together with a non-nil error; the caller
// must treat the buffer as truncated.
func readUntil(r io.Reader, term string, blockSize int, pollDelay time.Duration) ([]byte, error) {
	tailLen := len(term) + 2
	var acc []byte
	buf := make([]byte, blockSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			acc = append(acc, buf[:n]...)
			tail := acc
			if len(tail) > tailLen {
				tail = tail[len(tail)-tailLen:]
			}
			if bytes.Contains(tail, []byte(term)) {
				return acc, nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return acc, fmt.Errorf(
					"stream closed before terminator %q found", term)
			}
			return acc, fmt.Errorf(
				"reading stream before terminator %q found; %w", term, err)
		}
		if n == 0 {
			time.Sleep(pollDelay)
		}
	}
}
