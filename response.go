package exifpipe

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Result is the decoded outcome of one call.
type Result struct {
	// Status is the child's exit status for the command.
	Status uint8
	// Output holds the call's stdout with the ready marker and
	// trailing whitespace removed.
	Output []byte
	// Error holds the call's stderr with the post marker and the
	// embedded status annotation removed.
	Error []byte
}

// Protocol violations.  Any of these means the child's framing can no
// longer be trusted and the session must be abandoned.
var (
	// ErrNoTerminator reports a stream that did not end with the
	// call's marker.
	ErrNoTerminator = errors.New("stream does not end with its marker")
	// ErrMissingStatusDelim reports a stderr buffer that did not end
	// with the status delimiter.
	ErrMissingStatusDelim = errors.New("missing status delimiter")
	// ErrUnterminatedStatus reports a status field with no opening
	// delimiter.
	ErrUnterminatedStatus = errors.New("unterminated status field")
	// ErrMalformedStatus reports a status field that did not parse
	// as an unsigned 8-bit decimal integer.
	ErrMalformedStatus = errors.New("malformed status code")
)

// trimTrailing removes trailing tab and space bytes.  Newlines inside
// the payload are meaningful and left alone.
func trimTrailing(b []byte) []byte {
	return bytes.TrimRight(b, " \t")
}

// stripMarker removes the call's terminator from the tail of a raw
// stream buffer.  The reader may or may not have consumed the newline
// the child writes after the marker, so one trailing CR/LF is
// tolerated before the marker is matched.
func stripMarker(b []byte, mark string) ([]byte, error) {
	b = trimTrailing(b)
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
		if n = len(b); n > 0 && b[n-1] == '\r' {
			b = b[:n-1]
		}
	}
	if !bytes.HasSuffix(b, []byte(mark)) {
		return nil, fmt.Errorf("%w; want %q at tail of %d bytes",
			ErrNoTerminator, mark, len(b))
	}
	return trimTrailing(b[:len(b)-len(mark)]), nil
}

// decodeResponse turns the two raw stream buffers for one call into a
// Result.  The stderr buffer must end with the delimiter-wrapped
// status annotation the request asked the child to echo; everything
// before it is the caller-relevant error text.
func decodeResponse(rawOut, rawErr []byte, m marks) (Result, error) {
	out, err := stripMarker(rawOut, m.Ready)
	if err != nil {
		return Result{}, fmt.Errorf("stdout: %w", err)
	}
	errText, err := stripMarker(rawErr, m.ErrPost)
	if err != nil {
		return Result{}, fmt.Errorf("stderr: %w", err)
	}
	if !bytes.HasSuffix(errText, []byte(statusDelim)) {
		return Result{}, fmt.Errorf("%w; stderr tail is %q",
			ErrMissingStatusDelim, tailOf(errText))
	}
	errText = errText[:len(errText)-len(statusDelim)]
	open := bytes.LastIndex(errText, []byte(statusDelim))
	if open < 0 {
		return Result{}, fmt.Errorf("%w; no opening %q before status code",
			ErrUnterminatedStatus, statusDelim)
	}
	code := errText[open+len(statusDelim):]
	status, perr := strconv.ParseUint(string(code), 10, 8)
	if perr != nil {
		return Result{}, fmt.Errorf("%w; got %q", ErrMalformedStatus, code)
	}
	return Result{
		Status: uint8(status),
		Output: out,
		Error:  errText[:open],
	}, nil
}

// tailOf abbreviates a buffer from the front, for error messages.
func tailOf(b []byte) string {
	const keep = 16
	if len(b) > keep {
		return "..." + string(b[len(b)-keep:])
	}
	return string(b)
}
