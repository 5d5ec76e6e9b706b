package exifpipe

import "bytes"

const (
	// statusDelim brackets the numeric exit status embedded in the
	// child's stderr.
	statusDelim = "="

	// statusMacro is expanded by the child to the command's exit
	// status.  Requires exiftool v12.10 or newer.
	statusMacro = "${status}"

	// echoDirective asks the child to print the argument that
	// follows it to stderr once the command has finished.
	echoDirective = "-echo4"
)

// encodeRequest serializes one call into the newline-delimited message
// written to the child's stdin: the caller's arguments, one per line,
// then the echo directive with its delimiter-wrapped status macro and
// stderr post-marker, then the execute marker.
//
// Arguments must not contain a line feed.  An embedded line feed would
// be read as an argument boundary by the child and corrupt the framing
// of this call and every call after it.
func encodeRequest(args []string, m marks) []byte {
	var buf bytes.Buffer
	for _, a := range args {
		buf.WriteString(a)
		buf.WriteByte('\n')
	}
	buf.WriteString(echoDirective)
	buf.WriteByte('\n')
	buf.WriteString(statusDelim + statusMacro + statusDelim + m.ErrPost)
	buf.WriteByte('\n')
	buf.WriteString(m.Execute)
	buf.WriteByte('\n')
	return buf.Bytes()
}
