package exifpipe

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// jsonFlag asks the child for machine-readable output.
const jsonFlag = "-j"

// ExecuteJSON runs args with machine-readable output requested and
// parses the call's stdout as JSON.  A stdout payload that isn't
// valid JSON is a fatal decode error, not a partial result.
func (s *Session) ExecuteJSON(args []string) (gjson.Result, error) {
	res, err := s.Execute(append([]string{jsonFlag}, args...))
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(res.Output) {
		return gjson.Result{}, fmt.Errorf(
			"child emitted invalid JSON (status %d): %q",
			res.Status, abbrev(res.Output))
	}
	return gjson.ParseBytes(res.Output), nil
}

// Tags reads the named tags from the given files, returning the
// child's JSON tag listing.  Extra arguments in args are passed
// through ahead of the tag selectors.
func (s *Session) Tags(args, tags, files []string) (gjson.Result, error) {
	full := make([]string, 0, len(args)+len(tags)+len(files))
	full = append(full, args...)
	for _, t := range tags {
		full = append(full, "-"+t)
	}
	full = append(full, files...)
	return s.ExecuteJSON(full)
}

// Preview extracts the embedded preview image from one file and
// returns the raw bytes; interpreting them is up to the caller.
func (s *Session) Preview(path string) ([]byte, error) {
	res, err := s.Execute([]string{"-b", "-PreviewImage", path})
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// Version reports the child tool's version.
func (s *Session) Version() (string, error) {
	res, err := s.Execute([]string{"-ver"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Output)), nil
}
