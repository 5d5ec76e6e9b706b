package exifpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decodeMarks = marks{
	Ready:   "{ready1234}",
	ErrPost: "post1234",
	Execute: "-execute1234",
}

func TestDecodeStatusExtraction(t *testing.T) {
	res, err := decodeResponse(
		[]byte("{ready1234}"),
		[]byte("warning text=5=post1234"),
		decodeMarks)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), res.Status)
	assert.Equal(t, "warning text", string(res.Error))
	assert.Empty(t, res.Output)
}

func TestDecodeOutputKeepsInteriorNewlines(t *testing.T) {
	res, err := decodeResponse(
		[]byte("line one\nline two\n{ready1234}\n"),
		[]byte("=0=post1234\n"),
		decodeMarks)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), res.Status)
	assert.Equal(t, "line one\nline two\n", string(res.Output))
	assert.Empty(t, res.Error)
}

func TestDecodeTrimsTrailingHorizontalWhitespace(t *testing.T) {
	res, err := decodeResponse(
		[]byte("payload \t{ready1234} \t"),
		[]byte("=0=post1234  "),
		decodeMarks)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(res.Output))
}

func TestDecodeWhitespaceOnlyPayloadIsEmpty(t *testing.T) {
	res, err := decodeResponse(
		[]byte("   \t{ready1234}"),
		[]byte("  =0=post1234"),
		decodeMarks)
	require.NoError(t, err)
	assert.Empty(t, res.Output)
	assert.Empty(t, res.Error)
}

func TestDecodeMissingOutputMarker(t *testing.T) {
	_, err := decodeResponse(
		[]byte("short"),
		[]byte("=0=post1234"),
		decodeMarks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTerminator)
}

func TestDecodeMissingStatusDelim(t *testing.T) {
	_, err := decodeResponse(
		[]byte("{ready1234}"),
		[]byte("warning text post1234"),
		decodeMarks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingStatusDelim)
}

func TestDecodeUnterminatedStatus(t *testing.T) {
	_, err := decodeResponse(
		[]byte("{ready1234}"),
		[]byte("5=post1234"),
		decodeMarks)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedStatus)
}

func TestDecodeMalformedStatus(t *testing.T) {
	for _, bad := range []string{"5x", "", "300", "-1"} {
		_, err := decodeResponse(
			[]byte("{ready1234}"),
			[]byte("text="+bad+"=post1234"),
			decodeMarks)
		require.Error(t, err, "status %q must not parse", bad)
		assert.ErrorIs(t, err, ErrMalformedStatus, "status %q", bad)
	}
}

func TestDecodeStatusZeroBoundary(t *testing.T) {
	res, err := decodeResponse(
		[]byte("{ready1234}"),
		[]byte("=0=post1234"),
		decodeMarks)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), res.Status)
	assert.Empty(t, res.Error)
}

func TestDecodeStatus255Boundary(t *testing.T) {
	res, err := decodeResponse(
		[]byte("{ready1234}"),
		[]byte("=255=post1234"),
		decodeMarks)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), res.Status)
}
