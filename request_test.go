package exifpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testMarks = marks{
	Ready:   "{ready7}",
	ErrPost: "post7",
	Execute: "-execute7",
}

func TestEncodeRequest(t *testing.T) {
	got := encodeRequest([]string{"-j", "photo.jpg"}, testMarks)
	want := "-j\n" +
		"photo.jpg\n" +
		"-echo4\n" +
		"=${status}=post7\n" +
		"-execute7\n"
	assert.Equal(t, want, string(got))
}

func TestEncodeRequestNoArgs(t *testing.T) {
	got := encodeRequest(nil, testMarks)
	want := "-echo4\n=${status}=post7\n-execute7\n"
	assert.Equal(t, want, string(got))
}
