package piper

import (
	"bufio"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cat gives a subprocess whose pipes behave like the real tool's:
// whatever goes in on stdin comes back on stdout, and closing stdin
// ends it.
func TestStartWiresPipes(t *testing.T) {
	p := Params{Path: "cat", Args: []string{}}
	proc, err := Start(&p)
	require.NoError(t, err)

	_, err = io.WriteString(proc.Stdin, "hello pipes\n")
	require.NoError(t, err)
	line, err := bufio.NewReader(proc.Stdout).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "hello pipes\n", line)

	require.NoError(t, proc.Close())
}

func TestCloseKillsStuckChild(t *testing.T) {
	p := Params{
		Path:        "sleep",
		Args:        []string{"30"},
		StopTimeout: 50 * time.Millisecond,
	}
	proc, err := Start(&p)
	require.NoError(t, err)

	start := time.Now()
	err = proc.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "killed")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestStartBadParams(t *testing.T) {
	p := Params{Path: "no-such-binary-whatsoever"}
	_, err := Start(&p)
	require.Error(t, err)
}
