package exifpipe

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// handlerFunc decides what a fake child writes for one call, given
// the call's arguments (echo directives already stripped).  It
// returns the stdout payload, the stderr payload, and the exit
// status substituted into ${status}.
type handlerFunc func(args []string) (stdout, stderr string, status int)

// startFakeChild wires a Session to an in-memory child speaking the
// batch protocol.  The child runs in a goroutine until the session
// side of stdin is closed.
func startFakeChild(t *testing.T, handle handlerFunc) *Session {
	t.Helper()
	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		serveChild(stdinR, stdoutW, stderrW, handle)
	}()
	t.Cleanup(func() {
		_ = stdinW.Close()
		wg.Wait()
		_ = stdoutW.Close()
		_ = stderrW.Close()
	})
	return NewSessionRaw(stdinW, stdoutR, stderrR, Parameters{})
}

// serveChild implements the child's side of the wire protocol:
// accumulate argument lines, and on -execute<id> run the handler,
// terminate stdout with {ready<id>}, and emit -echo4 directives to
// stderr with ${status} substituted.
func serveChild(in io.Reader, out, errOut io.Writer, handle handlerFunc) {
	sc := bufio.NewScanner(in)
	var args []string
	for sc.Scan() {
		line := sc.Text()
		id, found := strings.CutPrefix(line, "-execute")
		if !found {
			args = append(args, line)
			continue
		}
		var echo, rest []string
		for i := 0; i < len(args); i++ {
			if args[i] == "-echo4" && i+1 < len(args) {
				i++
				echo = append(echo, args[i])
				continue
			}
			rest = append(rest, args[i])
		}
		stdout, stderr, status := handle(rest)
		fmt.Fprint(out, stdout)
		fmt.Fprintf(out, "{ready%s}\n", id)
		fmt.Fprint(errOut, stderr)
		for _, e := range echo {
			fmt.Fprintln(errOut,
				strings.ReplaceAll(e, "${status}", strconv.Itoa(status)))
		}
		args = args[:0]
	}
}

// startFakeChildCustom builds a child that composes both raw streams
// itself from the call's id, ignoring arguments and echo directives.
// Useful for feeding the session deliberately broken framing.
func startFakeChildCustom(t *testing.T, compose func(id string) (stdout, stderr string)) *Session {
	t.Helper()
	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sc := bufio.NewScanner(stdinR)
		for sc.Scan() {
			id, found := strings.CutPrefix(sc.Text(), "-execute")
			if !found {
				continue
			}
			stdout, stderr := compose(id)
			fmt.Fprint(stdoutW, stdout)
			fmt.Fprint(stderrW, stderr)
		}
	}()
	t.Cleanup(func() {
		_ = stdinW.Close()
		wg.Wait()
		_ = stdoutW.Close()
		_ = stderrW.Close()
	})
	return NewSessionRaw(stdinW, stdoutR, stderrR, Parameters{})
}

// okChild answers every call with the given payloads and status 0.
func okChild(stdout, stderr string) handlerFunc {
	return func([]string) (string, string, int) {
		return stdout, stderr, 0
	}
}
