// Package exifpipe drives a metadata-extraction tool kept alive in
// interactive batch mode.  One child process serves many calls: each
// call writes newline-delimited arguments to the child's stdin, then
// drains stdout and stderr until per-call sentinel markers appear, and
// decodes the delimited response into a status code plus the two
// payloads.
package exifpipe

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ganelon/exifpipe/piper"
)

// Session owns one long-lived batch-mode child process and serializes
// access to it.  A Session is safe for concurrent use; calls are
// strictly serialized, so responses come back in request order.
//
// There is no recovery: any I/O or framing error returned by a call
// means the child's streams can no longer be trusted, and the Session
// must be abandoned.
type Session struct {
	// mu is held for the full write-then-read cycle of one call.
	// Decoding happens outside the lock; it touches no shared state.
	mu sync.Mutex

	stdin  io.Writer
	stdout io.Reader
	stderr io.Reader

	marks *markSource

	blockSize    int
	pollInterval time.Duration
	logger       *log.Logger

	proc *piper.Process // nil when streams were injected
}

// NewSession spawns the child process described by p and returns a
// Session ready to accept calls.
func NewSession(p Parameters) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	proc, err := piper.Start(&p.Params)
	if err != nil {
		return nil, err
	}
	s := NewSessionRaw(proc.Stdin, proc.Stdout, proc.Stderr, p)
	s.proc = proc
	return s, nil
}

// NewSessionRaw builds a Session around pre-wired streams instead of a
// spawned child.  It exists so tests can substitute in-memory pipes
// for a real subprocess.
func NewSessionRaw(stdin io.Writer, stdout, stderr io.Reader, p Parameters) *Session {
	p.setDefaults()
	return &Session{
		stdin:        stdin,
		stdout:       stdout,
		stderr:       stderr,
		marks:        newMarkSource(),
		blockSize:    p.BlockSize,
		pollInterval: p.PollInterval,
		logger:       p.Logger,
	}
}

// Execute sends one command to the child and blocks until its framed
// response has been drained from both output streams and decoded.
//
// Arguments must not contain line feeds; an embedded line feed
// corrupts the framing of this call and every call after it.  There
// is no timeout: once the request is written, Execute waits until the
// terminators appear or a stream fails.
func (s *Session) Execute(args []string) (Result, error) {
	m := s.marks.next()
	msg := encodeRequest(args, m)

	s.mu.Lock()
	s.logger.Debug("writing request",
		"bytes", len(msg), "execute", m.Execute)
	if _, err := s.stdin.Write(msg); err != nil {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("writing request to child stdin; %w", err)
	}
	rawOut, err := readUntil(s.stdout, m.Ready, s.blockSize, s.pollInterval)
	if err != nil {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("draining stdout; %w", err)
	}
	rawErr, err := readUntil(s.stderr, m.ErrPost, s.blockSize, s.pollInterval)
	s.mu.Unlock()
	if err != nil {
		return Result{}, fmt.Errorf("draining stderr; %w", err)
	}

	res, err := decodeResponse(rawOut, rawErr, m)
	if err != nil {
		return Result{}, err
	}
	s.logger.Debug("call decoded",
		"status", res.Status,
		"outBytes", len(res.Output),
		"errBytes", len(res.Error))
	return res, nil
}

// Close asks the child to leave batch mode and waits for it to exit.
// Close is a no-op on a Session built from injected streams.
func (s *Session) Close() error {
	if s.proc == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc.Close()
}
