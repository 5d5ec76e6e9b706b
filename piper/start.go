package piper

import (
	"fmt"
	"io"
	"os/exec"
	"time"
)

// stopDirective asks a batch-mode child to leave its read loop and
// exit cleanly.
const stopDirective = "-stay_open\nFalse\n"

// Process is a running child with its three pipes wired.
type Process struct {
	// Stdin is the child's input stream; the session writes framed
	// requests here.
	Stdin io.WriteCloser
	// Stdout is the child's output stream.
	Stdout io.ReadCloser
	// Stderr is the child's error stream.
	Stderr io.ReadCloser

	cmd         *exec.Cmd
	stopTimeout time.Duration
}

// Start spawns the child described by p and returns a handle to it
// with all three pipes wired.
func Start(p *Params) (*Process, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cmd := exec.Command(p.Path, p.Args...)
	cmd.Dir = p.WorkingDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stdin for %q; %w", p.Path, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stdout for %q; %w", p.Path, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("getting stderr for %q; %w", p.Path, err)
	}
	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("trying to start %s - %w", p.Path, err)
	}
	return &Process{
		Stdin:       stdin,
		Stdout:      stdout,
		Stderr:      stderr,
		cmd:         cmd,
		stopTimeout: p.StopTimeout,
	}, nil
}

// Close asks the child to exit its batch loop, closes stdin, and
// waits up to the stop timeout before killing it outright.
func (p *Process) Close() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	// A dead child makes this write fail; Wait below reports that.
	_, _ = io.WriteString(p.Stdin, stopDirective)
	closeErr := p.Stdin.Close()

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("child exited uncleanly; %w", err)
		}
	case <-time.After(p.stopTimeout):
		_ = p.cmd.Process.Kill()
		<-done
		return fmt.Errorf("child did not exit within %s; killed", p.stopTimeout)
	}
	if closeErr != nil {
		return fmt.Errorf("closing child stdin; %w", closeErr)
	}
	return nil
}
