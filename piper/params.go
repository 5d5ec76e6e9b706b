// Package piper spawns the long-lived metadata-extraction child
// process and wires up the three pipes the session drives.
package piper

import (
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Params captures all parameters to piper.Start.
type Params struct {
	// Path is either the absolute path to the executable, or a $PATH
	// relative command name.  When empty, the PathEnvVar environment
	// variable is consulted, then DefaultPath.
	Path string

	// Args has the arguments for the child invocation.  When nil,
	// BatchArgs is used, placing the child in interactive batch mode
	// reading newline-delimited arguments from stdin.
	Args []string

	// WorkingDir is the working directory of the child process.
	WorkingDir string

	// StopTimeout bounds how long Close waits for the child to exit
	// after being asked to leave batch mode.
	StopTimeout time.Duration
}

const (
	// DefaultPath is the executable run when Path is empty and the
	// environment doesn't override it.
	DefaultPath = "exiftool"

	// PathEnvVar names the environment variable that overrides
	// DefaultPath.
	PathEnvVar = "EXIFTOOL"

	defaultStopTimeout = 5 * time.Second
)

// BatchArgs returns the startup arguments that place the child in
// interactive batch mode.
func BatchArgs() []string {
	return []string{"-stay_open", "True", "-@", "-"}
}

// Validate returns an error if there's a problem in the Params.
func (p *Params) Validate() error {
	p.setDefaults()
	if err := p.validateWorkDir(); err != nil {
		return err
	}
	return p.validatePath()
}

func (p *Params) setDefaults() {
	if p.Path == "" {
		if v := os.Getenv(PathEnvVar); v != "" {
			p.Path = v
		} else {
			p.Path = DefaultPath
		}
	}
	if p.Args == nil {
		p.Args = BatchArgs()
	}
	if p.StopTimeout == 0 {
		p.StopTimeout = defaultStopTimeout
	}
}

func (p *Params) validateWorkDir() (err error) {
	p.WorkingDir, err = filepath.Abs(p.WorkingDir)
	if err != nil {
		return paramErrCaused(err, "bad working dir path")
	}
	var info os.FileInfo
	info, err = os.Stat(p.WorkingDir)
	if err != nil {
		return paramErrCaused(err, "bad working dir stat")
	}
	if !info.IsDir() {
		return paramErr("%q is not a directory that exists", p.WorkingDir)
	}
	return nil
}

func (p *Params) validatePath() error {
	if p.Path == "" {
		return paramErr("must specify Path to the executable to run")
	}
	if _, err := exec.LookPath(p.Path); err != nil {
		return paramErrCaused(err, "path %q not available", p.Path)
	}
	return nil
}
