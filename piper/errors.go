package piper

import "fmt"

func paramErr(format string, args ...any) error {
	return fmt.Errorf("piper: "+format, args...)
}

func paramErrCaused(cause error, format string, args ...any) error {
	return fmt.Errorf("piper: "+format+"; %w", append(args, cause)...)
}
