package ripcmd

import "fmt"

// UsageError is returned for invalid input from the user, like a missing file.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ExternalProcessError is returned when git exits with non-zero code.
type ExternalProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExternalProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%v exited with code %v", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%v exited with code %v: %v", e.Command, e.ExitCode, e.Stderr)
}
