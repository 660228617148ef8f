package cmdutils

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pinpt/ripblame/ripblame/ripcmd"
)

const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps an error returned by ripcmd to a process exit code.
// Git's own exit code is passed through when git failed.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var uerr *ripcmd.UsageError
	if errors.As(err, &uerr) {
		return ExitUsage
	}
	var perr *ripcmd.ExternalProcessError
	if errors.As(err, &perr) && perr.ExitCode > 0 && perr.ExitCode < 256 {
		return perr.ExitCode
	}
	return ExitFailure
}

// PrintErr writes "Error: <message>" to wr in red.
func PrintErr(wr io.Writer, err error) {
	fmt.Fprintln(wr, color.RedString("Error: %v", err.Error()))
}

// PrintErrs writes all errors followed by a summary line.
func PrintErrs(wr io.Writer, errs []error) {
	if len(errs) == 0 {
		panic("no errors")
	}
	if len(errs) == 1 {
		PrintErr(wr, errs[0])
		return
	}
	for _, err := range errs {
		PrintErr(wr, err)
	}
	fmt.Fprintln(wr, color.RedString("failed with %v errors", len(errs)))
}
