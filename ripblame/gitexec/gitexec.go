// Package gitexec runs git and captures its output.
package gitexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvGit overrides the git binary when no explicit path is configured.
const EnvGit = "RIPBLAME_GIT"

// ErrGitNotFound is returned by LookGit when git can't be located.
var ErrGitNotFound = errors.New("git executable not found")

// Output is the captured result of a finished command.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner runs a command to completion in dir.
// A non-zero exit is reported in Output.ExitCode, not as an error. Errors are for commands
// that could not be started or were cancelled by ctx.
type Runner interface {
	Run(ctx context.Context, command string, args []string, dir string) (Output, error)
}

// ExecRunner is Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, command string, args []string, dir string) (res Output, _ error) {
	return Exec(ctx, command, dir, args)
}

// Exec runs command in dir. Process resources are released before returning on all paths.
func Exec(ctx context.Context, command string, dir string, args []string) (res Output, _ error) {
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	c := exec.CommandContext(ctx, command, args...)
	c.Dir = dir
	c.Stdout = stdout
	c.Stderr = stderr
	err := c.Run()
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	if err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("%v %v: %w", command, strings.Join(args, " "), ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("failed executing %v: %w", command, err)
	}
	return res, nil
}

// LookGit resolves the git binary. Explicit path wins, then RIPBLAME_GIT, then git on PATH.
func LookGit(explicit string) (string, error) {
	name := explicit
	if name == "" {
		name = os.Getenv(EnvGit)
	}
	if name == "" {
		name = "git"
	}
	loc, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGitNotFound, err)
	}
	return loc, nil
}
