package ripcmd

import (
	"context"
	"fmt"

	"github.com/pinpt/ripblame/ripblame/gitexec"
	"github.com/pinpt/ripblame/ripblame/porcelain"
)

// MismatchError is returned by Validate when incremental and porcelain blame disagree.
type MismatchError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MismatchError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%v: %v", e.Path, e.Reason)
	}
	return fmt.Sprintf("%v:%v: %v", e.Path, e.Line, e.Reason)
}

// Validate blames opts.File with both git blame --incremental and git blame --porcelain and
// checks that every line is attributed to the same commit and has the same content.
func Validate(ctx context.Context, opts Opts) error {
	bl, err := Load(ctx, opts)
	if err != nil {
		return err
	}
	git, err := gitexec.LookGit(opts.Git)
	if err != nil {
		return &UsageError{Msg: err.Error()}
	}
	runner := opts.Runner
	if runner == nil {
		runner = gitexec.ExecRunner{}
	}
	want, err := porcelain.Run(ctx, runner, git, bl.Root, opts.Rev, bl.Path)
	if err != nil {
		return err
	}
	return compare(bl, want)
}

func compare(bl *Blame, want []porcelain.Line) error {
	if len(want) != len(bl.Lines) {
		return &MismatchError{Path: bl.Path, Reason: fmt.Sprintf("porcelain has %v lines, incremental %v", len(want), len(bl.Lines))}
	}
	for i, w := range want {
		n := i + 1
		b, ok := bl.Result.LineOwner(n)
		if !ok {
			return &MismatchError{Path: bl.Path, Line: n, Reason: "no incremental block"}
		}
		if b.Commit.ID() != w.CommitHash {
			return &MismatchError{Path: bl.Path, Line: n, Reason: fmt.Sprintf("invalid commit, incremental %v porcelain %v", b.Commit.ID(), w.CommitHash)}
		}
		if bl.Lines[i] != w.Content {
			return &MismatchError{Path: bl.Path, Line: n, Reason: "invalid content"}
		}
	}
	return nil
}
