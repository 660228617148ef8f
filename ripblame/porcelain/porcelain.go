// Package porcelain parses git blame --porcelain output. It is an independent second reading
// of git's blame used to check results of package incblame.
package porcelain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pinpt/ripblame/ripblame/gitexec"
)

// Line is one line of the blamed file.
type Line struct {
	Content    string
	CommitHash string
	Meta       map[string]string
}

// ErrTruncated is returned when output ends between a header and its content line.
var ErrTruncated = errors.New("porcelain output ended before content line")

// Run blames path relative to repoDir at rev. Empty rev blames the working tree.
func Run(ctx context.Context, runner gitexec.Runner, git string, repoDir string, rev string, path string) ([]Line, error) {
	args := []string{"blame", "--porcelain"}
	if rev != "" {
		args = append(args, rev)
	}
	args = append(args, "--", path)
	res, err := runner.Run(ctx, git, args, repoDir)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("git blame --porcelain exited with code %v: %s", res.ExitCode, bytes.TrimSpace(res.Stderr))
	}
	return Parse(string(res.Stdout))
}

// Parse parses complete porcelain output. Metadata of a commit is copied to every line.
func Parse(data string) (res []Line, _ error) {
	lines := strings.Split(data, "\n")
	metasByCommit := map[string]map[string]string{}
	for i := 0; i < len(lines); {
		fl := lines[i]
		if fl == "" && i == len(lines)-1 {
			// skip last empty line
			break
		}
		parts := strings.Split(fl, " ")
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid header on line %v: %q", i+1, fl)
		}
		rl := Line{}
		rl.CommitHash = parts[0]
		rl.Meta = map[string]string{}
		for {
			i++
			if i >= len(lines) {
				return nil, fmt.Errorf("%w, commit %v", ErrTruncated, rl.CommitHash)
			}
			l := lines[i]
			if len(l) != 0 && l[0] == '\t' {
				rl.Content = l[1:]
				break
			}
			parts := strings.SplitN(l, " ", 2)
			if len(parts) == 2 {
				rl.Meta[parts[0]] = parts[1]
			} else {
				// i.e. boundary
				rl.Meta[l] = ""
			}
		}
		if len(rl.Meta) == 0 {
			rl.Meta = metasByCommit[rl.CommitHash]
		} else {
			metasByCommit[rl.CommitHash] = rl.Meta
		}
		res = append(res, rl)
		i++
	}
	return res, nil
}
