package cmdutils

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/pinpt/ripblame/ripblame/gitrepo"
)

// RunOnRepo runs cb for a repository with at least one commit and reports timing to wr.
// Returns gitrepo.ErrNoHead for empty repos without calling cb.
func RunOnRepo(wr io.Writer, repoDir string, cb func(repo *gitrepo.Repo) error) error {
	start := time.Now()
	fmt.Fprintf(wr, "starting processing repo:%v\n", color.GreenString(repoDir))
	repo, err := gitrepo.Open(repoDir)
	if err != nil {
		return err
	}
	if _, err := repo.HeadCommit(); err != nil {
		if errors.Is(err, gitrepo.ErrNoHead) {
			fmt.Fprintf(wr, "no commits, happens for empty repos, repo: %v\n", repoDir)
		}
		return err
	}

	err = cb(repo)
	if err != nil {
		fmt.Fprintf(wr, "completed repo processing in %v repo: %v err: %v\n", time.Since(start), color.RedString(repoDir), color.RedString(err.Error()))
		return err
	}

	fmt.Fprintf(wr, "completed repo processing in %v repo: %v\n", time.Since(start), color.GreenString(repoDir))
	return nil
}
