// Package e2etests runs the full blame pipeline against real git repositories.
package e2etests

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pinpt/ripblame/ripblame/gittime"
	"github.com/pinpt/ripblame/ripblame/incblame"
	"github.com/pinpt/ripblame/ripblame/pkg/testutil"
	"github.com/pinpt/ripblame/ripblame/ripcmd"
)

type Test struct {
	t    *testing.T
	Repo *testutil.Repo
}

func NewTest(t *testing.T) *Test {
	s := &Test{}
	s.t = t
	s.Repo = testutil.NewRepo(t)
	return s
}

// Run blames file in the working tree, or at rev when it is not empty.
func (s *Test) Run(file string, rev string) *ripcmd.Blame {
	t := s.t
	t.Helper()
	res, err := ripcmd.Load(context.Background(), ripcmd.Opts{
		File: s.Repo.Path(file),
		Rev:  rev,
	})
	if err != nil {
		t.Fatal("Load returned error ", err)
	}
	return res
}

// commitDate returns the date testutil assigns to the n-th commit, counting from 0.
func commitDate(n int) time.Time {
	res, err := gittime.ParseUnix(strconv.Itoa(testutil.BaseTime+60*n), testutil.Zone)
	if err != nil {
		panic(err)
	}
	return res
}

// block is a comparable summary of incblame.Block.
type block struct {
	Start    int
	Count    int
	Commit   string
	FileName string
	OrigLine int
}

func blocks(res *incblame.Result) (out []block) {
	for _, b := range res.Blocks() {
		out = append(out, block{
			Start:    b.StartLine,
			Count:    b.LineCount,
			Commit:   b.Commit.ID(),
			FileName: b.FileName,
			OrigLine: b.OriginalStartLine,
		})
	}
	return
}
