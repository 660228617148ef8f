package ripcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pinpt/ripblame/ripblame/gitexec"
	"github.com/pinpt/ripblame/ripblame/incblame"
	"github.com/pinpt/ripblame/ripblame/lineformat"
	"github.com/pinpt/ripblame/ripblame/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	content1 = "package main\n\nfunc main() {\n}\n"
	content2 = "package main\n\nfunc main() {\n\t// do nothing\n}\n"
)

type testRepo struct {
	*testutil.Repo
	first  string
	second string
}

func newTestRepo(t *testing.T) testRepo {
	r := testutil.NewRepo(t)
	res := testRepo{Repo: r}
	res.first = r.Commit("User1", "c1", map[string]string{"main.go": content1})
	res.second = r.Commit("User2", "c2", map[string]string{"main.go": content2})
	return res
}

func expectedLine(id string, root bool, author string, date string, n int, text string) string {
	if root {
		id = "^" + id
	}
	return fmt.Sprintf("%s (%s %s %4d) %s", lineformat.WithLength(id, 8), lineformat.WithLength(author, 27), date, n, text)
}

func TestRunText(t *testing.T) {
	r := newTestRepo(t)
	out := bytes.NewBuffer(nil)
	err := Run(context.Background(), out, Opts{File: r.Path("main.go")})
	require.NoError(t, err)

	d1 := "2001-09-09 02:46:40 +0100"
	d2 := "2001-09-09 02:47:40 +0100"
	want := []string{
		expectedLine(r.first, true, "User1", d1, 1, "package main"),
		expectedLine(r.first, true, "User1", d1, 2, ""),
		expectedLine(r.first, true, "User1", d1, 3, "func main() {"),
		expectedLine(r.second, false, "User2", d2, 4, "\t// do nothing"),
		expectedLine(r.first, true, "User1", d1, 5, "}"),
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", out.String())
}

func TestLoad(t *testing.T) {
	r := newTestRepo(t)
	bl, err := Load(context.Background(), Opts{File: r.Path("main.go")})
	require.NoError(t, err)
	assert.Equal(t, "main.go", bl.Path)
	assert.Equal(t, "Go", bl.Language)
	assert.Len(t, bl.Lines, 5)
	assert.Len(t, bl.Result.Commits(), 2)
	assert.Equal(t, 5, bl.Result.Lines())

	c, ok := bl.Result.Commit(r.second)
	require.True(t, ok)
	prev, file, ok := c.Previous()
	assert.True(t, ok)
	assert.Equal(t, r.first, prev)
	assert.Equal(t, "main.go", file)
	assert.Equal(t, "user2@example.com", c.Author().Email)
}

func TestLoadRevision(t *testing.T) {
	r := newTestRepo(t)
	bl, err := Load(context.Background(), Opts{File: r.Path("main.go"), Rev: r.first})
	require.NoError(t, err)
	assert.Equal(t, []string{"package main", "", "func main() {", "}"}, bl.Lines)
	require.Len(t, bl.Result.Commits(), 1)
	assert.Equal(t, r.first, bl.Result.Commits()[0].ID())
}

func TestLoadRevisionDeletedFile(t *testing.T) {
	r := newTestRepo(t)
	r.Git("rm", "-q", "main.go")
	r.Commit("User1", "c3", nil)

	bl, err := Load(context.Background(), Opts{File: r.Path("main.go"), Rev: r.second})
	require.NoError(t, err)
	assert.Equal(t, "main.go", bl.Path)
	assert.Len(t, bl.Lines, 5)
	assert.Len(t, bl.Result.Commits(), 2)

	_, err = Load(context.Background(), Opts{File: r.Path("main.go")})
	var uerr *UsageError
	assert.True(t, errors.As(err, &uerr), "got %v", err)

	_, err = Load(context.Background(), Opts{File: r.Path("main.go"), Rev: "HEAD"})
	require.Error(t, err)
	assert.False(t, errors.As(err, &uerr), "got %v", err)
}

func TestLoadUncommitted(t *testing.T) {
	r := newTestRepo(t)
	r.WriteFile("main.go", content2+"// local\n")
	bl, err := Load(context.Background(), Opts{File: r.Path("main.go")})
	require.NoError(t, err)
	b, ok := bl.Result.LineOwner(6)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("0", 40), b.Commit.ID())
}

func TestRunJSON(t *testing.T) {
	r := newTestRepo(t)
	out := bytes.NewBuffer(nil)
	require.NoError(t, Run(context.Background(), out, Opts{File: r.Path("main.go"), Format: FormatJSON}))

	var doc Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "main.go", doc.File)
	assert.Equal(t, 5, doc.Lines)
	assert.Equal(t, map[string]int{"User1": 4, "User2": 1}, doc.Authors)
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, BlockDoc{StartLine: 4, LineCount: 1, OriginalStartLine: 4, FileName: "main.go", CommitID: r.second}, doc.Blocks[1])
	require.Len(t, doc.Commits, 2)
	for _, c := range doc.Commits {
		if c.ID == r.second {
			assert.Equal(t, r.first, c.PreviousCommitID)
			assert.Equal(t, "2001-09-09T02:47:40+01:00", c.AuthorDate)
		}
	}
}

func TestRunYAML(t *testing.T) {
	r := newTestRepo(t)
	out := bytes.NewBuffer(nil)
	require.NoError(t, Run(context.Background(), out, Opts{File: r.Path("main.go"), Format: FormatYAML}))

	var doc Document
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "main.go", doc.File)
	assert.Len(t, doc.Blocks, 3)
	assert.Contains(t, out.String(), "summary: c2")
}

func TestRunUsageErrors(t *testing.T) {
	r := newTestRepo(t)
	notRepo := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, ioutil.WriteFile(notRepo, []byte("a\n"), 0666))
	r.WriteFile("image.bin", "\x00\x01\x02binary")

	cases := []Opts{
		{},
		{File: r.Path("missing.go")},
		{File: r.Dir},
		{File: r.Path("main.go"), Format: "xml"},
		{File: r.Path("main.go"), Git: "ripblame-no-such-git"},
		{File: notRepo},
		{File: r.Path("image.bin")},
	}
	for _, opts := range cases {
		err := Run(context.Background(), ioutil.Discard, opts)
		var uerr *UsageError
		assert.True(t, errors.As(err, &uerr), "opts %+v: got %v", opts, err)
	}
}

func TestRunUntrackedFile(t *testing.T) {
	r := newTestRepo(t)
	r.WriteFile("new.go", "package main\n")
	err := Run(context.Background(), ioutil.Discard, Opts{File: r.Path("main.go"), Rev: "HEAD~5"})
	require.Error(t, err)

	err = Run(context.Background(), ioutil.Discard, Opts{File: r.Path("new.go")})
	var perr *ExternalProcessError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.NotEqual(t, 0, perr.ExitCode)
	assert.Equal(t, "git blame", perr.Command)
}

type fakeRunner struct {
	calls int
	out   gitexec.Output
	err   error
}

func (s *fakeRunner) Run(ctx context.Context, command string, args []string, dir string) (gitexec.Output, error) {
	s.calls++
	return s.out, s.err
}

func TestLoadParseError(t *testing.T) {
	r := newTestRepo(t)
	runner := &fakeRunner{out: gitexec.Output{Stdout: []byte("abc 1 1\n")}}
	_, err := Load(context.Background(), Opts{File: r.Path("main.go"), Runner: runner})
	require.Error(t, err)
	assert.True(t, errors.Is(err, incblame.ErrParse))
	var herr *incblame.MalformedHeaderError
	assert.True(t, errors.As(err, &herr))
}

func TestLoadRunnerError(t *testing.T) {
	r := newTestRepo(t)
	runner := &fakeRunner{err: context.DeadlineExceeded}
	_, err := Load(context.Background(), Opts{File: r.Path("main.go"), Runner: runner, Timeout: time.Second})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLoadCache(t *testing.T) {
	r := newTestRepo(t)
	git, err := gitexec.LookGit("")
	require.NoError(t, err)

	blame, err := gitexec.Exec(context.Background(), git, r.Dir, []string{"blame", "--incremental", "--", "main.go"})
	require.NoError(t, err)
	runner := &fakeRunner{out: blame}

	opts := Opts{File: r.Path("main.go"), Runner: runner, Cache: true}
	for i := 0; i < 2; i++ {
		bl, err := Load(context.Background(), opts)
		require.NoError(t, err)
		assert.Len(t, bl.Result.Blocks(), 3)
	}
	assert.Equal(t, 1, runner.calls)

	// changing the file invalidates the entry
	r.WriteFile("main.go", content2+"\n")
	runner.out, err = gitexec.Exec(context.Background(), git, r.Dir, []string{"blame", "--incremental", "--", "main.go"})
	require.NoError(t, err)
	_, err = Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, runner.calls)
}

func TestLoadCacheInGitDir(t *testing.T) {
	r := newTestRepo(t)
	_, err := Load(context.Background(), Opts{File: r.Path("main.go"), Cache: true})
	require.NoError(t, err)

	entries, err := ioutil.ReadDir(filepath.Join(r.Dir, ".git", gitexec.CacheDirName))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "", r.Git("status", "--porcelain"))
}
