// Package testutil creates throwaway git repositories for tests.
package testutil

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// BaseTime is the author and committer time of the first commit created by Repo.
// Each following commit is one minute later.
const BaseTime = 1000000000

// Zone is the time zone of commits created by Repo.
const Zone = "+0100"

// SkipIfNoGit skips the test when git is not installed and returns its location otherwise.
func SkipIfNoGit(t *testing.T) string {
	t.Helper()
	loc, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git is not installed")
	}
	return loc
}

type Repo struct {
	t       *testing.T
	Dir     string
	git     string
	commits int
}

// NewRepo initializes an empty repository in a temp dir removed after the test.
func NewRepo(t *testing.T) *Repo {
	t.Helper()
	s := &Repo{}
	s.t = t
	s.git = SkipIfNoGit(t)
	s.Dir = t.TempDir()
	s.Git("init", "-q")
	return s
}

// Git runs git in the repository and returns trimmed stdout. Fails the test on error.
func (s *Repo) Git(args ...string) string {
	s.t.Helper()
	out, err := s.run(nil, args...)
	if err != nil {
		s.t.Fatal(err)
	}
	return out
}

func (s *Repo) run(env []string, args ...string) (string, error) {
	stdout := bytes.NewBuffer(nil)
	stderr := bytes.NewBuffer(nil)
	c := exec.Command(s.git, append([]string{"-c", "commit.gpgsign=false"}, args...)...)
	c.Dir = s.Dir
	c.Env = append(os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"HOME="+s.Dir,
	)
	c.Env = append(c.Env, env...)
	c.Stdout = stdout
	c.Stderr = stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("git %v failed: %v %s", strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// WriteFile writes content to a path relative to the repository root.
func (s *Repo) WriteFile(path string, content string) {
	s.t.Helper()
	loc := filepath.Join(s.Dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(loc), 0777); err != nil {
		s.t.Fatal(err)
	}
	if err := ioutil.WriteFile(loc, []byte(content), 0666); err != nil {
		s.t.Fatal(err)
	}
}

// Commit writes files, stages everything and commits as author. Returns the new commit hash.
func (s *Repo) Commit(author string, msg string, files map[string]string) string {
	s.t.Helper()
	for p, content := range files {
		s.WriteFile(p, content)
	}
	s.Git("add", "-A")
	date := fmt.Sprintf("%d %s", BaseTime+60*s.commits, Zone)
	s.commits++
	email := strings.ToLower(strings.Replace(author, " ", ".", -1)) + "@example.com"
	env := []string{
		"GIT_AUTHOR_NAME=" + author,
		"GIT_AUTHOR_EMAIL=" + email,
		"GIT_AUTHOR_DATE=" + date,
		"GIT_COMMITTER_NAME=" + author,
		"GIT_COMMITTER_EMAIL=" + email,
		"GIT_COMMITTER_DATE=" + date,
	}
	if _, err := s.run(env, "commit", "-q", "--allow-empty", "-m", msg); err != nil {
		s.t.Fatal(err)
	}
	return s.Git("rev-parse", "HEAD")
}

// Path returns the absolute location of a repository file.
func (s *Repo) Path(path string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(path))
}
