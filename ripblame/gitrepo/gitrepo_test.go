package gitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pinpt/ripblame/ripblame/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndRelPath(t *testing.T) {
	r := testutil.NewRepo(t)
	head := r.Commit("User1", "c1", map[string]string{
		"main.go":     "package main\n",
		"dir/a b.txt": "a\n",
	})

	repo, err := Open(r.Path("dir/a b.txt"))
	require.NoError(t, err)

	root, err := filepath.EvalSymlinks(r.Dir)
	require.NoError(t, err)
	assert.Equal(t, root, repo.Root)
	assert.Equal(t, filepath.Join(root, ".git"), repo.GitDir)

	rel, err := repo.RelPath(r.Path("dir/a b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "dir/a b.txt", rel)

	got, err := repo.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, head, got)

	files, err := repo.TrackedFiles()
	require.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{"dir/a b.txt", "main.go"}, files)

	_, err = repo.RelPath(t.TempDir())
	assert.True(t, errors.Is(err, ErrOutsideRepo), "got %v", err)
}

func TestOpenMissingPath(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Commit("User1", "c1", map[string]string{"main.go": "package main\n"})

	repo, err := Open(r.Path("gone/deleted.go"))
	require.NoError(t, err)
	rel, err := repo.RelPath(r.Path("gone/deleted.go"))
	require.NoError(t, err)
	assert.Equal(t, "gone/deleted.go", rel)
}

func TestOpenNotRepo(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.True(t, errors.Is(err, ErrNotRepo), "got %v", err)
}

func TestHeadCommitEmptyRepo(t *testing.T) {
	r := testutil.NewRepo(t)
	repo, err := Open(r.Dir)
	require.NoError(t, err)
	_, err = repo.HeadCommit()
	assert.Equal(t, ErrNoHead, err)
}

func TestIterDir(t *testing.T) {
	parent := t.TempDir()
	for _, d := range []string{"r1/.git", "r2/.git", "plain/sub"} {
		require.NoError(t, os.MkdirAll(filepath.Join(parent, d), 0777))
	}

	var got []string
	err := IterDir(parent, 1, func(repo string) error {
		got = append(got, filepath.Base(repo))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, got)

	got = nil
	err = IterDir(parent, 0, func(repo string) error {
		got = append(got, repo)
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)

	err = IterDir(filepath.Join(parent, "missing"), 1, func(string) error { return nil })
	assert.Error(t, err)
}

func TestIterDirDepth(t *testing.T) {
	parent := t.TempDir()
	for _, d := range []string{"a/r3/.git", "a/b/r4/.git", "r1/.git", "r1/nested/.git"} {
		require.NoError(t, os.MkdirAll(filepath.Join(parent, d), 0777))
	}

	var got []string
	err := IterDir(parent, 2, func(repo string) error {
		rel, err := filepath.Rel(parent, repo)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/r3", "r1"}, got)

	got = nil
	err = IterDir(filepath.Join(parent, "r1"), 5, func(repo string) error {
		got = append(got, filepath.Base(repo))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, got)
}

func TestIterDirCallbackError(t *testing.T) {
	parent := t.TempDir()
	for _, d := range []string{"r1/.git", "r2/.git"} {
		require.NoError(t, os.MkdirAll(filepath.Join(parent, d), 0777))
	}
	errStop := errors.New("stop")
	calls := 0
	err := IterDir(parent, 1, func(repo string) error {
		calls++
		return errStop
	})
	assert.Equal(t, errStop, err)
	assert.Equal(t, 1, calls)
}
