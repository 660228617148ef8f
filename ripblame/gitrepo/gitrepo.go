// Package gitrepo locates the repository a blamed file belongs to.
package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

var (
	// ErrNotRepo is returned when no repository contains the path.
	ErrNotRepo = errors.New("not inside a git repository")
	// ErrNoHead is returned for repositories without commits.
	ErrNoHead = errors.New("repository has no commits")
	// ErrOutsideRepo is returned by RelPath for paths outside the working tree.
	ErrOutsideRepo = errors.New("path is outside of repository")
)

// Repo is a non-bare repository with a working tree.
type Repo struct {
	// Root is the absolute working tree directory with symlinks resolved.
	Root string
	// GitDir is the absolute location of repository data, usually Root/.git.
	GitDir string
	repo *git.Repository
}

// Open finds the repository containing path, which can be a file or a directory.
func Open(path string) (*Repo, error) {
	abs, err := absEval(path)
	if err != nil {
		return nil, err
	}
	r, err := git.PlainOpenWithOptions(existingDir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %v", ErrNotRepo, path)
		}
		return nil, fmt.Errorf("can't open repository for %v: %w", path, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository for %v has no working tree: %w", path, err)
	}
	root, err := absEval(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	gitDir := filepath.Join(root, ".git")
	if st, ok := r.Storer.(*filesystem.Storage); ok {
		gitDir, err = absEval(st.Filesystem().Root())
		if err != nil {
			return nil, err
		}
	}
	s := &Repo{}
	s.Root = root
	s.GitDir = gitDir
	s.repo = r
	return s, nil
}

// absEval resolves symlinks in the longest existing prefix of path. Missing trailing
// elements, like a file deleted from the working tree, are kept as they are.
func absEval(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("can't convert path to absolute, path: %v err: %v", path, err)
	}
	res, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return res, nil
	}
	parent := filepath.Dir(abs)
	if !os.IsNotExist(err) || parent == abs {
		return "", fmt.Errorf("can't resolve path: %v err: %w", path, err)
	}
	res, err = absEval(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(res, filepath.Base(abs)), nil
}

// existingDir returns the closest ancestor of path that exists, or path itself.
func existingDir(path string) string {
	for {
		_, err := os.Stat(path)
		if !os.IsNotExist(err) {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

// RelPath returns path relative to Root, with forward slashes as git expects.
func (s *Repo) RelPath(path string) (string, error) {
	abs, err := absEval(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(s.Root, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutsideRepo, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %v", ErrOutsideRepo, path)
	}
	return filepath.ToSlash(rel), nil
}

// HeadCommit returns the hash HEAD points to.
func (s *Repo) HeadCommit() (string, error) {
	ref, err := s.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", ErrNoHead
		}
		return "", err
	}
	return ref.Hash().String(), nil
}

// TrackedFiles lists regular files in the HEAD tree. Symlinks and submodules are excluded.
func (s *Repo) TrackedFiles() (res []string, _ error) {
	head, err := s.HeadCommit()
	if err != nil {
		return nil, err
	}
	commit, err := s.repo.CommitObject(plumbing.NewHash(head))
	if err != nil {
		return nil, fmt.Errorf("can't load head commit %v: %w", head, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("can't load tree of %v: %w", head, err)
	}
	err = tree.Files().ForEach(func(f *object.File) error {
		if f.Mode != filemode.Regular && f.Mode != filemode.Executable {
			return nil
		}
		res = append(res, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
