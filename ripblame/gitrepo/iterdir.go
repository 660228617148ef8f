package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
)

// IterDir calls cb for dir if it is a repository, otherwise for repositories found in
// subdirectories up to maxRecursion levels deep. Repositories are visited in lexical order
// and are not searched for nested repositories.
func IterDir(dir string, maxRecursion int, cb func(repo string) error) error {
	stat, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("can't stat passed dir, err: %v", err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("passed dir is a file, expecting a dir")
	}

	root := filepath.Clean(dir)
	return godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			containsDotGit, err := dirContainsDotGit(osPathname)
			if err != nil {
				return err
			}
			if containsDotGit {
				if err := cb(osPathname); err != nil {
					return err
				}
				return filepath.SkipDir
			}
			if depth(root, osPathname) >= maxRecursion {
				return filepath.SkipDir
			}
			return nil
		},
	})
}

// depth is 0 for root, 1 for its direct subdirectories and so on.
func depth(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// dirContainsDotGit accepts both a .git directory and a .git file used by worktrees.
func dirContainsDotGit(dir string) (bool, error) {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("can't check if dir contains .git, dir: %v err: %v", dir, err)
	}
	return true, nil
}
