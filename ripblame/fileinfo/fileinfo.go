// Package fileinfo reads blamed files and decides which files can be blamed line by line.
package fileinfo

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/pinpt/ripblame/ripblame/gitexec"
	enry "gopkg.in/src-d/enry.v1"
)

const (
	SkipBinary   = "File is binary"
	SkipVendored = "File was a vendored file"
	SkipDotFile  = "File was a dot file"
)

// LineReader returns the lines of a file without line terminators.
type LineReader interface {
	ReadAllLines(ctx context.Context, path string) ([]string, error)
}

// Disk reads files from the working tree.
type Disk struct{}

func (Disk) ReadAllLines(ctx context.Context, path string) ([]string, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(b), nil
}

// GitRevision reads files as of Rev using git show. Paths are relative to Dir.
type GitRevision struct {
	Runner gitexec.Runner
	Git    string
	Dir    string
	Rev    string
}

func (s GitRevision) ReadAllLines(ctx context.Context, path string) ([]string, error) {
	args := []string{"show", s.Rev + ":" + path}
	res, err := s.Runner.Run(ctx, s.Git, args, s.Dir)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("git %v exited with code %v: %s", strings.Join(args, " "), res.ExitCode, bytes.TrimSpace(res.Stderr))
	}
	return SplitLines(res.Stdout), nil
}

// SplitLines splits on \n, dropping a trailing \r from each line. A final line terminator
// does not start a new line, same as git counts lines.
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	s := strings.TrimSuffix(string(content), "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

type Info struct {
	Language   string
	SkipReason string
}

// GetInfo detects language and whether blaming the file makes sense.
// Binary files are always skipped. Vendored and dot files only when skipGenerated is set.
func GetInfo(filePath string, content []byte, skipGenerated bool) (res Info) {
	if enry.IsBinary(content) {
		res.SkipReason = SkipBinary
		return
	}
	if skipGenerated {
		if enry.IsDotFile(filePath) {
			res.SkipReason = SkipDotFile
			return
		}
		if isVendored(filePath) {
			res.SkipReason = SkipVendored
			return
		}
	}
	res.Language = enry.GetLanguage(filePath, content)
	return
}

func isVendored(filePath string) bool {
	if enry.IsVendor(filePath) {
		// enry matches paths like src/com/foo/android/cache/DiskLruCache.java
		if strings.HasPrefix(filePath, "src/") {
			return false
		}
		return true
	}
	return false
}
