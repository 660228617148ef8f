// Package lineformat renders a parsed blame the way plain git blame prints it.
//
//	^b4dadc5 (User1                       2018-11-27 21:55:36 +0100    1) package main
package lineformat

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pinpt/ripblame/ripblame/gittime"
	"github.com/pinpt/ripblame/ripblame/incblame"
)

const (
	idWidth     = 8
	authorWidth = 27
)

// WithLength pads s with spaces or truncates it so it is exactly n characters long.
func WithLength(s string, n int) string {
	r := []rune(s)
	if len(r) >= n {
		return string(r[:n])
	}
	res := make([]rune, n)
	copy(res, r)
	for i := len(r); i < n; i++ {
		res[i] = ' '
	}
	return string(res)
}

// Line formats one source line owned by commit.
func Line(commit *incblame.Commit, lineNumber int, text string) string {
	id := commit.ID()
	if !commit.HasPrevious() {
		id = "^" + id
	}
	return fmt.Sprintf("%s (%s %s %4d) %s",
		WithLength(id, idWidth),
		WithLength(commit.Author().Name, authorWidth),
		gittime.FormatBlame(commit.AuthorDate()),
		lineNumber,
		text)
}

// LineCountError is returned when blame refers to a line missing from the source.
type LineCountError struct {
	Line   int
	Source int
}

func (e *LineCountError) Error() string {
	return fmt.Sprintf("blame refers to line %v, but source has %v lines", e.Line, e.Source)
}

// Lines formats every line covered by res, lines holds the source text of the blamed file.
func Lines(res *incblame.Result, lines []string) ([]string, error) {
	var out []string
	err := each(res, lines, func(s string) error {
		out = append(out, s)
		return nil
	})
	return out, err
}

// Write writes formatted lines to wr, one per source line.
func Write(wr io.Writer, res *incblame.Result, lines []string) error {
	bw := bufio.NewWriter(wr)
	err := each(res, lines, func(s string) error {
		_, err := bw.WriteString(s + "\n")
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

func each(res *incblame.Result, lines []string, cb func(string) error) error {
	for _, b := range res.Blocks() {
		for n := b.StartLine; n <= b.EndLine(); n++ {
			if n > len(lines) {
				return &LineCountError{Line: n, Source: len(lines)}
			}
			if err := cb(Line(b.Commit, n, lines[n-1])); err != nil {
				return err
			}
		}
	}
	return nil
}
