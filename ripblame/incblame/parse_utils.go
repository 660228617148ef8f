package incblame

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxLine is the longest line accepted from blame output. Summaries and paths can be long.
const maxLine = 1024 * 1024

// maxLineNumber bounds line numbers in headers, so that the end line of a block fits in int32.
const maxLineNumber = math.MaxInt32

// tagSet holds the tag lines of one block, validated when a commit is created from it.
type tagSet struct {
	values map[string]string
}

func newTagSet() tagSet {
	return tagSet{values: map[string]string{}}
}

func (s tagSet) set(key, value string) {
	s.values[key] = value
}

func (s tagSet) get(key string) string {
	return s.values[key]
}

func (s tagSet) lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s tagSet) firstMissing(keys []string) string {
	for _, k := range keys {
		if _, ok := s.values[k]; !ok {
			return k
		}
	}
	return ""
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// splitOnSpace splits at the first run of spaces or tabs. The rest of the line is returned as is.
//	"previous abc main.go" -> "previous", "abc main.go"
func splitOnSpace(line string) (key string, value string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	j := i
	for j < len(line) && isSpace(line[j]) {
		j++
	}
	return line[:i], line[j:]
}

type header struct {
	CommitID          string
	OriginalStartLine int
	StartLine         int
	LineCount         int
}

// parseHeader parses "<commit> <orig line> <start line> <line count>".
// Returned error string is the reason for MalformedHeaderError.
func parseHeader(line string) (res header, reason string) {
	parts := strings.Fields(line)
	if len(parts) != 4 {
		return res, "expected 4 fields, got " + strconv.Itoa(len(parts))
	}
	res.CommitID = parts[0]
	nums := []struct {
		name string
		dst  *int
	}{
		{"original start line", &res.OriginalStartLine},
		{"start line", &res.StartLine},
		{"line count", &res.LineCount},
	}
	for i, n := range nums {
		v, err := strconv.Atoi(parts[i+1])
		if err != nil || v < 0 {
			return res, n.name + " is not a non-negative integer: " + parts[i+1]
		}
		if v == 0 {
			return res, n.name + " must be at least 1"
		}
		*n.dst = v
	}
	if res.StartLine > maxLineNumber-res.LineCount+1 {
		return res, "start line plus line count is out of range"
	}
	if res.OriginalStartLine > maxLineNumber-res.LineCount+1 {
		return res, "original start line plus line count is out of range"
	}
	return res, ""
}

// lineReader reads lines and remembers the 1-based number of the last line returned.
type lineReader struct {
	scanner *bufio.Scanner
	n       int
}

func newLineReader(r io.Reader) *lineReader {
	s := &lineReader{}
	s.scanner = bufio.NewScanner(r)
	s.scanner.Buffer(nil, maxLine)
	return s
}

// next returns false at end of input or on read error, check err afterwards.
func (s *lineReader) next() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	s.n++
	return strings.TrimSuffix(s.scanner.Text(), "\r"), true
}

// err returns LineTooLongError for lines over maxLine, other errors come from the underlying reader.
func (s *lineReader) err() error {
	err := s.scanner.Err()
	if err == bufio.ErrTooLong {
		return &LineTooLongError{Line: s.n + 1, Max: maxLine}
	}
	return err
}
