package incblame

import (
	"bufio"
	"errors"
	"fmt"
)

// ErrParse matches every error returned for input that does not follow the incremental format.
//	if errors.Is(err, incblame.ErrParse) { ... }
var ErrParse = errors.New("invalid incremental blame output")

// MalformedHeaderError is returned when a block header is not "<commit> <orig> <start> <count>".
type MalformedHeaderError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed block header on line %v %q: %v", e.Line, e.Text, e.Reason)
}

func (e *MalformedHeaderError) Is(target error) bool { return target == ErrParse }

// TruncatedInputError is returned when input ends before the filename tag of a block.
type TruncatedInputError struct {
	Line     int
	CommitID string
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("input ended before filename tag of block for commit %v starting on line %v", e.CommitID, e.Line)
}

func (e *TruncatedInputError) Is(target error) bool { return target == ErrParse }

// MissingFieldError is returned when the first block of a commit lacks a required tag.
type MissingFieldError struct {
	Line     int
	CommitID string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("commit %v first seen in block on line %v is missing required tag %q", e.CommitID, e.Line, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrParse }

// MalformedTimestampError is returned when a time or zone tag can't be converted.
type MalformedTimestampError struct {
	CommitID string
	Field    string
	Value    string
	Err      error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("commit %v has malformed %v %q: %v", e.CommitID, e.Field, e.Value, e.Err)
}

func (e *MalformedTimestampError) Is(target error) bool { return target == ErrParse }

func (e *MalformedTimestampError) Unwrap() error { return e.Err }

// DuplicateBlockStartError is returned when two blocks claim the same start line.
type DuplicateBlockStartError struct {
	Line      int
	StartLine int
}

func (e *DuplicateBlockStartError) Error() string {
	return fmt.Sprintf("block on line %v starts at line %v which already belongs to another block", e.Line, e.StartLine)
}

func (e *DuplicateBlockStartError) Is(target error) bool { return target == ErrParse }

// CoverageError is returned when blocks overlap, leave gaps or do not match the expected line count.
type CoverageError struct {
	StartLine int
	Reason    string
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("blocks do not partition file at line %v: %v", e.StartLine, e.Reason)
}

func (e *CoverageError) Is(target error) bool { return target == ErrParse }

// LineTooLongError is returned when a line of input is longer than Max bytes.
type LineTooLongError struct {
	Line int
	Max  int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line %v is longer than %v bytes", e.Line, e.Max)
}

func (e *LineTooLongError) Is(target error) bool { return target == ErrParse }

func (e *LineTooLongError) Unwrap() error { return bufio.ErrTooLong }
