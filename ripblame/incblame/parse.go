package incblame

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// Parse parses the complete output of
//	git blame --incremental <file>
// Lines are only checked to be contiguous between neighbouring blocks. Use ParseWithLines when
// the number of lines of the blamed file is known.
func Parse(data []byte) (*Result, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseWithLines is like Parse, but also requires blocks to cover lines 1..totalLines exactly.
func ParseWithLines(data []byte, totalLines int) (*Result, error) {
	if totalLines < 0 {
		return nil, fmt.Errorf("invalid total line count %v", totalLines)
	}
	return parse(bytes.NewReader(data), totalLines, true)
}

// ParseReader reads r until EOF and parses it as incremental blame output.
func ParseReader(r io.Reader) (*Result, error) {
	return parse(r, 0, false)
}

func parse(r io.Reader, totalLines int, linesKnown bool) (*Result, error) {
	p := newParser(r)
	if err := p.run(); err != nil {
		return nil, err
	}
	return newResult(p.blocks, p.registry.commits, totalLines, linesKnown)
}

type state int

const (
	stExpectHeader state = iota
	stReadingTags
	stDone
)

type parser struct {
	lines    *lineReader
	state    state
	registry *registry

	header     header
	headerLine int

	blocks []Block
}

func newParser(r io.Reader) *parser {
	p := &parser{}
	p.lines = newLineReader(r)
	p.registry = newRegistry()
	p.state = stExpectHeader
	return p
}

func (p *parser) run() error {
	for p.state != stDone {
		var err error
		switch p.state {
		case stExpectHeader:
			err = p.expectHeader()
		case stReadingTags:
			err = p.readingTags()
		default:
			panic("invalid state")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) expectHeader() error {
	line, ok := p.lines.next()
	if !ok {
		if err := p.lines.err(); err != nil {
			return fmt.Errorf("could not read blame output: %w", err)
		}
		p.state = stDone
		return nil
	}
	h, reason := parseHeader(line)
	if reason != "" {
		return &MalformedHeaderError{Line: p.lines.n, Text: line, Reason: reason}
	}
	p.header = h
	p.headerLine = p.lines.n
	p.state = stReadingTags
	return nil
}

func (p *parser) readingTags() error {
	tags, err := p.readTags()
	if err != nil {
		return err
	}
	h := p.header
	commit, err := p.registry.getOrCreate(h.CommitID, tags, p.headerLine)
	if err != nil {
		return err
	}
	b := Block{
		StartLine:         h.StartLine,
		LineCount:         h.LineCount,
		Commit:            commit,
		FileName:          tags.get(tagFilename),
		OriginalStartLine: h.OriginalStartLine,
	}
	if err := p.insert(b); err != nil {
		return err
	}
	p.state = stExpectHeader
	return nil
}

// readTags consumes tag lines up to and including the filename tag.
func (p *parser) readTags() (tagSet, error) {
	tags := newTagSet()
	for {
		line, ok := p.lines.next()
		if !ok {
			if err := p.lines.err(); err != nil {
				return tags, fmt.Errorf("could not read blame output: %w", err)
			}
			return tags, &TruncatedInputError{Line: p.headerLine, CommitID: p.header.CommitID}
		}
		k, v := splitOnSpace(line)
		tags.set(k, v)
		if k == tagFilename {
			return tags, nil
		}
	}
}

// insert keeps blocks sorted by StartLine.
func (p *parser) insert(b Block) error {
	i := sort.Search(len(p.blocks), func(i int) bool {
		return p.blocks[i].StartLine >= b.StartLine
	})
	if i < len(p.blocks) && p.blocks[i].StartLine == b.StartLine {
		return &DuplicateBlockStartError{Line: p.headerLine, StartLine: b.StartLine}
	}
	p.blocks = append(p.blocks, Block{})
	copy(p.blocks[i+1:], p.blocks[i:])
	p.blocks[i] = b
	return nil
}
