package incblame

import (
	"fmt"
	"sort"
)

// Result is the parsed blame of one file. It is not modified after Parse returns and is safe
// for concurrent reads.
type Result struct {
	blocks  []Block
	commits map[string]*Commit
	// lines is the last line covered by blocks.
	lines int
}

func newResult(blocks []Block, commits map[string]*Commit, totalLines int, linesKnown bool) (*Result, error) {
	for i := 1; i < len(blocks); i++ {
		prev := blocks[i-1]
		cur := blocks[i]
		if cur.StartLine <= prev.EndLine() {
			return nil, &CoverageError{StartLine: cur.StartLine, Reason: fmt.Sprintf("overlaps block %v-%v", prev.StartLine, prev.EndLine())}
		}
		if cur.StartLine != prev.EndLine()+1 {
			return nil, &CoverageError{StartLine: prev.EndLine() + 1, Reason: fmt.Sprintf("no block for lines %v-%v", prev.EndLine()+1, cur.StartLine-1)}
		}
	}

	lastLine := 0
	if len(blocks) != 0 {
		lastLine = blocks[len(blocks)-1].EndLine()
	}

	if linesKnown {
		if len(blocks) != 0 && blocks[0].StartLine != 1 {
			return nil, &CoverageError{StartLine: 1, Reason: fmt.Sprintf("first block starts at line %v", blocks[0].StartLine)}
		}
		if lastLine != totalLines {
			return nil, &CoverageError{StartLine: lastLine + 1, Reason: fmt.Sprintf("blocks cover %v lines, file has %v", lastLine, totalLines)}
		}
	}

	s := &Result{}
	s.blocks = blocks
	s.commits = commits
	s.lines = lastLine
	return s, nil
}

// Blocks returns blocks sorted by StartLine. The returned slice is a copy.
func (s *Result) Blocks() []Block {
	res := make([]Block, len(s.blocks))
	copy(res, s.blocks)
	return res
}

// Commits returns every commit referenced by blocks, once per id, sorted by id.
func (s *Result) Commits() []*Commit {
	res := make([]*Commit, 0, len(s.commits))
	for _, c := range s.commits {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].id < res[j].id
	})
	return res
}

// Commit returns commit by id.
func (s *Result) Commit(id string) (*Commit, bool) {
	c, ok := s.commits[id]
	return c, ok
}

// Lines is the number of the last line covered by blocks.
func (s *Result) Lines() int {
	return s.lines
}

// LineOwner returns the block containing 1-based line.
func (s *Result) LineOwner(line int) (Block, bool) {
	if line < 1 || line > s.lines {
		return Block{}, false
	}
	i := sort.Search(len(s.blocks), func(i int) bool {
		return s.blocks[i].EndLine() >= line
	})
	if i == len(s.blocks) || !s.blocks[i].Contains(line) {
		return Block{}, false
	}
	return s.blocks[i], true
}

// Authors counts lines per author name.
func (s *Result) Authors() map[string]int {
	res := map[string]int{}
	for _, b := range s.blocks {
		res[b.Commit.author.Name] += b.LineCount
	}
	return res
}
