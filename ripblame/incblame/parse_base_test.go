package incblame

import (
	"strings"
	"testing"
)

const (
	c1 = "b4dadc54e312e976694161c2ac59ab76feb0c40d"
	c2 = "69ba50fff990c169f80de96674919033a0a9b66d"
)

// sampleOutput is git blame --incremental for a 6 line main.go where line 4 was changed by c2.
const sampleOutput = c2 + ` 4 4 1
author User2
author-mail <user2@example.com>
author-time 1543352171
author-tz +0100
committer User2
committer-mail <user2@example.com>
committer-time 1543352171
committer-tz +0100
summary c2
previous ` + c1 + ` main.go
filename main.go
` + c1 + ` 1 1 3
author User1
author-mail <user1@example.com>
author-time 1543352136
author-tz -0230
committer User1
committer-mail <user1@example.com>
committer-time 1543352136
committer-tz -0230
summary c1
boundary
filename main.go
` + c1 + ` 7 5 2
filename main.go
`

// fullTags returns a complete tag block for a commit, terminated by filename.
func fullTags(author string, summary string, filename string) string {
	return `author ` + author + `
author-mail <` + strings.ToLower(author) + `@example.com>
author-time 1000000000
author-tz +0000
committer ` + author + `
committer-mail <` + strings.ToLower(author) + `@example.com>
committer-time 1000000000
committer-tz +0000
summary ` + summary + `
filename ` + filename + `
`
}

func tparse(t *testing.T, data string) *Result {
	t.Helper()
	res, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return res
}

type blockSummary struct {
	StartLine         int
	LineCount         int
	CommitID          string
	FileName          string
	OriginalStartLine int
}

func summarize(blocks []Block) (res []blockSummary) {
	for _, b := range blocks {
		res = append(res, blockSummary{b.StartLine, b.LineCount, b.Commit.ID(), b.FileName, b.OriginalStartLine})
	}
	return
}

// assertPartition checks that blocks are sorted and cover 1..total without gaps or overlaps.
func assertPartition(t *testing.T, res *Result, total int) {
	t.Helper()
	next := 1
	for _, b := range res.Blocks() {
		if b.StartLine != next {
			t.Fatalf("block starts at %v, wanted %v", b.StartLine, next)
		}
		next = b.EndLine() + 1
	}
	if next-1 != total {
		t.Fatalf("blocks cover %v lines, wanted %v", next-1, total)
	}
}
