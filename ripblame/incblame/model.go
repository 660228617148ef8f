package incblame

import (
	"strings"
	"time"
)

// Person is an author or committer.
type Person struct {
	Name  string
	Email string
}

// String returns "Name <email>".
func (p Person) String() string {
	return p.Name + " <" + p.Email + ">"
}

func newPerson(name string, mail string) Person {
	return Person{Name: name, Email: unwrapEmail(mail)}
}

// unwrapEmail removes angle brackets from "<user@example.com>". Values without both brackets are kept.
func unwrapEmail(mail string) string {
	if len(mail) >= 2 && strings.HasPrefix(mail, "<") && strings.HasSuffix(mail, ">") {
		return mail[1 : len(mail)-1]
	}
	return mail
}

// Commit is the metadata of one commit referenced by blame output.
// Commits are created once per id while parsing and never change afterwards.
type Commit struct {
	id            string
	author        Person
	authorDate    time.Time
	committer     Person
	committerDate time.Time
	summary       string

	hasPrevious      bool
	previousCommitID string
	previousFileName string

	boundary bool
}

func (c *Commit) ID() string { return c.id }

func (c *Commit) Author() Person { return c.author }

// AuthorDate keeps the author's own zone offset.
func (c *Commit) AuthorDate() time.Time { return c.authorDate }

func (c *Commit) Committer() Person { return c.committer }

// CommitterDate keeps the committer's own zone offset.
func (c *Commit) CommitterDate() time.Time { return c.committerDate }

// Summary is the first line of the commit message.
func (c *Commit) Summary() string { return c.summary }

// Previous returns the commit and path this commit's lines came from.
// The previous commit is usually not part of the same Result.
func (c *Commit) Previous() (commitID string, fileName string, ok bool) {
	return c.previousCommitID, c.previousFileName, c.hasPrevious
}

// HasPrevious is false for root commits and for commits at the blame boundary.
func (c *Commit) HasPrevious() bool { return c.hasPrevious }

// Boundary is true when git marked the commit as the boundary of the blamed range.
func (c *Commit) Boundary() bool { return c.boundary }

// Block is a contiguous run of lines attributed to one commit.
type Block struct {
	// StartLine is 1-based line number in the blamed file.
	StartLine int
	LineCount int
	// Commit is shared by all blocks of the same commit in a Result.
	Commit *Commit
	// FileName is the path of the lines in Commit, differs from the blamed path after renames.
	FileName string
	// OriginalStartLine is 1-based line number in FileName at Commit.
	OriginalStartLine int
}

// EndLine is the last line of the block, inclusive.
func (b Block) EndLine() int {
	return b.StartLine + b.LineCount - 1
}

// Contains reports whether 1-based line belongs to the block.
func (b Block) Contains(line int) bool {
	return line >= b.StartLine && line <= b.EndLine()
}
