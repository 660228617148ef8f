package ripcmd

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pinpt/ripblame/ripblame/incblame"
	"gopkg.in/yaml.v3"
)

// Document is the json and yaml representation of a blame.
type Document struct {
	File     string         `json:"file" yaml:"file"`
	Revision string         `json:"revision,omitempty" yaml:"revision,omitempty"`
	Language string         `json:"language,omitempty" yaml:"language,omitempty"`
	Lines    int            `json:"lines" yaml:"lines"`
	Authors  map[string]int `json:"authors" yaml:"authors"`
	Commits  []CommitDoc    `json:"commits" yaml:"commits"`
	Blocks   []BlockDoc     `json:"blocks" yaml:"blocks"`
}

type PersonDoc struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

type CommitDoc struct {
	ID               string    `json:"id" yaml:"id"`
	Author           PersonDoc `json:"author" yaml:"author"`
	AuthorDate       string    `json:"author_date" yaml:"author_date"`
	Committer        PersonDoc `json:"committer" yaml:"committer"`
	CommitterDate    string    `json:"committer_date" yaml:"committer_date"`
	Summary          string    `json:"summary" yaml:"summary"`
	PreviousCommitID string    `json:"previous_commit_id,omitempty" yaml:"previous_commit_id,omitempty"`
	PreviousFileName string    `json:"previous_file_name,omitempty" yaml:"previous_file_name,omitempty"`
	Boundary         bool      `json:"boundary,omitempty" yaml:"boundary,omitempty"`
}

type BlockDoc struct {
	StartLine         int    `json:"start_line" yaml:"start_line"`
	LineCount         int    `json:"line_count" yaml:"line_count"`
	OriginalStartLine int    `json:"original_start_line" yaml:"original_start_line"`
	FileName          string `json:"file_name" yaml:"file_name"`
	CommitID          string `json:"commit_id" yaml:"commit_id"`
}

func newDocument(bl *Blame) (res Document) {
	res.File = bl.Path
	res.Revision = bl.Rev
	res.Language = bl.Language
	res.Lines = len(bl.Lines)
	res.Authors = bl.Result.Authors()
	res.Commits = []CommitDoc{}
	for _, c := range bl.Result.Commits() {
		res.Commits = append(res.Commits, newCommitDoc(c))
	}
	res.Blocks = []BlockDoc{}
	for _, b := range bl.Result.Blocks() {
		res.Blocks = append(res.Blocks, BlockDoc{
			StartLine:         b.StartLine,
			LineCount:         b.LineCount,
			OriginalStartLine: b.OriginalStartLine,
			FileName:          b.FileName,
			CommitID:          b.Commit.ID(),
		})
	}
	return
}

func newCommitDoc(c *incblame.Commit) (res CommitDoc) {
	res.ID = c.ID()
	res.Author = PersonDoc(c.Author())
	res.AuthorDate = c.AuthorDate().Format(time.RFC3339)
	res.Committer = PersonDoc(c.Committer())
	res.CommitterDate = c.CommitterDate().Format(time.RFC3339)
	res.Summary = c.Summary()
	res.PreviousCommitID, res.PreviousFileName, _ = c.Previous()
	res.Boundary = c.Boundary()
	return
}

func writeJSON(out io.Writer, doc Document) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeYAML(out io.Writer, doc Document) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
