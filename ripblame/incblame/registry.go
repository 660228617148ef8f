package incblame

import (
	"errors"
	"time"

	"github.com/pinpt/ripblame/ripblame/gittime"
)

const (
	tagAuthor        = "author"
	tagAuthorMail    = "author-mail"
	tagAuthorTime    = "author-time"
	tagAuthorTZ      = "author-tz"
	tagCommitter     = "committer"
	tagCommitterMail = "committer-mail"
	tagCommitterTime = "committer-time"
	tagCommitterTZ   = "committer-tz"
	tagSummary       = "summary"
	tagPrevious      = "previous"
	tagBoundary      = "boundary"
	tagFilename      = "filename"
)

// requiredTags are checked in this order, the first missing one is reported.
var requiredTags = []string{
	tagAuthor,
	tagAuthorMail,
	tagAuthorTime,
	tagAuthorTZ,
	tagCommitter,
	tagCommitterMail,
	tagCommitterTime,
	tagCommitterTZ,
	tagSummary,
}

// registry creates each commit once, from the first block that references it.
type registry struct {
	commits map[string]*Commit
}

func newRegistry() *registry {
	s := &registry{}
	s.commits = map[string]*Commit{}
	return s
}

// getOrCreate returns the existing commit for id ignoring tags, or builds one from tags.
// headerLine is only used for error context.
func (s *registry) getOrCreate(id string, tags tagSet, headerLine int) (*Commit, error) {
	if c, ok := s.commits[id]; ok {
		return c, nil
	}
	c, err := newCommit(id, tags, headerLine)
	if err != nil {
		return nil, err
	}
	s.commits[id] = c
	return c, nil
}

func newCommit(id string, tags tagSet, headerLine int) (*Commit, error) {
	if missing := tags.firstMissing(requiredTags); missing != "" {
		return nil, &MissingFieldError{Line: headerLine, CommitID: id, Field: missing}
	}

	c := &Commit{}
	c.id = id
	c.author = newPerson(tags.get(tagAuthor), tags.get(tagAuthorMail))
	c.committer = newPerson(tags.get(tagCommitter), tags.get(tagCommitterMail))
	c.summary = tags.get(tagSummary)

	var err error
	c.authorDate, err = commitTime(id, tags, tagAuthorTime, tagAuthorTZ)
	if err != nil {
		return nil, err
	}
	c.committerDate, err = commitTime(id, tags, tagCommitterTime, tagCommitterTZ)
	if err != nil {
		return nil, err
	}

	if prev, ok := tags.lookup(tagPrevious); ok {
		c.hasPrevious = true
		c.previousCommitID, c.previousFileName = splitOnSpace(prev)
	}
	_, c.boundary = tags.lookup(tagBoundary)

	return c, nil
}

func commitTime(id string, tags tagSet, timeTag, zoneTag string) (time.Time, error) {
	sec := tags.get(timeTag)
	zone := tags.get(zoneTag)
	t, err := gittime.ParseUnix(sec, zone)
	if err != nil {
		if errors.Is(err, gittime.ErrInvalidZone) {
			return time.Time{}, &MalformedTimestampError{CommitID: id, Field: zoneTag, Value: zone, Err: err}
		}
		return time.Time{}, &MalformedTimestampError{CommitID: id, Field: timeTag, Value: sec, Err: err}
	}
	return t, nil
}
