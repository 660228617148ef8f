package lineformat

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pinpt/ripblame/ripblame/incblame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLength(t *testing.T) {
	assert := assert.New(t)
	tt := []struct {
		in   string
		n    int
		want string
	}{
		{"ab", 5, "ab   "},
		{"abcdefg", 5, "abcde"},
		{"abcde", 5, "abcde"},
		{"", 3, "   "},
		{"żółw", 3, "żół"},
		{"żó", 3, "żó "},
	}
	for _, v := range tt {
		assert.Equal(v.want, WithLength(v.in, v.n), v.in)
	}
}

const c1 = "b4dadc54e312e976694161c2ac59ab76feb0c40d"
const c2 = "69ba50fff990c169f80de96674919033a0a9b66d"

const blame = c2 + ` 4 4 1
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
author A very long author name that will be cut
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

var source = []string{
	"package main",
	"",
	"func main() {",
	"	// do nothing",
	"}",
	"",
}

func parse(t *testing.T) *incblame.Result {
	t.Helper()
	res, err := incblame.ParseWithLines([]byte(blame), len(source))
	require.NoError(t, err)
	return res
}

func TestLines(t *testing.T) {
	got, err := Lines(parse(t), source)
	require.NoError(t, err)
	want := []string{
		"^b4dadc5 (A very long author name tha 2018-11-27 18:25:36 -0230    1) package main",
		"^b4dadc5 (A very long author name tha 2018-11-27 18:25:36 -0230    2) ",
		"^b4dadc5 (A very long author name tha 2018-11-27 18:25:36 -0230    3) func main() {",
		"69ba50ff (User2                       2018-11-27 21:56:11 +0100    4) 	// do nothing",
		"^b4dadc5 (A very long author name tha 2018-11-27 18:25:36 -0230    5) }",
		"^b4dadc5 (A very long author name tha 2018-11-27 18:25:36 -0230    6) ",
	}
	assert.Equal(t, want, got)
}

func TestWrite(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	require.NoError(t, Write(buf, parse(t), source))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasSuffix(lines[3], "   4) \t// do nothing"))
}

func TestLinesMissingSource(t *testing.T) {
	_, err := Lines(parse(t), source[:4])
	var lerr *LineCountError
	require.True(t, errors.As(err, &lerr), "got %v", err)
	assert.Equal(t, 5, lerr.Line)
	assert.Equal(t, 4, lerr.Source)
}
