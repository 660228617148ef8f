// Package ripcmd implements the ripblame command: it runs git blame --incremental for one file,
// parses the result and prints it.
package ripcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pinpt/ripblame/ripblame/fileinfo"
	"github.com/pinpt/ripblame/ripblame/gitexec"
	"github.com/pinpt/ripblame/ripblame/gitrepo"
	"github.com/pinpt/ripblame/ripblame/incblame"
	"github.com/pinpt/ripblame/ripblame/lineformat"
	"github.com/pinpt/ripblame/ripblame/pkg/logger"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Opts struct {
	// File is the path of the file to blame.
	File string

	// Format is one of text, json or yaml. Defaults to text.
	Format string

	// Git is the git binary. See gitexec.LookGit for defaults.
	Git string

	// Rev blames the file as of this revision instead of the working tree.
	Rev string

	// Cache reuses blame output stored in the repository when HEAD and file content did not change.
	Cache bool

	// Timeout limits the time git blame may run. Zero means no limit.
	Timeout time.Duration

	// Logger receives debug and progress messages. Defaults to discarding them.
	Logger logger.Logger

	// Runner executes git. Defaults to gitexec.ExecRunner.
	Runner gitexec.Runner
}

// Blame is a parsed blame together with the source lines it describes.
type Blame struct {
	// Path is relative to Root with forward slashes.
	Path     string
	Root     string
	Rev      string
	Language string
	Lines    []string
	Result   *incblame.Result
}

// Run blames opts.File and writes it to out in opts.Format.
func Run(ctx context.Context, out io.Writer, opts Opts) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	bl, err := Load(ctx, opts)
	if err != nil {
		return err
	}
	return Write(out, bl, opts.Format)
}

func validateFormat(format string) error {
	switch format {
	case "", FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return usageErrorf("unknown format %q, expecting one of %v, %v, %v", format, FormatText, FormatJSON, FormatYAML)
}

// Load runs git blame for opts.File and parses its output.
func Load(ctx context.Context, opts Opts) (*Blame, error) {
	start := time.Now()
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger(ioutil.Discard)
	}
	runner := opts.Runner
	if runner == nil {
		runner = gitexec.ExecRunner{}
	}

	if opts.File == "" {
		return nil, usageErrorf("Usage: ripblame <file>")
	}
	stat, err := os.Stat(opts.File)
	if (opts.Rev == "" && err != nil) || (err == nil && stat.IsDir()) {
		// with a revision the file only has to exist in that revision
		return nil, usageErrorf("file does not exist: %v", opts.File)
	}

	git, err := gitexec.LookGit(opts.Git)
	if err != nil {
		return nil, &UsageError{Msg: err.Error()}
	}

	repo, err := gitrepo.Open(filepath.Dir(opts.File))
	if err != nil {
		return nil, &UsageError{Msg: err.Error()}
	}
	rel, err := repo.RelPath(opts.File)
	if err != nil {
		return nil, &UsageError{Msg: err.Error()}
	}

	var src fileinfo.LineReader = fileinfo.Disk{}
	srcPath := opts.File
	if opts.Rev != "" {
		src = fileinfo.GitRevision{Runner: runner, Git: git, Dir: repo.Root, Rev: opts.Rev}
		srcPath = rel
	}
	lines, err := src.ReadAllLines(ctx, srcPath)
	if err != nil {
		return nil, fmt.Errorf("can't read %v: %w", srcPath, err)
	}
	content := strings.Join(lines, "\n")
	info := fileinfo.GetInfo(rel, []byte(content), false)
	if info.SkipReason != "" {
		return nil, usageErrorf("can't blame %v: %v", opts.File, info.SkipReason)
	}

	if opts.Cache {
		head, err := repo.HeadCommit()
		if err != nil && !errors.Is(err, gitrepo.ErrNoHead) {
			return nil, err
		}
		runner = &gitexec.CachedRunner{
			Runner: runner,
			Dir:    filepath.Join(repo.GitDir, gitexec.CacheDirName),
			Salt:   []byte(head + "\x00" + content),
			Logger: log,
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := []string{"blame", "--incremental"}
	if opts.Rev != "" {
		args = append(args, opts.Rev)
	}
	args = append(args, "--", rel)

	log.Debug("running git", "dir", repo.Root, "args", strings.Join(args, " "))
	res, err := runner.Run(ctx, git, args, repo.Root)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &ExternalProcessError{
			Command:  "git blame",
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(string(res.Stderr)),
		}
	}

	result, err := incblame.ParseWithLines(res.Stdout, len(lines))
	if err != nil {
		return nil, fmt.Errorf("can't parse git blame output for %v: %w", rel, err)
	}
	log.Debug("parsed blame", "file", rel, "blocks", len(result.Blocks()), "commits", len(result.Commits()), "took", time.Since(start))

	bl := &Blame{}
	bl.Path = rel
	bl.Root = repo.Root
	bl.Rev = opts.Rev
	bl.Language = info.Language
	bl.Lines = lines
	bl.Result = result
	return bl, nil
}

// Write renders bl in the given format.
func Write(out io.Writer, bl *Blame, format string) error {
	switch format {
	case "", FormatText:
		return lineformat.Write(out, bl.Result, bl.Lines)
	case FormatJSON:
		return writeJSON(out, newDocument(bl))
	case FormatYAML:
		return writeYAML(out, newDocument(bl))
	}
	return validateFormat(format)
}
