package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pinpt/ripblame/ripblame/cmd/cmdutils"
	"github.com/pinpt/ripblame/ripblame/fileinfo"
	"github.com/pinpt/ripblame/ripblame/gitrepo"
	"github.com/pinpt/ripblame/ripblame/ripcmd"
	"github.com/spf13/cobra"
)

var validateIncBlameCmd = &cobra.Command{
	Use:           "validate_inc_blame <repodirs...>",
	Short:         "Checks incremental blame against porcelain blame for all files at HEAD",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := optsFromFlags(cmd)
		if err != nil {
			return err
		}
		onEnd, err := startDiagnostics(cmd)
		if err != nil {
			return err
		}
		defer onEnd()

		ctx := context.Background()
		out := color.Output
		var failed []error
		for _, dir := range args {
			err := gitrepo.IterDir(dir, 1, func(repoDir string) error {
				err := cmdutils.RunOnRepo(out, repoDir, func(repo *gitrepo.Repo) error {
					failed = append(failed, validateRepo(ctx, repo, base)...)
					return nil
				})
				if err != nil && !errors.Is(err, gitrepo.ErrNoHead) {
					failed = append(failed, err)
				}
				return nil
			})
			if err != nil {
				return &ripcmd.UsageError{Msg: err.Error()}
			}
		}
		if len(failed) != 0 {
			cmdutils.PrintErrs(color.Error, failed)
			return fmt.Errorf("validation failed")
		}
		fmt.Fprintln(out, color.GreenString("SUCCESS"))
		return nil
	},
}

func validateRepo(ctx context.Context, repo *gitrepo.Repo, base ripcmd.Opts) (errs []error) {
	files, err := repo.TrackedFiles()
	if err != nil {
		return []error{err}
	}
	for _, f := range files {
		loc := filepath.Join(repo.Root, filepath.FromSlash(f))
		content, err := ioutil.ReadFile(loc)
		if err != nil {
			if os.IsNotExist(err) {
				// deleted in working tree
				continue
			}
			errs = append(errs, err)
			continue
		}
		if info := fileinfo.GetInfo(f, content, true); info.SkipReason != "" {
			base.Logger.Debug("skipping file", "file", f, "reason", info.SkipReason)
			continue
		}
		opts := base
		opts.File = loc
		if err := ripcmd.Validate(ctx, opts); err != nil {
			errs = append(errs, err)
			continue
		}
		base.Logger.Debug("validated", "file", f)
	}
	return
}

func RegisterIncBlame() {
	cmd := validateIncBlameCmd
	addCommonFlags(cmd)
	rootCmd.AddCommand(cmd)
}
