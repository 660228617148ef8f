package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pinpt/ripblame/ripblame/cmd/cmdutils"
	"github.com/pinpt/ripblame/ripblame/pkg/logger"
	"github.com/pinpt/ripblame/ripblame/ripcmd"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "ripblame <file>",
	Args:          cobra.ArbitraryArgs,
	Short:         "Shows who last changed each line of a file, using git blame --incremental",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return &ripcmd.UsageError{Msg: "Usage: ripblame <file>"}
		}
		opts, err := optsFromFlags(cmd)
		if err != nil {
			return err
		}
		opts.File = args[0]

		onEnd, err := startDiagnostics(cmd)
		if err != nil {
			return err
		}
		defer onEnd()

		return ripcmd.Run(context.Background(), cmd.OutOrStdout(), opts)
	},
}

func optsFromFlags(cmd *cobra.Command) (opts ripcmd.Opts, _ error) {
	flags := cmd.Flags()
	opts.Format, _ = flags.GetString("format")
	opts.Git, _ = flags.GetString("git")
	opts.Rev, _ = flags.GetString("rev")
	opts.Cache, _ = flags.GetBool("cache")
	opts.Timeout, _ = flags.GetDuration("timeout")
	if opts.Timeout < 0 {
		return opts, &ripcmd.UsageError{Msg: fmt.Sprintf("invalid timeout: %v", opts.Timeout)}
	}
	debug, _ := flags.GetBool("debug")
	opts.Logger = logger.NewLevelLogger(os.Stderr, debug)
	return opts, nil
}

// startDiagnostics enables profiling and memory logs when requested. They are written to stderr.
func startDiagnostics(cmd *cobra.Command) (onEnd func(), _ error) {
	var ends []func()
	onEnd = func() {
		for i := len(ends) - 1; i >= 0; i-- {
			ends[i]()
		}
	}
	p, _ := cmd.Flags().GetString("profile")
	if p != "" {
		end, err := cmdutils.EnableProfiling(p, os.Stderr)
		if err != nil {
			return nil, &ripcmd.UsageError{Msg: err.Error()}
		}
		ends = append(ends, end)
	}
	memLogs, _ := cmd.Flags().GetBool("mem-logs")
	if memLogs {
		ends = append(ends, cmdutils.StartMemLogs(color.Error, time.Second))
	}
	return onEnd, nil
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("git", "", "path to git executable, defaults to $RIPBLAME_GIT or git on PATH")
	cmd.Flags().String("rev", "", "blame the file as of this revision instead of the working tree")
	cmd.Flags().Duration("timeout", 0, "stop git blame after this duration, 0 to disable")
	cmd.Flags().Bool("debug", false, "print debug logs to stderr")
	cmd.Flags().String("profile", "", "one of mem, mutex, cpu, block, trace or empty to disable")
	cmd.Flags().Bool("mem-logs", false, "print memory usage every second to stderr")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(execute(os.Args[1:], color.Error))
}

func execute(args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		cmdutils.PrintErr(stderr, err)
		return cmdutils.ExitCode(err)
	}
	return 0
}

func init() {
	rootCmd.Flags().String("format", ripcmd.FormatText, "output format, one of text, json or yaml")
	rootCmd.Flags().Bool("cache", false, "reuse git blame output cached in the repository")
	addCommonFlags(rootCmd)
	RegisterIncBlame()
}
