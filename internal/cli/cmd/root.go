package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"vidbatch/internal/cli"
	"vidbatch/internal/config"
)

const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitMissingDep  = 2
	ExitScanError   = 3
	ExitEncodeError = 4
	ExitCancelled   = 130
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode reports err on w and returns the process exit code for it.
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if !errors.As(err, &ee) {
		fmt.Fprintln(w, err)
		return ExitCLIError
	}
	if ee.Err != nil {
		fmt.Fprintln(w, ee.Err)
	}
	return ee.Code
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vidbatch [files or folders...]",
		Short: "Batch video transcoder driving ffmpeg",
		Long: "vidbatch encodes a batch of video files with ffmpeg, one file at a time. " +
			"Folders are scanned recursively and their structure is kept under the output directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(cmd.Root()); err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("config: %w", err)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, args, false)
		},
	}

	// Shared by every subcommand; bound to viper keys in config.Init.
	cli.BindFlags(root.PersistentFlags())

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newProbeCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
