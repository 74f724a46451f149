package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"vidbatch/internal/cli"
	"vidbatch/internal/config"
	"vidbatch/internal/pipeline"
	"vidbatch/internal/util"
	"vidbatch/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "watch <folder>",
		Short:         "Encode new video files as they appear in a folder",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := config.Load()
			cli.EnableCustomFromFlags(cmd.Flags(), &s.Encode)
			if !util.IsDir(args[0]) {
				return &ExitError{Code: ExitScanError, Err: fmt.Errorf("not a directory: %s", args[0])}
			}
			debounce, _ := cmd.Flags().GetDuration("debounce")

			t, err := newToolchain(s, false)
			if err != nil {
				return err
			}
			defer t.Close()
			if err := util.EnsureDir(t.outDir); err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
			}

			w, err := watch.New(args[0],
				watch.WithDebounce(debounce),
				watch.WithIgnore(t.outDir),
				watch.WithLogger(t.logger.Named("watch")),
			)
			if err != nil {
				return &ExitError{Code: ExitScanError, Err: err}
			}
			defer w.Close()

			// Outputs land under <out>/<watched folder name>/..., whatever
			// subset of files a debounce window delivers.
			root, err := filepath.Abs(args[0])
			if err != nil {
				return &ExitError{Code: ExitScanError, Err: err}
			}
			inputBase := filepath.Dir(root)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (output: %s). Press Ctrl+C to stop.\n", args[0], t.outDir)

			return w.Run(cmd.Context(), func(ctx context.Context, files []string) {
				b, err := t.batch(ctx, files)
				if err != nil {
					t.logger.Error("batch skipped", "error", err)
					return
				}
				b.InputBase = inputBase
				b.Listener = newPlainListener(out, s.Verbose)
				h := t.runner.Start(ctx, b)
				results := h.Results()
				t.record(h.ID, h.StartedAt, len(files), results)
				printSummary(out, results, pipeline.Summarize(results, len(files)))
			})
		},
	}
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "How long a file must be quiet before it is encoded")
	return cmd
}
