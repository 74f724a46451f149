package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"vidbatch/internal/dirs"
	"vidbatch/internal/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "history [run-id]",
		Short:         "List recent batches, or the files of one batch",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := dirs.HistoryDBPath()
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			store, err := history.Open(path)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: err}
				}
				printRun(out, run)
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			printRuns(out, runs)
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of batches to list")
	return cmd
}

func printRuns(w io.Writer, runs []history.BatchRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No batches recorded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tFILES\tOK\tFAILED\tCANCELLED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second), r.Total, r.Succeeded, r.Failed, r.Cancelled)
	}
	_ = tw.Flush()
}

func printRun(w io.Writer, r history.BatchRun) {
	fmt.Fprintf(w, "Run:      %s\n", r.ID)
	fmt.Fprintf(w, "Started:  %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Finished: %s\n", r.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Output:   %s\n\n", r.OutputBase)
	for _, f := range r.Files {
		mark := "✗"
		if f.Success {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %s\n", mark, f.InputPath)
		if f.OutputPath != "" {
			fmt.Fprintf(w, "    -> %s\n", f.OutputPath)
		}
		if !f.Success {
			fmt.Fprintf(w, "    %s\n", f.Message)
		}
	}
}
