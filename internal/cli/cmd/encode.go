package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vidbatch/internal/cli"
	"vidbatch/internal/config"
	"vidbatch/internal/dirs"
	"vidbatch/internal/encoder"
	"vidbatch/internal/history"
	"vidbatch/internal/logging"
	"vidbatch/internal/model"
	"vidbatch/internal/pipeline"
	"vidbatch/internal/probe"
	"vidbatch/internal/scanner"
	"vidbatch/internal/ui"
	"vidbatch/internal/util"
	"vidbatch/internal/util/deps"
	"vidbatch/internal/util/format"
)

var (
	errNoVideos  = errors.New("no video files found")
	errCancelled = errors.New("batch cancelled")
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "encode [files or folders...]",
		Short:         "Encode files and folders (same as running vidbatch without a subcommand)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, args, false)
		},
	}
}

// toolchain is everything a batch needs once settings are resolved.
type toolchain struct {
	settings model.Settings
	outDir   string
	logger   hclog.Logger
	closeLog func() error
	prober   *probe.Client
	enc      *encoder.Encoder
	runner   *pipeline.Runner
}

// newToolchain resolves the encoder binaries and builds the runner. When
// logToFile is set, logs go to the state dir so they do not corrupt the TUI.
func newToolchain(s model.Settings, logToFile bool) (*toolchain, error) {
	if err := cli.Validate(s.Encode); err != nil {
		return nil, &ExitError{Code: ExitCLIError, Err: err}
	}

	t := &toolchain{settings: s}
	t.logger = logging.New(logging.Options{Verbose: s.Verbose})
	if logToFile {
		if p, err := dirs.LogFilePath(); err == nil {
			if l, closeFn, err := logging.NewFile(p, logging.Options{Verbose: s.Verbose}); err == nil {
				t.logger, t.closeLog = l, closeFn
			}
		}
	}

	outDir := s.OutDir
	if outDir == "" {
		d, err := dirs.DefaultOutputDir()
		if err != nil {
			t.Close()
			return nil, &ExitError{Code: ExitCLIError, Err: err}
		}
		outDir = d
	}
	t.outDir = filepath.Clean(outDir)

	ffmpegPath, err := deps.FindFFmpeg(s.FFmpegPath)
	if err != nil {
		t.Close()
		return nil, &ExitError{Code: ExitMissingDep, Err: err}
	}
	t.prober = probe.New(s.FFprobePath, ffmpegPath,
		probe.WithTimeout(s.ProbeTimeout),
		probe.WithLogger(t.logger.Named("probe")),
	)
	t.enc, err = encoder.New(ffmpegPath,
		encoder.WithProber(t.prober),
		encoder.WithLogger(t.logger.Named("encoder")),
	)
	if err != nil {
		t.Close()
		return nil, &ExitError{Code: ExitMissingDep, Err: err}
	}
	t.runner = pipeline.NewRunner(t.enc, pipeline.WithLogger(t.logger.Named("batch")))
	return t, nil
}

func (t *toolchain) Close() {
	if t.closeLog != nil {
		_ = t.closeLog()
	}
}

// batch assembles the run request for inputs, loading the overrides file and
// adding audio fallbacks for sources MP4 cannot carry.
func (t *toolchain) batch(ctx context.Context, inputs []string) (pipeline.Batch, error) {
	var overrides map[string]model.OptionsOverride
	if t.settings.OverridesFile != "" {
		o, err := pipeline.LoadOverrides(t.settings.OverridesFile)
		if err != nil {
			return pipeline.Batch{}, &ExitError{Code: ExitCLIError, Err: err}
		}
		overrides = o
	}
	overrides = pipeline.AudioOverrides(ctx, t.prober, inputs, t.settings.Encode, overrides,
		t.settings.FallbackAudioCodec, t.settings.FallbackAudioBitrate)

	return pipeline.Batch{
		Inputs:     inputs,
		OutputBase: t.outDir,
		Options:    t.settings.Encode,
		Overrides:  overrides,
	}, nil
}

// record stores a finished batch in the history database. Failures are logged only.
func (t *toolchain) record(id string, started time.Time, total int, results []model.EncodeResult) {
	if !t.settings.History {
		return
	}
	path, err := dirs.HistoryDBPath()
	if err != nil {
		t.logger.Warn("history disabled", "error", err)
		return
	}
	store, err := history.Open(path)
	if err != nil {
		t.logger.Warn("history disabled", "error", err)
		return
	}
	defer store.Close()

	run := history.NewRun(id, started, time.Now(), t.outDir, total, results)
	if err := store.Record(context.Background(), run); err != nil {
		t.logger.Warn("history not recorded", "run", id, "error", err)
	}
}

func runEncode(cmd *cobra.Command, args []string, planOnly bool) error {
	s := config.Load()
	cli.EnableCustomFromFlags(cmd.Flags(), &s.Encode)
	if planOnly {
		s.DryRun = true
	}

	inputs, err := scanInputs(args)
	if err != nil {
		return err
	}

	useTUI := !s.NoUI && !s.DryRun && isTerminal()
	t, err := newToolchain(s, useTUI)
	if err != nil {
		return err
	}
	defer t.Close()

	ctx := cmd.Context()
	b, err := t.batch(ctx, inputs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.DryRun {
		printPlan(out, t, b)
		return nil
	}

	if err := util.EnsureDir(t.outDir); err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
	}

	var h *pipeline.Handle
	if useTUI {
		rep := ui.NewReporter()
		b.Listener = rep
		h = t.runner.Start(ctx, b)
		if err := ui.Run(ctx, inputs, h, rep, s.Verbose); err != nil {
			t.logger.Error("ui stopped", "error", err)
		}
	} else {
		b.Listener = newPlainListener(out, s.Verbose)
		h = t.runner.Start(ctx, b)
	}

	results := h.Results()
	t.record(h.ID, h.StartedAt, len(inputs), results)

	sum := pipeline.Summarize(results, len(inputs))
	printSummary(out, results, sum)
	return exitFor(ctx, sum)
}

func scanInputs(args []string) ([]string, error) {
	inputs, err := scanner.ScanAll(args)
	if err != nil {
		return nil, &ExitError{Code: ExitScanError, Err: err}
	}
	if len(inputs) == 0 {
		return nil, &ExitError{Code: ExitScanError, Err: errNoVideos}
	}
	return inputs, nil
}

func exitFor(ctx context.Context, s pipeline.Summary) error {
	if s.Cancelled > 0 || ctx.Err() != nil {
		return &ExitError{Code: ExitCancelled, Err: errCancelled}
	}
	if !s.OK() {
		return &ExitError{Code: ExitEncodeError, Err: fmt.Errorf("%d of %d file(s) failed", s.Failed, s.Total)}
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printPlan outputs the commands a batch would run without executing them.
func printPlan(w io.Writer, t *toolchain, b pipeline.Batch) {
	jobs := t.runner.Plan(b)
	fmt.Fprintln(w, "Dry-run plan:")
	fmt.Fprintf(w, "- Encoder:        %s\n", t.enc.Path())
	probePath := t.prober.Path()
	if probePath == "" {
		probePath = model.NotAvailable
	}
	fmt.Fprintf(w, "- Probe:          %s\n", probePath)
	fmt.Fprintf(w, "- Output dir:     %s\n", b.OutputBase)
	fmt.Fprintf(w, "- Files:          %d\n", len(jobs))
	for i, job := range jobs {
		fmt.Fprintf(w, "\n[%d/%d] %s\n", i+1, len(jobs), job.InputPath)
		fmt.Fprintf(w, "  -> %s\n", job.OutputPath)
		fmt.Fprintf(w, "  $ %s\n", encoder.FormatCommand(t.enc.Command(job)))
	}
}

func printSummary(w io.Writer, results []model.EncodeResult, s pipeline.Summary) {
	fmt.Fprintln(w)
	for _, r := range results {
		switch {
		case r.Success:
			fmt.Fprintf(w, "Saved: %s (%s)\n", r.OutputPath, format.HumanizeBytes(util.FileSize(r.OutputPath)))
		case r.Cancelled():
			fmt.Fprintf(w, "Cancelled: %s\n", r.InputPath)
		default:
			fmt.Fprintf(w, "%s\n  %s\n", r.InputPath, r.Message)
		}
	}
	fmt.Fprintf(w, "\n%d succeeded, %d failed, %d cancelled, %d skipped (of %d)\n",
		s.Succeeded, s.Failed, s.Cancelled, s.Skipped, s.Total)
}
