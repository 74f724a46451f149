package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidbatch/internal/config"
	"vidbatch/internal/probe"
	"vidbatch/internal/util/deps"
)

var errNoProbe = errors.New("ffprobe not found; install ffmpeg or pass --ffprobe")

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "probe [files or folders...]",
		Short:         "Show resolution, codecs, bitrates and duration of video files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := config.Load()
			inputs, err := scanInputs(args)
			if err != nil {
				return err
			}

			// ffmpeg only helps locate a sibling ffprobe here.
			ffmpegPath, _ := deps.FindFFmpeg(s.FFmpegPath)
			p := probe.New(s.FFprobePath, ffmpegPath, probe.WithTimeout(s.ProbeTimeout))
			if !p.Available() {
				return &ExitError{Code: ExitMissingDep, Err: errNoProbe}
			}

			out := cmd.OutOrStdout()
			for i, in := range inputs {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, in)
				fmt.Fprint(out, probe.Report(p.Probe(cmd.Context(), in)))
			}
			return nil
		},
	}
}
