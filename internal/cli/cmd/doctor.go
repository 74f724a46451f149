package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vidbatch/internal/config"
	"vidbatch/internal/dirs"
	"vidbatch/internal/util"
	"vidbatch/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (ffmpeg, ffprobe) and show file locations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := config.Load()
			out := cmd.OutOrStdout()

			ff, ferr := deps.FindFFmpeg(s.FFmpegPath)
			if ferr != nil {
				return &ExitError{Code: ExitMissingDep, Err: ferr}
			}
			fmt.Fprintf(out, "FFmpeg:    %s\n", ff)
			if v := toolVersion(cmd, ff); v != "" {
				fmt.Fprintf(out, "           %s\n", v)
			}

			if fp, err := deps.FindFFprobe(s.FFprobePath, ff); err == nil {
				fmt.Fprintf(out, "FFprobe:   %s\n", fp)
			} else {
				fmt.Fprintf(out, "FFprobe:   not found (metadata and progress percentages unavailable)\n")
			}

			cfg := viper.ConfigFileUsed()
			if cfg == "" {
				cfg = "none"
			}
			fmt.Fprintf(out, "Config:    %s\n", cfg)
			if p, err := dirs.HistoryDBPath(); err == nil {
				fmt.Fprintf(out, "History:   %s\n", p)
			}
			if p, err := dirs.LogFilePath(); err == nil {
				fmt.Fprintf(out, "Log file:  %s\n", p)
			}
			return nil
		},
	}
}

// toolVersion returns the first line of `<path> -version`, or "".
func toolVersion(cmd *cobra.Command, path string) string {
	res, err := util.Run(cmd.Context(), util.CmdSpec{
		Path: path,
		Args: []string{"-hide_banner", "-version"},
	})
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(res.Stdout)), "\n")
	return line
}
