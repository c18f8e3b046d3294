package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-frame-extractor/internal/platform"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify yt-dlp, ffmpeg and ffprobe are installed",
	Args:  cobra.NoArgs,
	RunE:  runCheckCmd,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tools := platform.Tools{YTDLP: cfg.Tools.YTDLP, FFmpeg: cfg.Tools.FFmpeg, FFprobe: cfg.Tools.FFprobe}

	statuses, err := platform.CheckDependencies(cmd.Context(), platform.NewExecRunner(), tools.Dependencies())
	printStatuses(cmd.OutOrStdout(), statuses)
	return err
}

func printStatuses(w io.Writer, statuses []platform.DependencyStatus) {
	for _, s := range statuses {
		if s.OK() {
			fmt.Fprintf(w, "  ok       %-8s %s\n", s.Name, s.Version)
			continue
		}
		fmt.Fprintf(w, "  missing  %-8s %s\n", s.Name, s.Message())
	}
}
