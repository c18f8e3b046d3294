package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-frame-extractor/internal/metrics"
	"github.com/ytget/yt-frame-extractor/internal/model"
	"github.com/ytget/yt-frame-extractor/internal/pipeline"
	"github.com/ytget/yt-frame-extractor/internal/platform"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Download a video and extract enhanced frames",
	Long: `Download a YouTube video (or reuse an earlier download) and write
evenly spaced, enhanced frames as JPEGs into <out>/extracted_frames/<title>.

Examples:
  yt-frames extract https://youtu.be/dQw4w9WgXcQ
  yt-frames extract --frames 50 --out ~/Videos https://youtu.be/dQw4w9WgXcQ`,
	Args: cobra.ExactArgs(1),
	RunE: runExtractCmd,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().IntP("frames", "n", 0, "Number of frames to extract (default from config)")
	extractCmd.Flags().StringP("out", "o", "", "Directory for downloads and frames (default from config)")
	extractCmd.Flags().Bool("no-open", false, "Do not open the frames folder when done")
}

// runner is the part of the pipeline the command drives
type runner interface {
	Run(ctx context.Context, req pipeline.Request, events chan<- pipeline.Event) (*model.ExtractionTask, error)
}

func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	frameCount, _ := cmd.Flags().GetInt("frames")
	if frameCount == 0 {
		frameCount = cfg.Extract.Frames
	}
	outDir, _ := cmd.Flags().GetString("out")
	noOpen, _ := cmd.Flags().GetBool("no-open")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, m, log); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	p, err := pipeline.NewFromConfig(cfg, outDir, platform.NewExecRunner(), m, log)
	if err != nil {
		return err
	}

	task, err := extract(ctx, p, pipeline.Request{URL: args[0], Frames: frameCount}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if !noOpen {
		if err := platform.OpenFolder(task.OutputDir); err != nil {
			log.Warn("open folder failed", zap.String("dir", task.OutputDir), zap.Error(err))
		}
	}
	return nil
}

// extract drives one run and renders its events to the terminal
func extract(ctx context.Context, r runner, req pipeline.Request, out, errOut io.Writer) (*model.ExtractionTask, error) {
	events := make(chan pipeline.Event, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		render(events, out, errOut)
	}()

	task, err := r.Run(ctx, req, events)
	close(events)
	<-done

	if err != nil {
		return task, err
	}
	fmt.Fprintf(out, "%s\n%s\n", task.Summary(), task.OutputDir)
	return task, nil
}

func render(events <-chan pipeline.Event, out, errOut io.Writer) {
	var bar *progressbar.ProgressBar

	for ev := range events {
		switch ev.Kind {
		case pipeline.EventState:
			if line := stateLine(ev); line != "" {
				fmt.Fprintln(out, line)
			}
		case pipeline.EventWarning:
			fmt.Fprintf(errOut, "warning: %s\n", ev.Message)
		case pipeline.EventProgress:
			if ev.Frame == nil {
				bar = newBar(out, ev.Total)
				continue
			}
			if bar != nil {
				_ = bar.Set(ev.Done)
			}
			if ev.Frame.Err != nil {
				fmt.Fprintf(errOut, "\nframe %d %s: %v\n", ev.Frame.Index, ev.Frame.Outcome, ev.Frame.Err)
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(out)
	}
}

func newBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func stateLine(ev pipeline.Event) string {
	switch ev.State {
	case model.RunStateResolvingTitle:
		return "Getting video info..."
	case model.RunStateDownloading:
		return fmt.Sprintf("Downloading %q...", ev.Title)
	case model.RunStateExtracting:
		return "Extracting frames..."
	case model.RunStateFailed:
		return "Failed: " + ev.Message
	default:
		return ""
	}
}
