package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"go.uber.org/zap"

	"github.com/ytget/yt-frame-extractor/internal/config"
	"github.com/ytget/yt-frame-extractor/internal/logger"
	"github.com/ytget/yt-frame-extractor/internal/metrics"
	"github.com/ytget/yt-frame-extractor/internal/pipeline"
	"github.com/ytget/yt-frame-extractor/internal/platform"
	"github.com/ytget/yt-frame-extractor/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-frame-extractor"
	AppName = "YT Frame Extractor"

	// ConfigEnv points at an optional TOML config file
	ConfigEnv = "YTFRAMES_CONFIG"

	WindowWidth  = 600
	WindowHeight = 380
)

func main() {
	cfg, err := config.Load(os.Getenv(ConfigEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting", zap.String("app", AppName), zap.String("version", version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := platform.NewExecRunner()
	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, m, log); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	myWindow.SetFixedSize(true)

	settings := config.NewSettings(myApp, cfg)
	ui.NewRootUI(myWindow, settings, func(videoDir string) (ui.Runner, error) {
		return pipeline.NewFromConfig(cfg, videoDir, runner, m, log)
	}, log)

	go checkDependencies(ctx, myApp, myWindow, runner, cfg, log)

	myWindow.ShowAndRun()
}

// checkDependencies probes the external tools and quits after telling the
// user which one is missing.
func checkDependencies(ctx context.Context, a fyne.App, w fyne.Window, runner platform.Runner, cfg *config.Config, log *zap.Logger) {
	tools := platform.Tools{YTDLP: cfg.Tools.YTDLP, FFmpeg: cfg.Tools.FFmpeg, FFprobe: cfg.Tools.FFprobe}

	statuses, err := platform.CheckDependencies(ctx, runner, tools.Dependencies())
	for _, s := range statuses {
		if s.OK() {
			log.Debug("dependency found", zap.String("name", s.Name), zap.String("version", s.Version))
		}
	}
	if err == nil {
		return
	}

	log.Error("dependency check failed", zap.Error(err))
	missing, _ := platform.FirstMissing(statuses)

	fyne.Do(func() {
		d := dialog.NewError(errors.New(missing.Message()), w)
		d.SetOnClosed(a.Quit)
		d.Show()
	})
}
