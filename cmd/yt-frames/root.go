package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-frame-extractor/internal/config"
	"github.com/ytget/yt-frame-extractor/internal/logger"
)

var version = "dev"

var (
	configPath  string
	logLevel    string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "yt-frames",
	Short: "Extract enhanced frames from YouTube videos",
	Long: `yt-frames downloads a YouTube video with yt-dlp, samples frames evenly
across it and writes contrast enhanced, denoised JPEGs next to the video.

Requires yt-dlp, ffmpeg and ffprobe on PATH (see 'yt-frames check').`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("YTFRAMES_CONFIG"), "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("yt-frames {{.Version}}\n")
}

// loadConfig applies the persistent flags on top of the file and environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}
