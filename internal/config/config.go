// Package config loads process configuration (defaults, optional TOML file,
// environment overrides) and the desktop preferences layered on top of it.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "YTFRAMES_"

// Config is the root configuration structure.
type Config struct {
	Tools   ToolsConfig   `toml:"tools"   envPrefix:"TOOLS_"`
	Output  OutputConfig  `toml:"output"  envPrefix:"OUTPUT_"`
	Extract ExtractConfig `toml:"extract" envPrefix:"EXTRACT_"`
	Enhance EnhanceConfig `toml:"enhance" envPrefix:"ENHANCE_"`
	Log     LogConfig     `toml:"log"     envPrefix:"LOG_"`
	Metrics MetricsConfig `toml:"metrics" envPrefix:"METRICS_"`
}

// ToolsConfig names the external executables.
type ToolsConfig struct {
	YTDLP   string `toml:"yt_dlp"   env:"YT_DLP"`
	FFmpeg  string `toml:"ffmpeg"   env:"FFMPEG"`
	FFprobe string `toml:"ffprobe"  env:"FFPROBE"`
}

// OutputConfig controls where downloads and frames land.
type OutputConfig struct {
	VideoDir string `toml:"video_dir" env:"VIDEO_DIR"`
}

// ExtractConfig controls frame sampling and encoding.
type ExtractConfig struct {
	Frames      int `toml:"frames"       env:"FRAMES"`
	Workers     int `toml:"workers"      env:"WORKERS"`
	Width       int `toml:"width"        env:"WIDTH"`
	Height      int `toml:"height"       env:"HEIGHT"`
	JPEGQuality int `toml:"jpeg_quality" env:"JPEG_QUALITY"`
}

// EnhanceConfig tunes the frame enhancement filters.
type EnhanceConfig struct {
	ClipLimit      float64 `toml:"clip_limit"      env:"CLIP_LIMIT"`
	TileGrid       int     `toml:"tile_grid"       env:"TILE_GRID"`
	DenoiseH       float64 `toml:"denoise_h"       env:"DENOISE_H"`
	DenoiseHColor  float64 `toml:"denoise_h_color" env:"DENOISE_H_COLOR"`
	TemplateWindow int     `toml:"template_window" env:"TEMPLATE_WINDOW"`
	SearchWindow   int     `toml:"search_window"   env:"SEARCH_WINDOW"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `toml:"level"       env:"LEVEL"`
	Development bool   `toml:"development" env:"DEVELOPMENT"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `toml:"addr" env:"ADDR"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			YTDLP:   "yt-dlp",
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Output: OutputConfig{
			VideoDir: "downloaded_videos",
		},
		Extract: ExtractConfig{
			Frames:      10,
			Workers:     4,
			Width:       1920,
			Height:      1080,
			JPEGQuality: 95,
		},
		Enhance: EnhanceConfig{
			ClipLimit:      2.0,
			TileGrid:       8,
			DenoiseH:       10,
			DenoiseHColor:  10,
			TemplateWindow: 7,
			SearchWindow:   21,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if path
// is non-empty), then YTFRAMES_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	var problems []error

	if c.Tools.YTDLP == "" {
		problems = append(problems, errors.New("tools.yt_dlp is required"))
	}
	if c.Tools.FFmpeg == "" {
		problems = append(problems, errors.New("tools.ffmpeg is required"))
	}
	if c.Tools.FFprobe == "" {
		problems = append(problems, errors.New("tools.ffprobe is required"))
	}
	if c.Output.VideoDir == "" {
		problems = append(problems, errors.New("output.video_dir is required"))
	}
	if c.Extract.Frames <= 0 {
		problems = append(problems, fmt.Errorf("extract.frames must be positive, got %d", c.Extract.Frames))
	}
	if c.Extract.Workers <= 0 {
		problems = append(problems, fmt.Errorf("extract.workers must be positive, got %d", c.Extract.Workers))
	}
	if c.Extract.Width <= 0 || c.Extract.Height <= 0 {
		problems = append(problems, fmt.Errorf("extract frame size must be positive, got %dx%d", c.Extract.Width, c.Extract.Height))
	}
	if c.Extract.JPEGQuality < 1 || c.Extract.JPEGQuality > 100 {
		problems = append(problems, fmt.Errorf("extract.jpeg_quality must be within 1..100, got %d", c.Extract.JPEGQuality))
	}
	if c.Enhance.ClipLimit < 0 {
		problems = append(problems, fmt.Errorf("enhance.clip_limit must not be negative, got %v", c.Enhance.ClipLimit))
	}
	if c.Enhance.TileGrid <= 0 {
		problems = append(problems, fmt.Errorf("enhance.tile_grid must be positive, got %d", c.Enhance.TileGrid))
	}
	if c.Enhance.DenoiseH <= 0 || c.Enhance.DenoiseHColor <= 0 {
		problems = append(problems, errors.New("enhance denoise strengths must be positive"))
	}
	if c.Enhance.TemplateWindow <= 0 || c.Enhance.TemplateWindow%2 == 0 {
		problems = append(problems, fmt.Errorf("enhance.template_window must be odd and positive, got %d", c.Enhance.TemplateWindow))
	}
	if c.Enhance.SearchWindow <= 0 || c.Enhance.SearchWindow%2 == 0 {
		problems = append(problems, fmt.Errorf("enhance.search_window must be odd and positive, got %d", c.Enhance.SearchWindow))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
