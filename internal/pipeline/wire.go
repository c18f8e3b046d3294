package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ytget/yt-frame-extractor/internal/config"
	"github.com/ytget/yt-frame-extractor/internal/download"
	"github.com/ytget/yt-frame-extractor/internal/enhance"
	"github.com/ytget/yt-frame-extractor/internal/frames"
	"github.com/ytget/yt-frame-extractor/internal/metrics"
	"github.com/ytget/yt-frame-extractor/internal/platform"
	"github.com/ytget/yt-frame-extractor/internal/video"
)

// EnhanceParams converts the config section into filter parameters
func EnhanceParams(cfg config.EnhanceConfig) enhance.Params {
	return enhance.Params{
		ClipLimit:      cfg.ClipLimit,
		TileGridX:      cfg.TileGrid,
		TileGridY:      cfg.TileGrid,
		DenoiseH:       cfg.DenoiseH,
		DenoiseHColor:  cfg.DenoiseHColor,
		TemplateWindow: cfg.TemplateWindow,
		SearchWindow:   cfg.SearchWindow,
	}
}

// NewFromConfig wires the production stages: yt-dlp downloads into videoDir,
// ffmpeg decoding and the enhancement filters.
func NewFromConfig(cfg *config.Config, videoDir string, runner platform.Runner, m *metrics.Metrics, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if videoDir == "" {
		videoDir = cfg.Output.VideoDir
	}

	enhancer, err := enhance.New(EnhanceParams(cfg.Enhance))
	if err != nil {
		return nil, fmt.Errorf("build enhancer: %w", err)
	}

	fetcher := download.NewService(runner, cfg.Tools.YTDLP, videoDir, log)
	opener := video.NewFFmpegOpener(runner, cfg.Tools.FFmpeg, cfg.Tools.FFprobe, log)
	extractor := frames.NewExtractor(opener, enhancer, frames.Options{
		Workers:     cfg.Extract.Workers,
		Width:       cfg.Extract.Width,
		Height:      cfg.Extract.Height,
		JPEGQuality: cfg.Extract.JPEGQuality,
	}, m, log)

	opts, params := extractor.Options(), enhancer.Params()
	log.Info("pipeline configured",
		zap.String("video_dir", videoDir),
		zap.Int("workers", opts.Workers),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("jpeg_quality", opts.JPEGQuality),
		zap.Float64("clip_limit", params.ClipLimit),
		zap.Float64("denoise_h", params.DenoiseH),
		zap.Float64("denoise_h_color", params.DenoiseHColor),
	)

	return New(fetcher, extractor, m, log), nil
}
