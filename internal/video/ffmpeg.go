package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/ytget/yt-frame-extractor/internal/errs"
	"github.com/ytget/yt-frame-extractor/internal/platform"
)

// FFmpeg constants for frame decoding
const (
	// Executable defaults
	FFmpegCommand  = "ffmpeg"
	FFprobeCommand = "ffprobe"

	// ffprobe settings
	FFprobeLogLevel     = "error"
	FFprobeStream       = "v:0"
	FFprobeShowEntries  = "stream=width,height,nb_frames,r_frame_rate,duration:format=duration"
	FFprobeOutputFormat = "json"

	// ffmpeg settings
	FFmpegLogLevel   = "error"
	FrameSelectExpr  = `select=eq(n\,%d)`
	FrameSyncMode    = "passthrough"
	FramePipeFormat  = "image2pipe"
	FramePipeCodec   = "bmp"
	FramePipeTarget  = "pipe:1"
	FramesPerCommand = "1"
)

// FFmpegOpener opens videos through ffprobe/ffmpeg
type FFmpegOpener struct {
	runner  platform.Runner
	ffmpeg  string
	ffprobe string
	log     *zap.Logger
}

// NewFFmpegOpener creates an opener using the given executables
func NewFFmpegOpener(runner platform.Runner, ffmpegPath, ffprobePath string, log *zap.Logger) *FFmpegOpener {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if ffprobePath == "" {
		ffprobePath = FFprobeCommand
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FFmpegOpener{
		runner:  runner,
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		log:     log.Named("video"),
	}
}

// Open probes the file and returns a source for it
func (o *FFmpegOpener) Open(ctx context.Context, path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrVideoOpen, err)
	}

	out, err := o.runner.Run(ctx, o.ffprobe, BuildProbeArgs(path)...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", errs.ErrVideoOpen, err)
	}

	info, err := ParseProbeOutput(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrVideoOpen, path, err)
	}

	o.log.Debug("video opened",
		zap.String("path", path),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Int("frames", info.FrameCount),
		zap.Float64("fps", info.FPS),
	)

	return &ffmpegSource{opener: o, path: path, info: info}, nil
}

// ffmpegSource decodes one frame per ffmpeg invocation
type ffmpegSource struct {
	opener *FFmpegOpener
	path   string
	info   Info
}

func (s *ffmpegSource) Info() Info {
	return s.info
}

// ReadFrame decodes the frame at the zero-based index
func (s *ffmpegSource) ReadFrame(ctx context.Context, index int) (image.Image, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index %d", errs.ErrFrameRead, index)
	}

	out, err := s.opener.runner.Run(ctx, s.opener.ffmpeg, BuildFrameArgs(s.path, index)...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: index %d: %w", errs.ErrFrameRead, index, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no frame at index %d", errs.ErrFrameRead, index)
	}

	img, err := bmp.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: decode index %d: %w", errs.ErrFrameRead, index, err)
	}
	return img, nil
}

func (s *ffmpegSource) Close() error {
	return nil
}

// BuildProbeArgs builds the ffprobe arguments reading stream metadata as JSON
func BuildProbeArgs(path string) []string {
	return []string{
		"-v", FFprobeLogLevel,
		"-select_streams", FFprobeStream,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		path,
	}
}

// BuildFrameArgs builds the ffmpeg arguments writing a single BMP frame to stdout
func BuildFrameArgs(path string, index int) []string {
	return []string{
		"-v", FFmpegLogLevel,
		"-i", path,
		"-vf", fmt.Sprintf(FrameSelectExpr, index),
		"-fps_mode", FrameSyncMode,
		"-frames:v", FramesPerCommand,
		"-f", FramePipeFormat,
		"-c:v", FramePipeCodec,
		FramePipeTarget,
	}
}
