package frames

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/yt-frame-extractor/internal/enhance"
	"github.com/ytget/yt-frame-extractor/internal/errs"
	"github.com/ytget/yt-frame-extractor/internal/metrics"
	"github.com/ytget/yt-frame-extractor/internal/model"
	"github.com/ytget/yt-frame-extractor/internal/platform"
	"github.com/ytget/yt-frame-extractor/internal/video"
)

// Extraction defaults
const (
	DefaultWorkers     = 4
	DefaultWidth       = 1920
	DefaultHeight      = 1080
	DefaultJPEGQuality = 95

	// FramesDirName is created inside the video directory
	FramesDirName = "extracted_frames"
)

// OutputDir returns the directory frames of the given title are written to
func OutputDir(videoDir, title string) string {
	return filepath.Join(videoDir, FramesDirName, title)
}

// Options tunes the extractor. Zero values fall back to the defaults.
type Options struct {
	Workers     int
	Width       int
	Height      int
	JPEGQuality int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = DefaultJPEGQuality
	}
	return o
}

// PlanFunc is called once the video is open and the indices are known
type PlanFunc func(totalFrames, effective int)

// ProgressFunc is called once per sampled frame, in position order, from the
// goroutine running Extract.
type ProgressFunc func(result model.FrameResult, done, total int)

// Job describes one extraction batch
type Job struct {
	VideoPath  string
	OutputDir  string
	Requested  int
	OnPlan     PlanFunc
	OnProgress ProgressFunc
}

// Result summarizes a finished batch
type Result struct {
	OutputDir   string
	TotalFrames int // frames in the video
	Requested   int
	Effective   int // after clamping to TotalFrames
	Written     int
	Skipped     int
	Failed      int
	Frames      []model.FrameResult
}

// Extractor reads, enhances and writes sampled frames
type Extractor struct {
	opener   video.Opener
	enhancer enhance.Enhancer
	opts     Options
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewExtractor creates an extractor. metrics may be nil.
func NewExtractor(opener video.Opener, enhancer enhance.Enhancer, opts Options, m *metrics.Metrics, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		opener:   opener,
		enhancer: enhancer,
		opts:     opts.withDefaults(),
		metrics:  m,
		log:      log.Named("frames"),
	}
}

// Options returns the effective extractor settings
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract processes every sampled frame of the job. Per-frame failures are
// recorded in the result and never abort the batch; only an unreadable video,
// an unusable output directory or cancellation return an error.
func (e *Extractor) Extract(ctx context.Context, job Job) (Result, error) {
	res := Result{OutputDir: job.OutputDir, Requested: job.Requested}

	if job.Requested <= 0 {
		return res, fmt.Errorf("%w: frame count must be positive, got %d", errs.ErrInvalidInput, job.Requested)
	}

	if err := platform.CreateDirectoryIfNotExists(job.OutputDir); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}

	src, err := e.opener.Open(ctx, job.VideoPath)
	if err != nil {
		if !errors.Is(err, errs.ErrVideoOpen) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", errs.ErrVideoOpen, err)
		}
		return res, err
	}
	defer src.Close()

	res.TotalFrames = src.Info().FrameCount
	indices := SampleIndices(res.TotalFrames, job.Requested)
	res.Effective = len(indices)
	res.Frames = make([]model.FrameResult, 0, len(indices))

	e.log.Info("extracting frames",
		zap.String("video", job.VideoPath),
		zap.String("output", job.OutputDir),
		zap.Int("total_frames", res.TotalFrames),
		zap.Int("requested", job.Requested),
		zap.Int("effective", res.Effective),
		zap.Int("workers", e.opts.Workers),
	)

	if job.OnPlan != nil {
		job.OnPlan(res.TotalFrames, res.Effective)
	}

	// One buffered slot per position lets workers finish out of order while
	// results are consumed in submission order.
	slots := make([]chan model.FrameResult, len(indices))
	for k := range slots {
		slots[k] = make(chan model.FrameResult, 1)
	}

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)

	go func() {
		for k, idx := range indices {
			g.Go(func() error {
				slots[k] <- e.process(ctx, src, job.OutputDir, k, idx)
				return nil
			})
		}
	}()

	for k := range slots {
		fr := <-slots[k]
		switch fr.Outcome {
		case model.FrameWritten:
			res.Written++
		case model.FrameSkipped:
			res.Skipped++
		default:
			res.Failed++
		}
		res.Frames = append(res.Frames, fr)

		if job.OnProgress != nil {
			job.OnProgress(fr, k+1, len(slots))
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	e.log.Info("extraction finished",
		zap.String("output", job.OutputDir),
		zap.Int("written", res.Written),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// process handles a single sampled position end to end
func (e *Extractor) process(ctx context.Context, src video.Source, dir string, position, index int) model.FrameResult {
	fr := model.FrameResult{
		Position: position,
		Index:    index,
		Path:     filepath.Join(dir, model.FileName(position)),
	}

	if err := ctx.Err(); err != nil {
		fr.Outcome = model.FrameFailed
		fr.Err = err
		return fr
	}

	img, err := src.ReadFrame(ctx, index)
	if err != nil {
		fr.Outcome = model.FrameSkipped
		fr.Err = err
		e.metrics.FrameSkipped()
		e.log.Warn("frame unreadable", zap.Int("position", position), zap.Int("index", index), zap.Error(err))
		return fr
	}

	img = e.fit(img)

	start := time.Now()
	enhanced, err := e.enhancer.Enhance(ctx, img)
	elapsed := time.Since(start)
	if err == nil {
		err = writeJPEG(fr.Path, enhanced, e.opts.JPEGQuality)
	}
	if err != nil {
		fr.Outcome = model.FrameFailed
		fr.Err = err
		e.metrics.FrameFailed()
		e.log.Warn("frame failed", zap.Int("position", position), zap.Int("index", index), zap.Error(err))
		return fr
	}

	fr.Outcome = model.FrameWritten
	e.metrics.FrameWritten(elapsed)
	e.log.Debug("frame written",
		zap.Int("position", position),
		zap.Int("index", index),
		zap.String("path", fr.Path),
		zap.Duration("enhance", elapsed),
	)
	return fr
}

// fit scales the frame to the configured output size when it differs
func (e *Extractor) fit(img image.Image) image.Image {
	size := img.Bounds().Size()
	if size.X == e.opts.Width && size.Y == e.opts.Height {
		return img
	}
	return resize.Resize(uint(e.opts.Width), uint(e.opts.Height), img, resize.Lanczos3)
}

func writeJPEG(path string, img image.Image, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
