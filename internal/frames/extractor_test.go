package frames

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-frame-extractor/internal/errs"
	"github.com/ytget/yt-frame-extractor/internal/metrics"
	"github.com/ytget/yt-frame-extractor/internal/model"
	"github.com/ytget/yt-frame-extractor/internal/video"
)

const (
	testWidth  = 8
	testHeight = 6
)

type fakeSource struct {
	frames int
	size   image.Point
	bad    map[int]bool
	delay  time.Duration
	active atomic.Int32
	peak   atomic.Int32
	mu     sync.Mutex
	reads  []int
	closed bool
}

func (s *fakeSource) Info() video.Info {
	return video.Info{Width: s.size.X, Height: s.size.Y, FrameCount: s.frames}
}

func (s *fakeSource) ReadFrame(_ context.Context, index int) (image.Image, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.reads = append(s.reads, index)
	s.mu.Unlock()

	if s.bad[index] {
		return nil, errs.ErrFrameRead
	}
	img := image.NewRGBA(image.Rect(0, 0, s.size.X, s.size.Y))
	for y := 0; y < s.size.Y; y++ {
		for x := 0; x < s.size.X; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(index), G: 80, B: 160, A: 255})
		}
	}
	return img, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

type fakeOpener struct {
	src *fakeSource
	err error
}

func (o *fakeOpener) Open(_ context.Context, _ string) (video.Source, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.src, nil
}

// passthrough returns frames unchanged, optionally failing one call
type passthrough struct {
	fail atomic.Int32 // fail the n-th call (1-based), 0 disables
	n    atomic.Int32
}

func (p *passthrough) Enhance(_ context.Context, img image.Image) (image.Image, error) {
	call := p.n.Add(1)
	if f := p.fail.Load(); f != 0 && call == f {
		return nil, errors.New("enhance failed")
	}
	return img, nil
}

func newTestExtractor(src *fakeSource, enh *passthrough, workers int) *Extractor {
	if enh == nil {
		enh = &passthrough{}
	}
	return NewExtractor(&fakeOpener{src: src}, enh, Options{
		Workers: workers,
		Width:   testWidth,
		Height:  testHeight,
	}, metrics.New(), nil)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, Options{Workers: 4, Width: 1920, Height: 1080, JPEGQuality: 95}, opts)

	opts = Options{Workers: 2, JPEGQuality: 150}.withDefaults()
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, 95, opts.JPEGQuality)
}

func TestOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("downloaded_videos", "extracted_frames", "My Video"),
		OutputDir("downloaded_videos", "My Video"))
}

func TestExtractClampsToAvailableFrames(t *testing.T) {
	src := &fakeSource{frames: 5, size: image.Pt(testWidth, testHeight)}
	dir := filepath.Join(t.TempDir(), "out")

	res, err := newTestExtractor(src, nil, 4).Extract(context.Background(), Job{
		VideoPath: "clip.mp4",
		OutputDir: dir,
		Requested: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.TotalFrames)
	assert.Equal(t, 10, res.Requested)
	assert.Equal(t, 5, res.Effective)
	assert.Equal(t, 5, res.Written)
	assert.True(t, src.closed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	for i := 1; i <= 5; i++ {
		assert.FileExists(t, filepath.Join(dir, model.FileName(i-1)))
	}
}

func TestExtractSkipsUnreadableFrames(t *testing.T) {
	src := &fakeSource{
		frames: 100,
		size:   image.Pt(testWidth, testHeight),
		bad:    map[int]bool{25: true, 75: true},
	}
	dir := t.TempDir()

	res, err := newTestExtractor(src, nil, 4).Extract(context.Background(), Job{
		VideoPath: "clip.mp4",
		OutputDir: dir,
		Requested: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Written)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 0, res.Failed)

	assert.FileExists(t, filepath.Join(dir, "frame_1.jpg"))
	assert.NoFileExists(t, filepath.Join(dir, "frame_2.jpg"))
	assert.FileExists(t, filepath.Join(dir, "frame_3.jpg"))
	assert.NoFileExists(t, filepath.Join(dir, "frame_4.jpg"))
	assert.FileExists(t, filepath.Join(dir, "frame_5.jpg"))

	require.Len(t, res.Frames, 5)
	assert.Equal(t, model.FrameSkipped, res.Frames[1].Outcome)
	assert.ErrorIs(t, res.Frames[1].Err, errs.ErrFrameRead)
}

func TestExtractCountsEnhanceFailures(t *testing.T) {
	src := &fakeSource{frames: 10, size: image.Pt(testWidth, testHeight)}
	enh := &passthrough{}
	enh.fail.Store(1)

	res, err := newTestExtractor(src, enh, 1).Extract(context.Background(), Job{
		VideoPath: "clip.mp4",
		OutputDir: t.TempDir(),
		Requested: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Written)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, model.FrameFailed, res.Frames[0].Outcome)
}

// oversized reports bounds the JPEG encoder refuses
type oversized struct{}

func (oversized) ColorModel() color.Model { return color.RGBAModel }
func (oversized) Bounds() image.Rectangle { return image.Rect(0, 0, 1<<16, 1) }
func (oversized) At(int, int) color.Color { return color.Black }

func TestWriteJPEGRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), model.FileName(0))

	err := writeJPEG(path, oversized{}, DefaultJPEGQuality)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestExtractProgressInSubmissionOrder(t *testing.T) {
	src := &fakeSource{frames: 50, size: image.Pt(testWidth, testHeight), delay: 5 * time.Millisecond}

	var positions, done []int
	planned := 0
	res, err := newTestExtractor(src, nil, 4).Extract(context.Background(), Job{
		VideoPath: "clip.mp4",
		OutputDir: t.TempDir(),
		Requested: 8,
		OnPlan: func(totalFrames, effective int) {
			assert.Equal(t, 50, totalFrames)
			assert.Empty(t, positions)
			planned = effective
		},
		OnProgress: func(fr model.FrameResult, d, total int) {
			assert.Equal(t, 8, total)
			positions = append(positions, fr.Position)
			done = append(done, d)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, positions)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, done)
	assert.Equal(t, 8, planned)
	assert.Equal(t, 8, res.Written)
}

func TestExtractRespectsWorkerLimit(t *testing.T) {
	src := &fakeSource{frames: 40, size: image.Pt(testWidth, testHeight), delay: 10 * time.Millisecond}

	_, err := newTestExtractor(src, nil, 2).Extract(context.Background(), Job{
		VideoPath: "clip.mp4",
		OutputDir: t.TempDir(),
		Requested: 10,
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, src.peak.Load(), int32(2))
	assert.Len(t, src.reads, 10)
}

func TestExtractResizesToOutputSize(t *testing.T) {
	src := &fakeSource{frames: 3, size: image.Pt(4, 2)}
	dir := t.TempDir()

	_, err := newTestExtractor(src, nil, 1).Extract(context.Background(), Job{
		VideoPath: "clip.mp4",
		OutputDir: dir,
		Requested: 1,
	})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "frame_1.jpg"))
	require.NoError(t, err)
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, testWidth, cfg.Width)
	assert.Equal(t, testHeight, cfg.Height)
}

func TestExtractOpenFailure(t *testing.T) {
	ext := NewExtractor(&fakeOpener{err: errors.New("moov atom not found")}, &passthrough{}, Options{}, nil, nil)

	_, err := ext.Extract(context.Background(), Job{
		VideoPath: "broken.mp4",
		OutputDir: t.TempDir(),
		Requested: 3,
	})
	assert.ErrorIs(t, err, errs.ErrVideoOpen)
}

func TestExtractInvalidCount(t *testing.T) {
	src := &fakeSource{frames: 3, size: image.Pt(testWidth, testHeight)}

	_, err := newTestExtractor(src, nil, 1).Extract(context.Background(), Job{
		VideoPath: "clip.mp4",
		OutputDir: t.TempDir(),
		Requested: 0,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	assert.Empty(t, src.reads)
}

func TestExtractCancelled(t *testing.T) {
	src := &fakeSource{frames: 10, size: image.Pt(testWidth, testHeight)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestExtractor(src, nil, 2).Extract(ctx, Job{
		VideoPath: "clip.mp4",
		OutputDir: t.TempDir(),
		Requested: 4,
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Written)
	assert.Equal(t, 4, res.Failed)
}
