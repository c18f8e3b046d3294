package video

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/ytget/yt-frame-extractor/internal/errs"
)

const sampleProbe = `{
    "programs": [],
    "streams": [
        {
            "width": 640,
            "height": 360,
            "r_frame_rate": "30000/1001",
            "duration": "10.010000",
            "nb_frames": "300"
        }
    ],
    "format": {
        "duration": "10.050000"
    }
}`

type fakeRunner struct {
	mu       sync.Mutex
	probe    []byte
	probeErr error
	frameErr error
	empty    bool
	calls    [][]string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if name == FFprobeCommand {
		return r.probe, r.probeErr
	}
	if r.frameErr != nil {
		return nil, r.frameErr
	}
	if r.empty {
		return nil, nil
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("mp4"), 0644))
	return path
}

func TestParseProbeOutput(t *testing.T) {
	info, err := ParseProbeOutput([]byte(sampleProbe))
	require.NoError(t, err)

	assert.Equal(t, 640, info.Width)
	assert.Equal(t, 360, info.Height)
	assert.Equal(t, 300, info.FrameCount)
	assert.InDelta(t, 29.97, info.FPS, 0.01)
	assert.InDelta(t, 10.01, info.Duration, 0.0001)
}

func TestParseProbeOutputFrameCountFallback(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected int
	}{
		{
			name:     "stream duration",
			payload:  `{"streams":[{"width":1,"height":1,"r_frame_rate":"25/1","duration":"4.0","nb_frames":"N/A"}],"format":{"duration":"9"}}`,
			expected: 100,
		},
		{
			name:     "format duration",
			payload:  `{"streams":[{"width":1,"height":1,"r_frame_rate":"24/1"}],"format":{"duration":"2.5"}}`,
			expected: 60,
		},
		{
			name:     "unknown",
			payload:  `{"streams":[{"width":1,"height":1,"r_frame_rate":"0/0"}],"format":{}}`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseProbeOutput([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, info.FrameCount)
		})
	}
}

func TestParseProbeOutputErrors(t *testing.T) {
	_, err := ParseProbeOutput([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseProbeOutput([]byte(`{"streams":[],"format":{}}`))
	assert.ErrorIs(t, err, errNoVideoStream)
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997},
		{"25", 25},
		{"0/0", 0},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, parseRate(tt.input), 0.0001, tt.input)
	}
}

func TestBuildProbeArgs(t *testing.T) {
	expected := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,nb_frames,r_frame_rate,duration:format=duration",
		"-of", "json",
		"/videos/clip.mp4",
	}
	assert.Equal(t, expected, BuildProbeArgs("/videos/clip.mp4"))
}

func TestBuildFrameArgs(t *testing.T) {
	expected := []string{
		"-v", "error",
		"-i", "/videos/clip.mp4",
		"-vf", `select=eq(n\,42)`,
		"-fps_mode", "passthrough",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "bmp",
		"pipe:1",
	}
	assert.Equal(t, expected, BuildFrameArgs("/videos/clip.mp4", 42))
}

func TestOpenAndReadFrame(t *testing.T) {
	runner := &fakeRunner{probe: []byte(sampleProbe)}
	opener := NewFFmpegOpener(runner, "", "", nil)
	path := tempVideo(t)

	src, err := opener.Open(context.Background(), path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 300, src.Info().FrameCount)

	img, err := src.ReadFrame(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())

	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(200), r>>8)
	assert.Equal(t, uint32(100), g>>8)
	assert.Equal(t, uint32(50), b>>8)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, FFmpegCommand, runner.calls[1][0])
	assert.Contains(t, runner.calls[1], `select=eq(n\,7)`)
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		opener := NewFFmpegOpener(&fakeRunner{probe: []byte(sampleProbe)}, "", "", nil)
		_, err := opener.Open(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"))
		assert.ErrorIs(t, err, errs.ErrVideoOpen)
	})

	t.Run("probe failure", func(t *testing.T) {
		opener := NewFFmpegOpener(&fakeRunner{probeErr: errors.New("invalid data")}, "", "", nil)
		_, err := opener.Open(context.Background(), tempVideo(t))
		assert.ErrorIs(t, err, errs.ErrVideoOpen)
	})

	t.Run("no video stream", func(t *testing.T) {
		opener := NewFFmpegOpener(&fakeRunner{probe: []byte(`{"streams":[]}`)}, "", "", nil)
		_, err := opener.Open(context.Background(), tempVideo(t))
		assert.ErrorIs(t, err, errs.ErrVideoOpen)
	})
}

func TestReadFrameErrors(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
		index  int
	}{
		{"negative index", &fakeRunner{probe: []byte(sampleProbe)}, -1},
		{"decoder failure", &fakeRunner{probe: []byte(sampleProbe), frameErr: errors.New("boom")}, 3},
		{"past the end", &fakeRunner{probe: []byte(sampleProbe), empty: true}, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewFFmpegOpener(tt.runner, "", "", nil).Open(context.Background(), tempVideo(t))
			require.NoError(t, err)

			_, err = src.ReadFrame(context.Background(), tt.index)
			assert.ErrorIs(t, err, errs.ErrFrameRead)
		})
	}
}
