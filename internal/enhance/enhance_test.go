package enhance

import (
	"context"
	"image"
	"image/color"
	"math"
	"math/rand"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func noisyImage(w, h int, seed int64) *image.RGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rnd.Intn(256)),
				G: uint8(rnd.Intn(256)),
				B: uint8(rnd.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, expected int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-7, 3, 1},
		{3, 1, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, reflect101(tt.i, tt.n), "reflect101(%d, %d)", tt.i, tt.n)
	}
}

func TestLabWhitePoint(t *testing.T) {
	p := newPlanes(1, 1, 3)
	p.ch[0][0], p.ch[1][0], p.ch[2][0] = 255, 255, 255

	lab := rgbToLab(p)
	assert.Equal(t, uint8(255), lab.ch[0][0])
	assert.Equal(t, uint8(128), lab.ch[1][0])
	assert.Equal(t, uint8(128), lab.ch[2][0])
}

func TestLabRoundTrip(t *testing.T) {
	colors := [][3]uint8{
		{0, 0, 0},
		{255, 255, 255},
		{128, 128, 128},
		{200, 100, 50},
		{30, 160, 220},
	}

	p := newPlanes(len(colors), 1, 3)
	for i, c := range colors {
		p.ch[0][i], p.ch[1][i], p.ch[2][i] = c[0], c[1], c[2]
	}

	back := labToRGB(rgbToLab(p))
	for i, c := range colors {
		for ch := 0; ch < 3; ch++ {
			assert.InDelta(t, int(c[ch]), int(back.ch[ch][i]), 4, "color %v channel %d", c, ch)
		}
	}
}

func TestClipHistogramKeepsTotal(t *testing.T) {
	var hist [histBins]int
	hist[40] = 1000
	hist[41] = 5

	clipHistogram(&hist, 10)

	total := 0
	for _, v := range hist {
		total += v
		assert.LessOrEqual(t, v, 10+1000/histBins+1)
	}
	assert.Equal(t, 1005, total)
}

func TestClaheConstantPlane(t *testing.T) {
	const w, h = 37, 21
	plane := make([]uint8, w*h)
	for i := range plane {
		plane[i] = 90
	}

	clahe(plane, w, h, 8, 8, 2.0)

	for i := range plane {
		require.Equal(t, plane[0], plane[i], "pixel %d", i)
	}
}

func TestClaheStretchesLowContrast(t *testing.T) {
	const w, h = 64, 64
	plane := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane[y*w+x] = uint8(100 + (x+y)%20)
		}
	}

	clahe(plane, w, h, 8, 8, 2.0)

	lo, hi := uint8(255), uint8(0)
	for _, v := range plane {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	assert.Greater(t, int(hi)-int(lo), 19)
}

func TestSharpenUniform(t *testing.T) {
	p := fromImage(uniformImage(5, 4, color.RGBA{R: 10, G: 120, B: 250, A: 255}))
	out := sharpen(p)

	assert.Equal(t, p.ch, out.ch)
}

func TestSharpenPoint(t *testing.T) {
	p := newPlanes(3, 3, 1)
	p.ch[0][4] = 100

	out := sharpen(p)

	assert.Equal(t, uint8(255), out.ch[0][4])
	assert.Equal(t, uint8(0), out.ch[0][1])
	assert.Equal(t, uint8(0), out.ch[0][0])
}

func TestNLMeansConstantPlane(t *testing.T) {
	plane := make([]uint8, 12*9)
	for i := range plane {
		plane[i] = 77
	}

	out, err := nlMeans(context.Background(), 12, 9, [][]uint8{plane}, 10, 7, 21)
	require.NoError(t, err)
	assert.Equal(t, plane, out[0])
}

func TestNLMeansTinyStrengthKeepsInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	a := make([]uint8, 16*10)
	b := make([]uint8, 16*10)
	for i := range a {
		a[i] = uint8(rnd.Intn(256))
		b[i] = uint8(rnd.Intn(256))
	}

	out, err := nlMeans(context.Background(), 16, 10, [][]uint8{a, b}, 0.01, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, a, out[0])
	assert.Equal(t, b, out[1])
}

// directNLMeans computes every patch distance from scratch
func directNLMeans(w, h int, channels [][]uint8, strength float64, template, search int) [][]uint8 {
	cn := len(channels)
	tr, sr := template/2, search/2
	at := func(c, y, x int) int64 {
		return int64(channels[c][reflect101(y, h)*w+reflect101(x, w)])
	}
	norm := int64(template * template * cn)

	out := make([][]uint8, cn)
	for c := range out {
		out[c] = make([]uint8, w*h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sumW float64
			sumV := make([]float64, cn)
			for dy := -sr; dy <= sr; dy++ {
				for dx := -sr; dx <= sr; dx++ {
					var ssd int64
					for ty := -tr; ty <= tr; ty++ {
						for tx := -tr; tx <= tr; tx++ {
							for c := 0; c < cn; c++ {
								d := at(c, y+ty, x+tx) - at(c, y+dy+ty, x+dx+tx)
								ssd += d * d
							}
						}
					}
					wt := math.Exp(-float64(ssd/norm) / (strength * strength))
					if wt < weightThreshold {
						continue
					}
					w32 := float64(float32(wt))
					sumW += w32
					for c := 0; c < cn; c++ {
						sumV[c] += w32 * float64(at(c, y+dy, x+dx))
					}
				}
			}
			for c := 0; c < cn; c++ {
				out[c][y*w+x] = saturate(sumV[c] / sumW)
			}
		}
	}
	return out
}

func TestNLMeansBandsMatchDirectComputation(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	const w, h = 19, 23
	a := make([]uint8, w*h)
	b := make([]uint8, w*h)
	for i := range a {
		a[i] = uint8(100 + rnd.Intn(40))
		b[i] = uint8(rnd.Intn(256))
	}
	want := directNLMeans(w, h, [][]uint8{a, b}, 30, 5, 9)

	for _, procs := range []int{1, 3, 8, 64} {
		prev := runtime.GOMAXPROCS(procs)
		got, err := nlMeans(context.Background(), w, h, [][]uint8{a, b}, 30, 5, 9)
		runtime.GOMAXPROCS(prev)

		require.NoError(t, err)
		assert.Equal(t, want, got, "GOMAXPROCS=%d", procs)
	}
}

func TestNLMeansCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := nlMeans(ctx, 8, 8, [][]uint8{make([]uint8, 64)}, 10, 3, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative clip", func(p *Params) { p.ClipLimit = -1 }},
		{"zero grid", func(p *Params) { p.TileGridX = 0 }},
		{"zero strength", func(p *Params) { p.DenoiseH = 0 }},
		{"even template", func(p *Params) { p.TemplateWindow = 6 }},
		{"even search", func(p *Params) { p.SearchWindow = 20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.Error(t, p.Validate())

			_, err := New(p)
			assert.Error(t, err)
		})
	}
}

func TestEnhancePreservesDimensions(t *testing.T) {
	pipeline, err := New(DefaultParams())
	require.NoError(t, err)

	sizes := []image.Point{{17, 11}, {1, 1}, {40, 3}}
	for _, size := range sizes {
		out, err := pipeline.Enhance(context.Background(), noisyImage(size.X, size.Y, 1))
		require.NoError(t, err)
		assert.Equal(t, size, out.Bounds().Size())
	}
}

func TestEnhanceDeterministic(t *testing.T) {
	pipeline, err := New(DefaultParams())
	require.NoError(t, err)

	img := noisyImage(24, 16, 3)
	first, err := pipeline.Enhance(context.Background(), img)
	require.NoError(t, err)
	second, err := pipeline.Enhance(context.Background(), img)
	require.NoError(t, err)

	assert.Equal(t, first.(*image.RGBA).Pix, second.(*image.RGBA).Pix)
}

func TestEnhanceUniformStaysUniform(t *testing.T) {
	pipeline, err := New(DefaultParams())
	require.NoError(t, err)

	out, err := pipeline.Enhance(context.Background(), uniformImage(20, 12, color.RGBA{R: 90, G: 90, B: 90, A: 255}))
	require.NoError(t, err)

	rgba := out.(*image.RGBA)
	first := rgba.RGBAAt(0, 0)
	for y := 0; y < 12; y++ {
		for x := 0; x < 20; x++ {
			require.Equal(t, first, rgba.RGBAAt(x, y))
		}
	}
	assert.Equal(t, uint8(255), first.A)
}

func TestEnhanceAcceptsOffsetAndGrayImages(t *testing.T) {
	pipeline, err := New(DefaultParams())
	require.NoError(t, err)

	gray := image.NewGray(image.Rect(5, 5, 15, 12))
	out, err := pipeline.Enhance(context.Background(), gray)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 7), out.Bounds())
}

func TestEnhanceErrors(t *testing.T) {
	pipeline, err := New(DefaultParams())
	require.NoError(t, err)

	_, err = pipeline.Enhance(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrEmptyImage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pipeline.Enhance(ctx, noisyImage(8, 8, 1))
	assert.ErrorIs(t, err, context.Canceled)
}
