package enhance

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// weightThreshold drops neighbours that contribute almost nothing
const weightThreshold = 0.001

// nlState is shared read-only by the row bands of one nlMeans call. Each band
// writes only its own rows of sumW and sumV.
type nlState struct {
	w, pw    int
	pad      int
	tr, sr   int
	template int
	padded   [][]int32
	lut      []float32
	norm     int64
	sumW     []float64
	sumV     [][]float64
}

// nlMeans denoises the given channels jointly. The patch distance is the mean
// squared difference over a template x template window, averaged over
// channels, and neighbours come from a search x search window. h controls
// how quickly weights decay with distance. Rows are split into bands that
// run on all available cores.
func nlMeans(ctx context.Context, w, h int, channels [][]uint8, strength float64, template, search int) ([][]uint8, error) {
	cn := len(channels)
	tr := template / 2
	sr := search / 2
	pad := tr + sr

	// Padded copies so shifted reads never leave the buffer.
	pw, ph := w+2*pad, h+2*pad
	padded := make([][]int32, cn)
	for c := range channels {
		buf := make([]int32, pw*ph)
		for y := 0; y < ph; y++ {
			sy := reflect101(y-pad, h) * w
			for x := 0; x < pw; x++ {
				buf[y*pw+x] = int32(channels[c][sy+reflect101(x-pad, w)])
			}
		}
		padded[c] = buf
	}

	// Weight by mean squared distance.
	lut := make([]float32, histBins*histBins)
	hh := strength * strength
	for d := range lut {
		wt := math.Exp(-float64(d) / hh)
		if wt < weightThreshold {
			wt = 0
		}
		lut[d] = float32(wt)
	}

	s := &nlState{
		w:        w,
		pw:       pw,
		pad:      pad,
		tr:       tr,
		sr:       sr,
		template: template,
		padded:   padded,
		lut:      lut,
		norm:     int64(template * template * cn),
		sumW:     make([]float64, w*h),
		sumV:     make([][]float64, cn),
	}
	for c := range s.sumV {
		s.sumV[c] = make([]float64, w*h)
	}

	workers := runtime.GOMAXPROCS(0)
	band := max((h+workers-1)/workers, 1)

	g, gctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		g.Go(func() error {
			return s.rows(gctx, y0, y1)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([][]uint8, cn)
	for c := range out {
		out[c] = make([]uint8, w*h)
		for i := range out[c] {
			out[c][i] = saturate(s.sumV[c][i] / s.sumW[i])
		}
	}
	return out, nil
}

// rows accumulates weights for output rows [y0, y1).
func (s *nlState) rows(ctx context.Context, y0, y1 int) error {
	cn := len(s.padded)
	tr, sr, pw, pad, template := s.tr, s.sr, s.pw, s.pad, s.template
	maxDist := int64(len(s.lut))

	// Integral image of squared differences over the band grown by the
	// template radius.
	rw, rh := s.w+2*tr, (y1-y0)+2*tr
	originX, originY := pad-tr, pad-tr+y0
	stride := rw + 1
	integral := make([]int64, stride*(rh+1))

	for dy := -sr; dy <= sr; dy++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for dx := -sr; dx <= sr; dx++ {
			for ry := 0; ry < rh; ry++ {
				py := originY + ry
				base := py * pw
				shifted := (py + dy) * pw
				var rowSum int64
				cur := (ry + 1) * stride
				prev := ry * stride
				for rx := 0; rx < rw; rx++ {
					px := originX + rx
					var d int64
					for c := 0; c < cn; c++ {
						diff := int64(s.padded[c][base+px] - s.padded[c][shifted+px+dx])
						d += diff * diff
					}
					rowSum += d
					integral[cur+rx+1] = integral[prev+rx+1] + rowSum
				}
			}

			for y := y0; y < y1; y++ {
				top := (y - y0) * stride
				bottom := (y - y0 + template) * stride
				src := (pad + y + dy) * pw
				for x := 0; x < s.w; x++ {
					ssd := integral[bottom+x+template] - integral[top+x+template] -
						integral[bottom+x] + integral[top+x]
					dist := ssd / s.norm
					if dist >= maxDist {
						continue
					}
					wt := s.lut[dist]
					if wt == 0 {
						continue
					}
					i := y*s.w + x
					s.sumW[i] += float64(wt)
					for c := 0; c < cn; c++ {
						s.sumV[c][i] += float64(wt) * float64(s.padded[c][src+pad+x+dx])
					}
				}
			}
		}
	}
	return nil
}
