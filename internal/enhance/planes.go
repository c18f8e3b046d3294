package enhance

import (
	"image"
	"image/draw"
)

// planes holds a w x h image as separate 8-bit channels
type planes struct {
	w, h int
	ch   [][]uint8
}

func newPlanes(w, h, n int) *planes {
	p := &planes{w: w, h: h, ch: make([][]uint8, n)}
	for i := range p.ch {
		p.ch[i] = make([]uint8, w*h)
	}
	return p
}

// fromImage splits any image into R, G and B planes
func fromImage(img image.Image) *planes {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	p := newPlanes(w, h, 3)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			p.ch[0][i] = row[x*4]
			p.ch[1][i] = row[x*4+1]
			p.ch[2][i] = row[x*4+2]
		}
	}
	return p
}

// toImage joins three RGB planes into an opaque RGBA image
func (p *planes) toImage() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, p.w, p.h))
	for y := 0; y < p.h; y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < p.w; x++ {
			i := y*p.w + x
			row[x*4] = p.ch[0][i]
			row[x*4+1] = p.ch[1][i]
			row[x*4+2] = p.ch[2][i]
			row[x*4+3] = 0xff
		}
	}
	return out
}

// reflect101 maps an out of range coordinate into [0, n) mirroring around the
// edge pixel without repeating it (dcb|abcd|cba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

func saturate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
