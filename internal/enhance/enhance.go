package enhance

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Default filter settings
const (
	DefaultClipLimit      = 2.0
	DefaultTileGrid       = 8
	DefaultDenoiseH       = 10.0
	DefaultDenoiseHColor  = 10.0
	DefaultTemplateWindow = 7
	DefaultSearchWindow   = 21
)

// ErrEmptyImage is returned for frames without pixels
var ErrEmptyImage = errors.New("enhance: empty image")

// Params tunes the enhancement chain
type Params struct {
	ClipLimit      float64
	TileGridX      int
	TileGridY      int
	DenoiseH       float64 // lightness
	DenoiseHColor  float64 // a/b chroma
	TemplateWindow int
	SearchWindow   int
}

// DefaultParams returns the standard enhancement settings
func DefaultParams() Params {
	return Params{
		ClipLimit:      DefaultClipLimit,
		TileGridX:      DefaultTileGrid,
		TileGridY:      DefaultTileGrid,
		DenoiseH:       DefaultDenoiseH,
		DenoiseHColor:  DefaultDenoiseHColor,
		TemplateWindow: DefaultTemplateWindow,
		SearchWindow:   DefaultSearchWindow,
	}
}

// Validate checks that the parameters describe a usable filter chain
func (p Params) Validate() error {
	switch {
	case p.ClipLimit < 0:
		return fmt.Errorf("clip limit must not be negative, got %v", p.ClipLimit)
	case p.TileGridX < 1 || p.TileGridY < 1:
		return fmt.Errorf("tile grid must be at least 1x1, got %dx%d", p.TileGridX, p.TileGridY)
	case p.DenoiseH <= 0 || p.DenoiseHColor <= 0:
		return fmt.Errorf("denoise strength must be positive")
	case p.TemplateWindow < 1 || p.TemplateWindow%2 == 0:
		return fmt.Errorf("template window must be odd and positive, got %d", p.TemplateWindow)
	case p.SearchWindow < 1 || p.SearchWindow%2 == 0:
		return fmt.Errorf("search window must be odd and positive, got %d", p.SearchWindow)
	}
	return nil
}

// Enhancer turns a raw frame into an enhanced one of the same size
type Enhancer interface {
	Enhance(ctx context.Context, img image.Image) (image.Image, error)
}

// Pipeline applies CLAHE, sharpening and NL-means denoising in that order
type Pipeline struct {
	params Params
}

// New creates a pipeline with the given parameters
func New(params Params) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid enhance params: %w", err)
	}
	return &Pipeline{params: params}, nil
}

// Params returns the pipeline settings
func (p *Pipeline) Params() Params {
	return p.params
}

// Enhance runs the filter chain. The result always has the input dimensions.
func (p *Pipeline) Enhance(ctx context.Context, img image.Image) (image.Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	rgb := fromImage(img)

	lab := rgbToLab(rgb)
	clahe(lab.ch[0], lab.w, lab.h, p.params.TileGridX, p.params.TileGridY, p.params.ClipLimit)
	rgb = labToRGB(lab)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rgb = sharpen(rgb)

	denoised, err := p.denoise(ctx, rgb)
	if err != nil {
		return nil, err
	}
	return denoised.toImage(), nil
}

// denoise filters lightness and chroma separately in Lab space
func (p *Pipeline) denoise(ctx context.Context, rgb *planes) (*planes, error) {
	lab := rgbToLab(rgb)

	l, err := nlMeans(ctx, lab.w, lab.h, lab.ch[:1], p.params.DenoiseH, p.params.TemplateWindow, p.params.SearchWindow)
	if err != nil {
		return nil, err
	}
	ab, err := nlMeans(ctx, lab.w, lab.h, lab.ch[1:], p.params.DenoiseHColor, p.params.TemplateWindow, p.params.SearchWindow)
	if err != nil {
		return nil, err
	}

	lab.ch[0], lab.ch[1], lab.ch[2] = l[0], ab[0], ab[1]
	return labToRGB(lab), nil
}
