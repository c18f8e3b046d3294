package enhance

import "math"

const histBins = 256

// clahe equalizes a single 8-bit plane in place using tilesX x tilesY
// contextual regions. Tile LUTs are blended bilinearly so tile borders
// do not show.
func clahe(plane []uint8, w, h, tilesX, tilesY int, clipLimit float64) {
	if w == 0 || h == 0 {
		return
	}

	// The grid covers the image padded up to a multiple of the tile count.
	tileW := (w + tilesX - 1) / tilesX
	tileH := (h + tilesY - 1) / tilesY
	tileArea := tileW * tileH

	limit := 0
	if clipLimit > 0 {
		limit = int(clipLimit * float64(tileArea) / histBins)
		if limit < 1 {
			limit = 1
		}
	}

	lutScale := float64(histBins-1) / float64(tileArea)
	luts := make([][histBins]uint8, tilesX*tilesY)

	var hist [histBins]int
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			clear(hist[:])
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				row := reflect101(y, h) * w
				for x := tx * tileW; x < (tx+1)*tileW; x++ {
					hist[plane[row+reflect101(x, w)]]++
				}
			}

			if limit > 0 {
				clipHistogram(&hist, limit)
			}

			lut := &luts[ty*tilesX+tx]
			sum := 0
			for i := range hist {
				sum += hist[i]
				lut[i] = saturate(float64(sum) * lutScale)
			}
		}
	}

	invTileW := 1 / float64(tileW)
	invTileH := 1 / float64(tileH)

	for y := 0; y < h; y++ {
		tyf := float64(y)*invTileH - 0.5
		ty1 := int(math.Floor(tyf))
		ty2 := ty1 + 1
		ya := tyf - float64(ty1)
		ty1 = max(ty1, 0)
		ty2 = min(ty2, tilesY-1)

		for x := 0; x < w; x++ {
			txf := float64(x)*invTileW - 0.5
			tx1 := int(math.Floor(txf))
			tx2 := tx1 + 1
			xa := txf - float64(tx1)
			tx1 = max(tx1, 0)
			tx2 = min(tx2, tilesX-1)

			v := plane[y*w+x]
			top := float64(luts[ty1*tilesX+tx1][v])*(1-xa) + float64(luts[ty1*tilesX+tx2][v])*xa
			bottom := float64(luts[ty2*tilesX+tx1][v])*(1-xa) + float64(luts[ty2*tilesX+tx2][v])*xa
			plane[y*w+x] = saturate(top*(1-ya) + bottom*ya)
		}
	}
}

// clipHistogram caps every bin at limit and spreads the excess evenly
func clipHistogram(hist *[histBins]int, limit int) {
	clipped := 0
	for i := range hist {
		if hist[i] > limit {
			clipped += hist[i] - limit
			hist[i] = limit
		}
	}

	batch := clipped / histBins
	residual := clipped - batch*histBins
	for i := range hist {
		hist[i] += batch
	}

	if residual > 0 {
		step := max(histBins/residual, 1)
		for i := 0; i < histBins && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}
}
