package enhance

// sharpenKernel boosts the center against its four neighbours
var sharpenKernel = [3][3]int{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// sharpen convolves every channel with sharpenKernel, mirroring at the borders
func sharpen(src *planes) *planes {
	dst := newPlanes(src.w, src.h, len(src.ch))
	w, h := src.w, src.h

	for c, in := range src.ch {
		out := dst.ch[c]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				sum := 0
				for ky := -1; ky <= 1; ky++ {
					row := reflect101(y+ky, h) * w
					for kx := -1; kx <= 1; kx++ {
						k := sharpenKernel[ky+1][kx+1]
						if k == 0 {
							continue
						}
						sum += k * int(in[row+reflect101(x+kx, w)])
					}
				}
				out[y*w+x] = saturate(float64(sum))
			}
		}
	}
	return dst
}
