package enhance

import "math"

// D65 reference white
const (
	whiteX = 0.950456
	whiteZ = 1.088754

	labEpsilon = 0.008856
	labKappa   = 903.3
)

var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		v := float64(i) / 255
		if v <= 0.04045 {
			srgbToLinear[i] = v / 12.92
		} else {
			srgbToLinear[i] = math.Pow((v+0.055)/1.055, 2.4)
		}
	}
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

func labFInv(f float64) float64 {
	if f > 6.0/29.0 {
		return f * f * f
	}
	return (f - 16.0/116.0) / 7.787
}

// rgbToLab converts RGB planes to 8-bit Lab planes. L is scaled to 0..255 and
// a, b are offset by 128.
func rgbToLab(src *planes) *planes {
	dst := newPlanes(src.w, src.h, 3)
	r, g, b := src.ch[0], src.ch[1], src.ch[2]
	for i := range r {
		rl := srgbToLinear[r[i]]
		gl := srgbToLinear[g[i]]
		bl := srgbToLinear[b[i]]

		x := (0.412453*rl + 0.357580*gl + 0.180423*bl) / whiteX
		y := 0.212671*rl + 0.715160*gl + 0.072169*bl
		z := (0.019334*rl + 0.119193*gl + 0.950227*bl) / whiteZ

		fx, fy, fz := labF(x), labF(y), labF(z)

		var l float64
		if y > labEpsilon {
			l = 116*fy - 16
		} else {
			l = labKappa * y
		}

		dst.ch[0][i] = saturate(l * 255 / 100)
		dst.ch[1][i] = saturate(500*(fx-fy) + 128)
		dst.ch[2][i] = saturate(200*(fy-fz) + 128)
	}
	return dst
}

// labToRGB reverses rgbToLab
func labToRGB(src *planes) *planes {
	dst := newPlanes(src.w, src.h, 3)
	lc, ac, bc := src.ch[0], src.ch[1], src.ch[2]
	for i := range lc {
		l := float64(lc[i]) * 100 / 255
		a := float64(ac[i]) - 128
		b := float64(bc[i]) - 128

		fy := (l + 16) / 116
		fx := fy + a/500
		fz := fy - b/200

		var y float64
		if l > labKappa*labEpsilon {
			y = fy * fy * fy
		} else {
			y = l / labKappa
		}
		x := labFInv(fx) * whiteX
		z := labFInv(fz) * whiteZ

		rl := 3.240479*x - 1.537150*y - 0.498535*z
		gl := -0.969256*x + 1.875992*y + 0.041556*z
		bl := 0.055648*x - 0.204043*y + 1.057311*z

		dst.ch[0][i] = saturate(255 * linearToSRGB(clamp01(rl)))
		dst.ch[1][i] = saturate(255 * linearToSRGB(clamp01(gl)))
		dst.ch[2][i] = saturate(255 * linearToSRGB(clamp01(bl)))
	}
	return dst
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
