/*
NAME
  colorspace.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pixel

import "math"

// RGBToHSV converts RGB planes in [0,1] to HSV planes: H in [0,360),
// S and V in [0,1]. Standard (non-CIE) HSV, matching what every
// color-rebalance and saturation-guard computation in this module
// expects.
func RGBToHSV(r, g, b []float32) (h, s, v []float32) {
	n := len(r)
	h, s, v = make([]float32, n), make([]float32, n), make([]float32, n)
	for i := 0; i < n; i++ {
		h[i], s[i], v[i] = rgbToHSVPixel(r[i], g[i], b[i])
	}
	return h, s, v
}

func rgbToHSVPixel(r, g, b float32) (h, s, v float32) {
	max := maxf(r, g, b)
	min := minf(r, g, b)
	delta := max - min
	v = max

	if max <= 0 {
		return 0, 0, v
	}
	s = delta / max

	if delta < Epsilon {
		return 0, s, v
	}

	switch max {
	case r:
		h = 60 * fmod((g-b)/delta, 6)
	case g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// HSVToRGB converts HSV planes back to RGB planes in [0,1].
func HSVToRGB(h, s, v []float32) (r, g, b []float32) {
	n := len(h)
	r, g, b = make([]float32, n), make([]float32, n), make([]float32, n)
	for i := 0; i < n; i++ {
		r[i], g[i], b[i] = hsvToRGBPixel(h[i], s[i], v[i])
	}
	return r, g, b
}

func hsvToRGBPixel(h, s, v float32) (r, g, b float32) {
	c := v * s
	hp := fmod(h, 360) / 60
	x := c * (1 - absf(fmod(hp, 2)-1))
	var r1, g1, b1 float32
	switch {
	case hp < 1:
		r1, g1, b1 = c, x, 0
	case hp < 2:
		r1, g1, b1 = x, c, 0
	case hp < 3:
		r1, g1, b1 = 0, c, x
	case hp < 4:
		r1, g1, b1 = 0, x, c
	case hp < 5:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}
	m := v - c
	return r1 + m, g1 + m, b1 + m
}

// RGBToLAB converts RGB planes in [0,1] to CIE L*a*b* planes (D65
// white point), via the standard sRGB->XYZ->Lab pipeline. L is in
// [0,100]; a and b are unbounded but typically within [-128,127] for
// natural images, matching the "not perceptually uniform,
// OpenCV-variety" allowance from spec §4.1.
func RGBToLAB(r, g, b []float32) (l, a, bb []float32) {
	n := len(r)
	l, a, bb = make([]float32, n), make([]float32, n), make([]float32, n)
	for i := 0; i < n; i++ {
		x, y, z := rgbToXYZ(r[i], g[i], b[i])
		l[i], a[i], bb[i] = xyzToLAB(x, y, z)
	}
	return l, a, bb
}

// LABToRGB is the inverse of RGBToLAB.
func LABToRGB(l, a, b []float32) (r, g, bb []float32) {
	n := len(l)
	r, g, bb = make([]float32, n), make([]float32, n), make([]float32, n)
	for i := 0; i < n; i++ {
		x, y, z := labToXYZ(l[i], a[i], b[i])
		r[i], g[i], bb[i] = xyzToRGB(x, y, z)
	}
	return r, g, bb
}

// D65 reference white.
const (
	xn = 0.95047
	yn = 1.00000
	zn = 1.08883
)

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow(float64((c+0.055)/1.055), 2.4))
}

func linearToSRGB(c float32) float32 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return float32(1.055*math.Pow(float64(c), 1.0/2.4) - 0.055)
}

func rgbToXYZ(r, g, b float32) (x, y, z float32) {
	rl, gl, bl := srgbToLinear(r), srgbToLinear(g), srgbToLinear(b)
	x = 0.4124564*rl + 0.3575761*gl + 0.1804375*bl
	y = 0.2126729*rl + 0.7151522*gl + 0.0721750*bl
	z = 0.0193339*rl + 0.1191920*gl + 0.9503041*bl
	return x, y, z
}

func xyzToRGB(x, y, z float32) (r, g, b float32) {
	rl := 3.2404542*x - 1.5371385*y - 0.4985314*z
	gl := -0.9692660*x + 1.8760108*y + 0.0415560*z
	bl := 0.0556434*x - 0.2040259*y + 1.0572252*z
	r = Clamp01(linearToSRGB(Clamp01(rl)))
	g = Clamp01(linearToSRGB(Clamp01(gl)))
	b = Clamp01(linearToSRGB(Clamp01(bl)))
	return r, g, b
}

func labF(t float32) float32 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return float32(math.Cbrt(float64(t)))
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float32) float32 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

func xyzToLAB(x, y, z float32) (l, a, b float32) {
	fx := labF(x / xn)
	fy := labF(y / yn)
	fz := labF(z / zn)
	l = 116*fy - 16
	a = 500 * (fx - fy)
	b = 200 * (fy - fz)
	return l, a, b
}

func labToXYZ(l, a, b float32) (x, y, z float32) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	x = xn * labFInv(fx)
	y = yn * labFInv(fy)
	z = zn * labFInv(fz)
	return x, y, z
}

func maxf(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func minf(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func fmod(a, b float32) float32 {
	return float32(math.Mod(float64(a), float64(b)))
}
