/*
NAME
  filters.go

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

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// BoxFilter1D convolves a single plane with a (2*radius+1)^2 uniform
// box kernel, separably, using an integral-image style running sum so
// cost is independent of radius. Border pixels replicate the edge.
func BoxFilter1D(data []float32, w, h, radius int) []float32 {
	if radius <= 0 {
		out := make([]float32, len(data))
		copy(out, data)
		return out
	}
	horiz := boxFilterAxis(data, w, h, radius, true)
	return boxFilterAxis(horiz, w, h, radius, false)
}

func boxFilterAxis(data []float32, w, h, radius int, horizontal bool) []float32 {
	out := make([]float32, w*h)
	span := float32(2*radius + 1)
	if horizontal {
		for y := 0; y < h; y++ {
			row := y * w
			var sum float32
			for k := -radius; k <= radius; k++ {
				sum += data[row+clampIdx(k, w)]
			}
			out[row] = sum / span
			for x := 1; x < w; x++ {
				add := data[row+clampIdx(x+radius, w)]
				sub := data[row+clampIdx(x-radius-1, w)]
				sum += add - sub
				out[row+x] = sum / span
			}
		}
		return out
	}
	for x := 0; x < w; x++ {
		var sum float32
		for k := -radius; k <= radius; k++ {
			sum += data[clampIdx(k, h)*w+x]
		}
		out[x] = sum / span
		for y := 1; y < h; y++ {
			add := data[clampIdx(y+radius, h)*w+x]
			sub := data[clampIdx(y-radius-1, h)*w+x]
			sum += add - sub
			out[y*w+x] = sum / span
		}
	}
	return out
}

// gaussianKernel1D returns a normalized 1D Gaussian kernel with radius
// ceil(3*sigma), at least 1.
func gaussianKernel1D(sigma float32) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	radius := int(math.Ceil(float64(3 * sigma)))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float32, 2*radius+1)
	var sum float32
	for i := -radius; i <= radius; i++ {
		v := float32(math.Exp(-float64(i*i) / (2 * float64(sigma) * float64(sigma))))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// GaussianBlur1D separably convolves a single plane with a Gaussian of
// standard deviation sigma, with replicate borders. sigma<=0 returns a
// copy of data unchanged.
func GaussianBlur1D(data []float32, w, h int, sigma float32) []float32 {
	if sigma <= 0 {
		out := make([]float32, len(data))
		copy(out, data)
		return out
	}
	kernel := gaussianKernel1D(sigma)
	radius := len(kernel) / 2
	horiz := convolveAxis(data, w, h, kernel, radius, true)
	return convolveAxis(horiz, w, h, kernel, radius, false)
}

func convolveAxis(data []float32, w, h int, kernel []float32, radius int, horizontal bool) []float32 {
	out := make([]float32, w*h)
	if horizontal {
		for y := 0; y < h; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				var sum float32
				for k := -radius; k <= radius; k++ {
					sum += kernel[k+radius] * data[row+clampIdx(x+k, w)]
				}
				out[row+x] = sum
			}
		}
		return out
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var sum float32
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * data[clampIdx(y+k, h)*w+x]
			}
			out[y*w+x] = sum
		}
	}
	return out
}

// GaussianBlurImage blurs every channel of img with the given sigma.
func GaussianBlurImage(img *Image, sigma float32) *Image {
	r, g, b := img.Planes()
	r = GaussianBlur1D(r, img.W, img.H, sigma)
	g = GaussianBlur1D(g, img.W, img.H, sigma)
	b = GaussianBlur1D(b, img.W, img.H, sigma)
	return FromPlanes(img.W, img.H, r, g, b)
}

// Erode applies a min-filter (grayscale morphological erosion) over a
// win x win rectangular structuring element (win must be odd; it is
// rounded up to the nearest odd value >= 1). Implemented as two
// separable sliding-window minimums (a monotonic deque per row and per
// column), giving cost independent of win.
func Erode(data []float32, w, h, win int) []float32 {
	if win < 1 {
		win = 1
	}
	if win%2 == 0 {
		win++
	}
	radius := win / 2
	horiz := slidingMinAxis(data, w, h, radius, true)
	return slidingMinAxis(horiz, w, h, radius, false)
}

func slidingMinAxis(data []float32, w, h, radius int, horizontal bool) []float32 {
	out := make([]float32, w*h)
	if horizontal {
		for y := 0; y < h; y++ {
			row := y * w
			line := data[row : row+w]
			res := slidingMin(line, radius)
			copy(out[row:row+w], res)
		}
		return out
	}
	col := make([]float32, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = data[y*w+x]
		}
		res := slidingMin(col, radius)
		for y := 0; y < h; y++ {
			out[y*w+x] = res[y]
		}
	}
	return out
}

// slidingMin computes, for each index i, the minimum of line over
// [i-radius, i+radius] with replicate (clamped) borders, using a
// monotonic deque so the whole pass costs O(len(line)).
func slidingMin(line []float32, radius int) []float32 {
	n := len(line)
	out := make([]float32, n)
	// Extend with replicated borders conceptually via clampIdx when
	// pushing indices.
	deque := make([]int, 0, n)
	head := 0
	push := func(idx int) {
		v := line[clampIdx(idx, n)]
		for len(deque) > head && line[clampIdx(deque[len(deque)-1], n)] >= v {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, idx)
	}
	for i := -radius; i < n; i++ {
		push(i + radius)
		for deque[head] < i-radius {
			head++
		}
		if i >= 0 {
			out[i] = line[clampIdx(deque[head], n)]
		}
	}
	return out
}

// Sobel returns the horizontal and vertical Sobel gradients of a
// single plane using the standard 3-tap kernel, replicate borders.
func Sobel(data []float32, w, h int) (gx, gy []float32) {
	gx = make([]float32, w*h)
	gy = make([]float32, w*h)
	kx := [3][3]float32{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	ky := [3][3]float32{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sx, sy float32
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					v := data[clampIdx(y+dy, h)*w+clampIdx(x+dx, w)]
					sx += kx[dy+1][dx+1] * v
					sy += ky[dy+1][dx+1] * v
				}
			}
			gx[y*w+x] = sx
			gy[y*w+x] = sy
		}
	}
	return gx, gy
}

// GradientMagnitudeL1 returns |dx| + |dy| per pixel, matching the
// grey-edge estimator's derivative magnitude (spec §4.3.1).
func GradientMagnitudeL1(data []float32, w, h int) []float32 {
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			xp := clampIdx(x+1, w)
			xm := clampIdx(x-1, w)
			yp := clampIdx(y+1, h)
			ym := clampIdx(y-1, h)
			dx := (data[y*w+xp] - data[y*w+xm]) / 2
			dy := (data[yp*w+x] - data[ym*w+x]) / 2
			out[y*w+x] = absf(dx) + absf(dy)
		}
	}
	return out
}

// Laplacian returns the Laplacian-of-Gaussian style response of a
// plane using the standard 4-neighbor discrete kernel
// [[0,1,0],[1,-4,1],[0,1,0]], replicate borders.
func Laplacian(data []float32, w, h int) []float32 {
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := data[y*w+x]
			up := data[clampIdx(y-1, h)*w+x]
			down := data[clampIdx(y+1, h)*w+x]
			left := data[y*w+clampIdx(x-1, w)]
			right := data[y*w+clampIdx(x+1, w)]
			out[y*w+x] = up + down + left + right - 4*c
		}
	}
	return out
}
