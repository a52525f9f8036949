/*
NAME
  pyramid.go

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

// MaxPyramidLevels bounds fusion_laplacian_levels and any other
// caller of the pyramid builders, keeping the O(H*W) memory budget
// from spec §5 in check.
const MaxPyramidLevels = 10

// burtAdelson is the standard 5-tap Gaussian pyramid prefilter kernel.
var burtAdelson = []float32{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

func burtAdelsonBlur(data []float32, w, h int) []float32 {
	radius := 2
	horiz := convolveAxis(data, w, h, burtAdelson, radius, true)
	return convolveAxis(horiz, w, h, burtAdelson, radius, false)
}

// downsampleHalf prefilters with the 5-tap kernel then bilinearly
// downsamples to half size (rounding up), per spec §4.1's pyramid
// contract.
func downsampleHalf(data []float32, w, h int) (out []float32, nw, nh int) {
	filtered := burtAdelsonBlur(data, w, h)
	nw = (w + 1) / 2
	nh = (h + 1) / 2
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return BilinearResize(filtered, w, h, nw, nh), nw, nh
}

// upsampleTo bilinearly upsamples data from (w,h) to exactly
// (targetW, targetH), matching the shape of the pyramid level it is
// being combined with.
func upsampleTo(data []float32, w, h, targetW, targetH int) []float32 {
	return BilinearResize(data, w, h, targetW, targetH)
}

// BuildGaussianPyramid returns levels Gaussian-pyramid levels of img,
// level[0] == img, each subsequent level halved after a 5-tap
// Gaussian prefilter (spec §4.1).
func BuildGaussianPyramid(img *Image, levels int) []*Image {
	if levels < 1 {
		levels = 1
	}
	if levels > MaxPyramidLevels {
		levels = MaxPyramidLevels
	}
	out := make([]*Image, levels)
	out[0] = img.Clone()
	cur := img
	for k := 1; k < levels; k++ {
		r, g, b := cur.Planes()
		nr, nw, nh := downsampleHalf(r, cur.W, cur.H)
		ng, _, _ := downsampleHalf(g, cur.W, cur.H)
		nb, _, _ := downsampleHalf(b, cur.W, cur.H)
		next := FromPlanes(nw, nh, nr, ng, nb)
		out[k] = next
		cur = next
		if nw <= 1 && nh <= 1 {
			// Further halving is a no-op; pad remaining levels with
			// a copy of the 1x1 image so callers can still index levels-1.
			for j := k + 1; j < levels; j++ {
				out[j] = cur.Clone()
			}
			break
		}
	}
	return out
}

// BuildLaplacianPyramid returns a levels-deep Laplacian pyramid:
// lap[k] = gauss[k] - upsample(gauss[k+1]) for k<levels-1, and
// lap[levels-1] = gauss[levels-1] (spec §4.1).
func BuildLaplacianPyramid(img *Image, levels int) []*Image {
	gauss := BuildGaussianPyramid(img, levels)
	n := len(gauss)
	lap := make([]*Image, n)
	for k := 0; k < n-1; k++ {
		up := upsampleImage(gauss[k+1], gauss[k].W, gauss[k].H)
		lap[k] = subtract(gauss[k], up)
	}
	lap[n-1] = gauss[n-1].Clone()
	return lap
}

func upsampleImage(img *Image, targetW, targetH int) *Image {
	r, g, b := img.Planes()
	r = upsampleTo(r, img.W, img.H, targetW, targetH)
	g = upsampleTo(g, img.W, img.H, targetW, targetH)
	b = upsampleTo(b, img.W, img.H, targetW, targetH)
	return FromPlanes(targetW, targetH, r, g, b)
}

func subtract(a, b *Image) *Image {
	out := New(a.W, a.H)
	for i := range a.Pix {
		out.Pix[i] = a.Pix[i] - b.Pix[i]
	}
	return out
}

func add(a, b *Image) *Image {
	out := New(a.W, a.H)
	for i := range a.Pix {
		out.Pix[i] = a.Pix[i] + b.Pix[i]
	}
	return out
}

// Collapse reconstructs an image from a Laplacian pyramid, the
// inverse of BuildLaplacianPyramid. Round-trip error is bounded to
// within 1 LSB per channel on uniform images (spec §4.1, §8).
func Collapse(lap []*Image) *Image {
	n := len(lap)
	if n == 0 {
		return nil
	}
	cur := lap[n-1].Clone()
	for k := n - 2; k >= 0; k-- {
		up := upsampleImage(cur, lap[k].W, lap[k].H)
		cur = add(lap[k], up)
	}
	return cur
}
