/*
NAME
  fusion.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stage

import (
	"math"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// unsharpSigma is the Gaussian blur radius for the fusion stage's
// sharpened variant (spec §4.3.6 V3).
const unsharpSigma = 0.8

// Fusion blends three derived variants of the incoming (already
// pipeline-processed) image through Laplacian-pyramid weighted
// fusion, in the style of Ancuti's underwater multi-scale fusion
// (spec §4.3.6): an identity copy, a mild-CLAHE variant, and an
// unsharp-masked variant, combined per pixel using normalized
// contrast, saturation and exposedness weight maps.
type Fusion struct{}

// NewFusion returns the fusion stage.
func NewFusion() *Fusion { return &Fusion{} }

// ID implements Stage.
func (s *Fusion) ID() params.StageID { return params.StageFusion }

// Apply implements Stage.
func (s *Fusion) Apply(img *pixel.Image, store *params.Store) (*pixel.Image, error) {
	return guard(s.ID(), img, func() (*pixel.Image, error) {
		if !store.Bool("fusion_enabled") {
			return img.Clone(), nil
		}
		levels := int(store.Int("fusion_laplacian_levels"))
		wc := store.Float("fusion_contrast_weight")
		ws := store.Float("fusion_saturation_weight")
		we := store.Float("fusion_exposedness_weight")
		sc := store.Float("fusion_sigma_contrast")
		ss := store.Float("fusion_sigma_saturation")
		se := store.Float("fusion_sigma_exposedness")

		variants := []*pixel.Image{
			img.Clone(),                        // V1: identity
			mildCLAHEVariant(img),              // V2: mild CLAHE on L, clip 1.5, tile 16
			unsharpVariant(img, unsharpSigma),  // V3: unsharp mask
		}

		weights := weightMaps(variants, wc, ws, we, sc, ss, se)
		out := fuse(variants, weights, levels)
		out.ClampToUnit()
		return out, nil
	})
}

// mildCLAHEVariant is fusion's V2 (spec §4.3.6): a gentle
// contrast-limited adaptive histogram equalization of the L channel,
// fixed at clip limit 1.5 and tile size 16 regardless of the CLAHE
// stage's own configured parameters.
func mildCLAHEVariant(img *pixel.Image) *pixel.Image {
	r, g, b := img.Planes()
	l, a, bb := pixel.RGBToLAB(r, g, b)
	lEq := claheGray(l, img.W, img.H, 1.5, 16, 0, 100)
	or, og, ob := pixel.LABToRGB(lEq, a, bb)
	out := pixel.FromPlanes(img.W, img.H, or, og, ob)
	out.ClampToUnit()
	return out
}

// unsharpVariant is fusion's V3 (spec §4.3.6): a Gaussian-blurred copy
// at the given sigma, blended back as 1.2*img - 0.2*blur.
func unsharpVariant(img *pixel.Image, sigma float32) *pixel.Image {
	blur := pixel.GaussianBlurImage(img, sigma)
	r, g, b := img.Planes()
	br, bg, bb := blur.Planes()
	n := len(r)
	or := make([]float32, n)
	og := make([]float32, n)
	ob := make([]float32, n)
	for i := 0; i < n; i++ {
		or[i] = pixel.Clamp01(1.2*r[i] - 0.2*br[i])
		og[i] = pixel.Clamp01(1.2*g[i] - 0.2*bg[i])
		ob[i] = pixel.Clamp01(1.2*b[i] - 0.2*bb[i])
	}
	return pixel.FromPlanes(img.W, img.H, or, og, ob)
}

// contrastWeight is the absolute Laplacian response of the image's
// luma, favoring edges and texture.
func contrastWeight(img *pixel.Image) []float32 {
	r, g, b := img.Planes()
	luma := pixel.Luma601(r, g, b)
	lap := pixel.Laplacian(luma, img.W, img.H)
	out := make([]float32, len(lap))
	for i, v := range lap {
		if v < 0 {
			v = -v
		}
		out[i] = v
	}
	return out
}

// saturationWeight is the per-pixel standard deviation across the
// three color channels, favoring vivid, saturated regions.
func saturationWeight(img *pixel.Image) []float32 {
	r, g, b := img.Planes()
	out := make([]float32, len(r))
	for i := range r {
		mean := (r[i] + g[i] + b[i]) / 3
		dr := r[i] - mean
		dg := g[i] - mean
		db := b[i] - mean
		out[i] = float32(math.Sqrt(float64(dr*dr+dg*dg+db*db) / 3))
	}
	return out
}

// exposednessWeight favors well-exposed midtones over near-black or
// near-saturated pixels via a Gaussian centered at 0.5 (spec §4.3.6,
// after Mertens' exposure-fusion weight).
func exposednessWeight(img *pixel.Image, sigma float32) []float32 {
	r, g, b := img.Planes()
	out := make([]float32, len(r))
	denom := 2 * sigma * sigma
	gauss := func(v float32) float32 {
		d := v - 0.5
		return float32(math.Exp(-float64(d*d) / float64(denom)))
	}
	for i := range r {
		out[i] = gauss(r[i]) * gauss(g[i]) * gauss(b[i])
	}
	return out
}

// combinedWeight multiplies the three weight families, each raised to
// its configured exponent. The contrast and saturation maps are first
// Gaussian-smoothed with sigma sc and ss; se is the width of the
// exposedness Gaussian itself, and that map is not smoothed.
func combinedWeight(img *pixel.Image, wc, ws, we, sc, ss, se float32) []float32 {
	cw := contrastWeight(img)
	sw := saturationWeight(img)
	ew := exposednessWeight(img, se)

	cw = pixel.GaussianBlur1D(cw, img.W, img.H, sc)
	sw = pixel.GaussianBlur1D(sw, img.W, img.H, ss)

	out := make([]float32, len(cw))
	for i := range out {
		c := float32(math.Pow(float64(cw[i])+1e-6, float64(wc)))
		s := float32(math.Pow(float64(sw[i])+1e-6, float64(ws)))
		e := float32(math.Pow(float64(ew[i])+1e-6, float64(we)))
		out[i] = c * s * e
	}
	return out
}

// weightMaps returns one per-pixel weight map per variant, normalized
// so they sum to 1 at every pixel (spec §4.3.6).
func weightMaps(variants []*pixel.Image, wc, ws, we, sc, ss, se float32) [][]float32 {
	weights := make([][]float32, len(variants))
	for i, v := range variants {
		weights[i] = combinedWeight(v, wc, ws, we, sc, ss, se)
	}

	npix := len(weights[0])
	for p := 0; p < npix; p++ {
		var sum float32
		for i := range weights {
			sum += weights[i][p]
		}
		if sum <= 1e-6 {
			even := 1 / float32(len(weights))
			for i := range weights {
				weights[i][p] = even
			}
			continue
		}
		for i := range weights {
			weights[i][p] /= sum
		}
	}
	return weights
}

// fuse blends the variants per channel via Laplacian-pyramid fusion
// guided by the Gaussian pyramids of their respective normalized
// weight maps (spec §4.3.6).
func fuse(variants []*pixel.Image, weights [][]float32, levels int) *pixel.Image {
	if levels < 1 {
		levels = 1
	}
	if levels > pixel.MaxPyramidLevels {
		levels = pixel.MaxPyramidLevels
	}

	w, h := variants[0].W, variants[0].H
	lapPyrs := make([][]*pixel.Image, len(variants))
	gaussWPyrs := make([][]*pixel.Image, len(variants))
	for i, v := range variants {
		lapPyrs[i] = pixel.BuildLaplacianPyramid(v, levels)

		weightImg := pixel.New(w, h)
		for p := 0; p < w*h; p++ {
			wv := weights[i][p]
			weightImg.Pix[p*3], weightImg.Pix[p*3+1], weightImg.Pix[p*3+2] = wv, wv, wv
		}
		gaussWPyrs[i] = pixel.BuildGaussianPyramid(weightImg, levels)
	}

	fused := make([]*pixel.Image, levels)
	for l := 0; l < levels; l++ {
		fused[l] = blendLevel(lapPyrs, gaussWPyrs, l)
	}
	return pixel.Collapse(fused)
}

// blendLevel sums, across every variant, one Laplacian-pyramid level
// weighted by the matching Gaussian-pyramid weight level.
func blendLevel(lapPyrs, gaussWPyrs [][]*pixel.Image, l int) *pixel.Image {
	out := pixel.New(lapPyrs[0][l].W, lapPyrs[0][l].H)
	for i := range lapPyrs {
		lap := lapPyrs[i][l]
		wimg := gaussWPyrs[i][l]
		for p := range out.Pix {
			out.Pix[p] += lap.Pix[p] * wimg.Pix[p]
		}
	}
	return out
}
