/*
NAME
  whitebalance.go

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
	"fmt"
	"math"
	"sort"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// WhiteBalance dispatches to one of five illuminant-estimation
// methods selected by the white_balance_method parameter (spec
// §4.3.1).
type WhiteBalance struct{}

// NewWhiteBalance returns the white balance stage.
func NewWhiteBalance() *WhiteBalance { return &WhiteBalance{} }

// ID implements Stage.
func (s *WhiteBalance) ID() params.StageID { return params.StageWhiteBalance }

// Apply implements Stage.
func (s *WhiteBalance) Apply(img *pixel.Image, store *params.Store) (*pixel.Image, error) {
	return guard(s.ID(), img, func() (*pixel.Image, error) {
		if !store.Bool("white_balance_enabled") {
			return img.Clone(), nil
		}
		method := store.Choice("white_balance_method")
		switch method {
		case "gray_world":
			return grayWorld(img, float64(store.Int("gray_world_percentile")), float64(store.Float("gray_world_max_adjustment"))), nil
		case "white_patch":
			return whitePatch(img, float64(store.Int("white_patch_percentile")), float64(store.Float("white_patch_max_adjustment"))), nil
		case "shades_of_gray":
			return shadesOfGray(img, float64(store.Int("shades_of_gray_norm")), float64(store.Float("shades_of_gray_max_adjustment"))), nil
		case "grey_edge":
			return greyEdge(img, float64(store.Int("grey_edge_norm")), store.Float("grey_edge_sigma"), float64(store.Float("grey_edge_max_adjustment"))), nil
		case "lake_green_water":
			return lakeGreenWater(img,
				store.Float("lake_green_reduction"),
				store.Float("lake_magenta_strength"),
				store.Float("lake_gray_world_influence"),
			), nil
		default:
			return nil, fmt.Errorf("unknown white balance method %q", method)
		}
	})
}

// percentile returns the p-th percentile (0-100) of data using
// nearest-rank-free linear interpolation, matching numpy's default.
func percentile(data []float32, p float64) float32 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float32, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := float32(rank - float64(lo))
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func clampGain(g, maxAdj float32) float32 {
	min := 1 / maxAdj
	if g < min {
		return min
	}
	if g > maxAdj {
		return maxAdj
	}
	return g
}

// scaleChannels multiplies each plane by its gain and clamps to
// [0,1], returning the resulting image.
func scaleChannels(img *pixel.Image, gr, gg, gb float32) *pixel.Image {
	r, g, b := img.Planes()
	for i := range r {
		r[i] = pixel.Clamp01(r[i] * gr)
		g[i] = pixel.Clamp01(g[i] * gg)
		b[i] = pixel.Clamp01(b[i] * gb)
	}
	return pixel.FromPlanes(img.W, img.H, r, g, b)
}

// grayWorld implements the common gray-world pattern from spec
// §4.3.1: per-channel estimator is the p-th percentile, gain is the
// ratio to the mean estimator, clamped to [1/M, M].
func grayWorld(img *pixel.Image, p float64, maxAdj float64) *pixel.Image {
	r, g, b := img.Planes()
	er := percentile(r, p)
	eg := percentile(g, p)
	eb := percentile(b, p)
	mean := (er + eg + eb) / 3
	if mean <= 0 {
		return img.Clone()
	}
	m := float32(maxAdj)
	gr := clampGain(pixel.Div(mean, er), m)
	gg := clampGain(pixel.Div(mean, eg), m)
	gb := clampGain(pixel.Div(mean, eb), m)
	return scaleChannels(img, gr, gg, gb)
}

// whitePatch assumes the brightest pixels (near the p-th percentile,
// p close to 99) should be white: gain is 1/e_c directly, not
// normalized to the channel mean.
func whitePatch(img *pixel.Image, p float64, maxAdj float64) *pixel.Image {
	r, g, b := img.Planes()
	er := percentile(r, p)
	eg := percentile(g, p)
	eb := percentile(b, p)
	if er <= 0 || eg <= 0 || eb <= 0 {
		return img.Clone()
	}
	m := float32(maxAdj)
	gr := clampGain(pixel.Div(1, er), m)
	gg := clampGain(pixel.Div(1, eg), m)
	gb := clampGain(pixel.Div(1, eb), m)
	return scaleChannels(img, gr, gg, gb)
}

// minkowskiNorm computes (mean(channel^p))^(1/p) over a plane.
func minkowskiNorm(data []float32, p float64) float32 {
	var sum float64
	for _, v := range data {
		sum += math.Pow(float64(v)+1e-6, p)
	}
	mean := sum / float64(len(data))
	return float32(math.Pow(mean, 1.0/p))
}

// shadesOfGray generalizes gray-world via the Minkowski norm.
func shadesOfGray(img *pixel.Image, n float64, maxAdj float64) *pixel.Image {
	r, g, b := img.Planes()
	nr := minkowskiNorm(r, n)
	ng := minkowskiNorm(g, n)
	nb := minkowskiNorm(b, n)
	mean := (nr + ng + nb) / 3
	if mean <= 0 {
		return img.Clone()
	}
	m := float32(maxAdj)
	gr := clampGain(pixel.Div(mean, nr), m)
	gg := clampGain(pixel.Div(mean, ng), m)
	gb := clampGain(pixel.Div(mean, nb), m)
	return scaleChannels(img, gr, gg, gb)
}

// greyEdge estimates illumination from image derivatives rather than
// raw intensities (spec §4.3.1): prefilter with Gaussian sigma (if
// >0), take |dx|+|dy| per channel, then take the Minkowski norm of
// that gradient magnitude.
func greyEdge(img *pixel.Image, n float64, sigma float32, maxAdj float64) *pixel.Image {
	r, g, b := img.Planes()
	if sigma > 0 {
		r = pixel.GaussianBlur1D(r, img.W, img.H, sigma)
		g = pixel.GaussianBlur1D(g, img.W, img.H, sigma)
		b = pixel.GaussianBlur1D(b, img.W, img.H, sigma)
	}
	dr := pixel.GradientMagnitudeL1(r, img.W, img.H)
	dg := pixel.GradientMagnitudeL1(g, img.W, img.H)
	db := pixel.GradientMagnitudeL1(b, img.W, img.H)

	nr := minkowskiNorm(dr, n)
	ng := minkowskiNorm(dg, n)
	nb := minkowskiNorm(db, n)
	mean := (nr + ng + nb) / 3
	if mean <= 0 {
		return img.Clone()
	}
	m := float32(maxAdj)
	gr := clampGain(pixel.Div(mean, nr), m)
	gg := clampGain(pixel.Div(mean, ng), m)
	gb := clampGain(pixel.Div(mean, nb), m)
	return scaleChannels(img, gr, gg, gb)
}

// lakeGreenWater is the specialized freshwater/green-cast correction
// from spec §4.3.1: targeted green reduction and magenta compensation
// driven by a per-pixel green-dominance weight, followed by a
// gray-world pass blended toward identity.
func lakeGreenWater(img *pixel.Image, greenReduction, magentaStrength, gwInfluence float32) *pixel.Image {
	r, g, b := img.Planes()
	n := len(r)
	gCorr := make([]float32, n)
	rBoost := make([]float32, n)
	bBoost := make([]float32, n)

	for i := 0; i < n; i++ {
		d := pixel.Div(1, 1+pixel.Div(r[i], g[i])+pixel.Div(b[i], g[i]))
		gCorr[i] = g[i] * (1 - d*greenReduction)
		boost := 1 + d*magentaStrength
		rBoost[i] = r[i] * boost
		bBoost[i] = b[i] * boost
	}

	corrected := pixel.FromPlanes(img.W, img.H, rBoost, gCorr, bBoost)
	rc, gc, bc := corrected.Planes()

	var rMean, gMean, bMean float64
	for i := 0; i < n; i++ {
		rMean += float64(rc[i])
		gMean += float64(gc[i])
		bMean += float64(bc[i])
	}
	rMean /= float64(n)
	gMean /= float64(n)
	bMean /= float64(n)
	grayMean := (rMean + gMean + bMean) / 3

	if grayMean <= 0 {
		corrected.ClampToUnit()
		return corrected
	}

	const maxGWAdjustment = 2.0
	rScaleGW := clampGain(float32(grayMean/(rMean+1e-6)), maxGWAdjustment)
	gScaleGW := clampGain(float32(grayMean/(gMean+1e-6)), maxGWAdjustment)
	bScaleGW := clampGain(float32(grayMean/(bMean+1e-6)), maxGWAdjustment)

	rScale := 1 + gwInfluence*(rScaleGW-1)
	gScale := 1 + gwInfluence*(gScaleGW-1)
	bScale := 1 + gwInfluence*(bScaleGW-1)

	out := scaleChannels(corrected, rScale, gScale, bScale)
	return out
}
