/*
NAME
  beerlambert.go

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

// BeerLambert compensates for wavelength-dependent light attenuation
// with depth, using the Beer-Lambert attenuation law (spec §4.3.3):
// red attenuates fastest, blue slowest.
type BeerLambert struct{}

// NewBeerLambert returns the Beer-Lambert stage.
func NewBeerLambert() *BeerLambert { return &BeerLambert{} }

// ID implements Stage.
func (s *BeerLambert) ID() params.StageID { return params.StageBeerLambert }

// beerLambertGainCap bounds compensationGain against pathological
// inputs (depth or coefficient outside schema range); it is not the
// spec's enhance_factor, which is a separate, post-hoc global gain
// (spec §4.3.3 step 3).
const beerLambertGainCap = 1e6

// Apply implements Stage.
func (s *BeerLambert) Apply(img *pixel.Image, store *params.Store) (*pixel.Image, error) {
	return guard(s.ID(), img, func() (*pixel.Image, error) {
		if !store.Bool("beer_lambert_enabled") {
			return img.Clone(), nil
		}
		depthFactor := store.Float("beer_lambert_depth_factor")
		redCoef := store.Float("beer_lambert_red_coeff")
		greenCoef := store.Float("beer_lambert_green_coeff")
		blueCoef := store.Float("beer_lambert_blue_coeff")
		enhanceFactor := store.Float("beer_lambert_enhance_factor")

		r, g, b := img.Planes()
		n := len(r)

		// Per-pixel depth proxy from inverted luminance: darker
		// regions are assumed deeper (spec §4.3.3 step 1).
		luma := pixel.Luma601(r, g, b)
		depthMap := make([]float32, n)
		for i := range luma {
			depthMap[i] = (1 - luma[i]) * depthFactor
		}

		or := make([]float32, n)
		og := make([]float32, n)
		ob := make([]float32, n)
		for i := 0; i < n; i++ {
			d := depthMap[i]
			or[i] = r[i] * compensationGain(redCoef, d, beerLambertGainCap) * enhanceFactor
			og[i] = g[i] * compensationGain(greenCoef, d, beerLambertGainCap) * enhanceFactor
			ob[i] = b[i] * compensationGain(blueCoef, d, beerLambertGainCap) * enhanceFactor
		}

		// Per-channel soft normalization: if the 99th percentile of a
		// channel exceeds 1, divide that channel by it (spec §4.3.3
		// step 4).
		normalizeChannel(or)
		normalizeChannel(og)
		normalizeChannel(ob)

		for i := 0; i < n; i++ {
			or[i] = pixel.Clamp01(or[i])
			og[i] = pixel.Clamp01(og[i])
			ob[i] = pixel.Clamp01(ob[i])
		}
		return pixel.FromPlanes(img.W, img.H, or, og, ob), nil
	})
}

// normalizeChannel divides data in place by its 99th percentile when
// that percentile exceeds 1, preventing oversaturation while
// preserving dynamic range (spec §4.3.3 step 4).
func normalizeChannel(data []float32) {
	p99 := percentile(data, 99)
	if p99 <= 1 {
		return
	}
	for i, v := range data {
		data[i] = v / p99
	}
}

// compensationGain inverts the Beer-Lambert transmittance
// exp(-coef*depth) to recover the pre-attenuation signal, capped at
// maxGain to avoid amplifying noise-dominated pixels unboundedly.
func compensationGain(coef, depth, maxGain float32) float32 {
	transmittance := float32(math.Exp(-float64(coef) * float64(depth)))
	if transmittance <= 0 {
		return maxGain
	}
	gain := 1 / transmittance
	if gain > maxGain {
		return maxGain
	}
	return gain
}
