/*
NAME
  rebalance.go

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
	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// ColorRebalance applies a user-tunable 3x3 color mixing matrix with
// a saturation guard and an optional luminance-preservation pass
// (spec §4.3.4).
type ColorRebalance struct{}

// NewColorRebalance returns the color rebalance stage.
func NewColorRebalance() *ColorRebalance { return &ColorRebalance{} }

// ID implements Stage.
func (s *ColorRebalance) ID() params.StageID { return params.StageColorRebalance }

// Apply implements Stage.
func (s *ColorRebalance) Apply(img *pixel.Image, store *params.Store) (*pixel.Image, error) {
	return guard(s.ID(), img, func() (*pixel.Image, error) {
		if !store.Bool("color_rebalance_enabled") {
			return img.Clone(), nil
		}

		m := [3][3]float32{
			{store.Float("color_rebalance_rr"), store.Float("color_rebalance_rg"), store.Float("color_rebalance_rb")},
			{store.Float("color_rebalance_gr"), store.Float("color_rebalance_gg"), store.Float("color_rebalance_gb")},
			{store.Float("color_rebalance_br"), store.Float("color_rebalance_bg"), store.Float("color_rebalance_bb")},
		}
		satLimit := store.Float("color_rebalance_saturation_limit")
		preserveLum := store.Bool("color_rebalance_preserve_luminance")

		r, g, b := img.Planes()
		n := len(r)
		origLuma := pixel.Luma601(r, g, b)

		or := make([]float32, n)
		og := make([]float32, n)
		ob := make([]float32, n)
		for i := 0; i < n; i++ {
			rr := m[0][0]*r[i] + m[0][1]*g[i] + m[0][2]*b[i]
			gg := m[1][0]*r[i] + m[1][1]*g[i] + m[1][2]*b[i]
			bb := m[2][0]*r[i] + m[2][1]*g[i] + m[2][2]*b[i]
			or[i], og[i], ob[i] = rr, gg, bb
		}

		mixed := pixel.FromPlanes(img.W, img.H, or, og, ob)
		mixed = guardSaturation(mixed, satLimit)

		if preserveLum {
			mixed = restoreLuminance(mixed, origLuma)
		}
		mixed.ClampToUnit()
		return mixed, nil
	})
}

// guardSaturation converts to HSV and caps the saturation channel at
// limit, undoing over-aggressive matrix mixes that push colors toward
// oversaturated primaries (spec §4.3.4).
func guardSaturation(img *pixel.Image, limit float32) *pixel.Image {
	r, g, b := img.Planes()
	h, s, v := pixel.RGBToHSV(r, g, b)
	for i := range s {
		if s[i] > limit {
			s[i] = limit
		}
	}
	rr, gg, bb := pixel.HSVToRGB(h, s, v)
	return pixel.FromPlanes(img.W, img.H, rr, gg, bb)
}

// restoreLuminance rescales each pixel so its BT.601 luma matches the
// pre-mix luma, preserving the matrix's hue/saturation shift without
// its brightness side effect (spec §4.3.4).
func restoreLuminance(img *pixel.Image, origLuma []float32) *pixel.Image {
	r, g, b := img.Planes()
	newLuma := pixel.Luma601(r, g, b)
	n := len(r)
	or := make([]float32, n)
	og := make([]float32, n)
	ob := make([]float32, n)
	for i := 0; i < n; i++ {
		ratio := pixel.Div(origLuma[i], newLuma[i])
		or[i] = r[i] * ratio
		og[i] = g[i] * ratio
		ob[i] = b[i] * ratio
	}
	return pixel.FromPlanes(img.W, img.H, or, og, ob)
}
