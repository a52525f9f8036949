/*
NAME
  preview.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package preview implements the deterministic preview scaler (spec
// §4.2, component C2): a bounded downsample used to keep interactive
// and quality-analysis paths cheap on oversize inputs.
package preview

import "github.com/ausocean/aqualix/pixel"

// DefaultMaxSide is the default bound used by
// engine.Engine.ProcessForPreview (spec §4.2).
const DefaultMaxSide = 1024

// Downsample returns (preview, scale). If max(H, W) <= maxSide, it
// returns a cloned copy of img and scale 1.0. Otherwise it returns an
// area-downsampled copy at the largest scale that keeps both
// dimensions <= maxSide.
func Downsample(img *pixel.Image, maxSide int) (*pixel.Image, float32) {
	maxDim := img.W
	if img.H > maxDim {
		maxDim = img.H
	}
	if maxDim <= maxSide {
		return img.Clone(), 1.0
	}

	scale := float32(maxSide) / float32(maxDim)
	nw := int(float32(img.W) * scale)
	nh := int(float32(img.H) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return pixel.ResizeImageArea(img, nw, nh), scale
}
