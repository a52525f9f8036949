/*
NAME
  autotune.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package autotune implements the per-stage parameter estimators of
// spec §4.5: pure functions from an image to a partial parameter
// override map, registered per (stage, mode) pair. Estimators never
// mutate a params.Store themselves; the engine applies their output
// transactionally.
package autotune

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// Mode selects between an estimator's standard and literature-based
// enhanced variant.
type Mode int

const (
	Standard Mode = iota
	Enhanced
)

// Estimator proposes parameter overrides for one stage from a single
// image. Implementations must handle degenerate inputs (uniform
// images, tiny images) by returning an empty map.
type Estimator func(img *pixel.Image) params.Overrides

// WaterType classifies the dominant color-cast regime of an image
// (spec Glossary), driving white-balance method selection.
type WaterType int

const (
	Balanced WaterType = iota
	GreenLake
	DeepBlueLoss
	ShallowRedLoss
)

func (w WaterType) String() string {
	switch w {
	case GreenLake:
		return "green_lake"
	case DeepBlueLoss:
		return "deep_blue_loss"
	case ShallowRedLoss:
		return "shallow_red_loss"
	default:
		return "balanced"
	}
}

// ClassifyWaterType applies the fixed channel-share thresholds from
// the spec glossary.
func ClassifyWaterType(img *pixel.Image) WaterType {
	r, g, b := img.Planes()
	meanR := stat.Mean(toF64(r), nil)
	meanG := stat.Mean(toF64(g), nil)
	meanB := stat.Mean(toF64(b), nil)

	sum := meanR + meanG + meanB
	if sum <= 1e-9 {
		return Balanced
	}
	greenShare := meanG / sum
	blueShare := meanB / sum
	redShare := meanR / sum

	switch {
	case greenShare > 0.40:
		return GreenLake
	case blueShare < 0.25:
		return DeepBlueLoss
	case redShare < 0.20:
		return ShallowRedLoss
	default:
		return Balanced
	}
}

// registry maps a stage and mode to its estimator. Built once in
// init(); stages/modes with no literature-based enhanced variant
// (color rebalance, CLAHE, fusion) only register Standard.
var registry = map[params.StageID]map[Mode]Estimator{}

func register(stage params.StageID, mode Mode, e Estimator) {
	if registry[stage] == nil {
		registry[stage] = make(map[Mode]Estimator)
	}
	registry[stage][mode] = e
}

// Lookup returns the estimator for (stage, mode), falling back to
// Standard if no Enhanced variant is registered for that stage.
func Lookup(stage params.StageID, mode Mode) (Estimator, bool) {
	byMode, ok := registry[stage]
	if !ok {
		return nil, false
	}
	if e, ok := byMode[mode]; ok {
		return e, true
	}
	e, ok := byMode[Standard]
	return e, ok
}

func init() {
	register(params.StageWhiteBalance, Standard, whiteBalanceStandard)
	register(params.StageWhiteBalance, Enhanced, whiteBalanceEnhanced)
	register(params.StageUDCP, Standard, udcpStandard)
	register(params.StageUDCP, Enhanced, udcpEnhanced)
	register(params.StageBeerLambert, Standard, beerLambertStandard)
	register(params.StageBeerLambert, Enhanced, beerLambertEnhanced)
	register(params.StageColorRebalance, Standard, colorRebalanceStandard)
	register(params.StageCLAHE, Standard, claheStandard)
	register(params.StageFusion, Standard, fusionStandard)
}

// toF64 widens a float32 plane for gonum/stat, which only accepts
// float64 slices.
func toF64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

// isDegenerate reports whether img is too small or too close to
// uniform for a meaningful statistical estimate.
func isDegenerate(img *pixel.Image) bool {
	if img.W < 4 || img.H < 4 {
		return true
	}
	r, g, b := img.Planes()
	return stat.StdDev(toF64(r), nil) < 1e-6 &&
		stat.StdDev(toF64(g), nil) < 1e-6 &&
		stat.StdDev(toF64(b), nil) < 1e-6
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
