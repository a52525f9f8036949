/*
NAME
  estimators.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package autotune

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// whiteBalanceStandard classifies the water type and picks a method
// and its key parameter accordingly (spec §4.5).
func whiteBalanceStandard(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	r, g, b := img.Planes()
	meanR := stat.Mean(toF64(r), nil)
	meanG := stat.Mean(toF64(g), nil)
	meanB := stat.Mean(toF64(b), nil)
	dist := math.Sqrt((meanR-meanG)*(meanR-meanG) + (meanG-meanB)*(meanG-meanB) + (meanR-meanB)*(meanR-meanB))

	wt := ClassifyWaterType(img)
	ov := params.Overrides{}
	switch wt {
	case GreenLake:
		ov["white_balance_method"] = params.ChoiceValue("lake_green_water")
		ov["lake_green_reduction"] = params.FloatValue(float32(clampf(0.3+dist, 0, 1)))
	case DeepBlueLoss:
		ov["white_balance_method"] = params.ChoiceValue("gray_world")
		ov["gray_world_max_adjustment"] = params.FloatValue(float32(clampf(1.5+dist*2, 1, 5)))
	case ShallowRedLoss:
		ov["white_balance_method"] = params.ChoiceValue("shades_of_gray")
		ov["shades_of_gray_norm"] = params.IntValue(6)
	default:
		ov["white_balance_method"] = params.ChoiceValue("gray_world")
	}
	return ov
}

// whiteBalanceEnhanced is the literature-based variant (spec §4.5):
// Iqbal et al. (2007)'s histogram-spread diagnostic drives the
// gray-world percentile, Ancuti et al. (2012)'s channel Euclidean
// distance and the saturated/underexposed pixel fractions drive the
// max-adjustment clamp and the method choice.
func whiteBalanceEnhanced(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	r, g, b := img.Planes()
	n := len(r)

	maxSpread := histogramSpread(r)
	if s := histogramSpread(g); s > maxSpread {
		maxSpread = s
	}
	if s := histogramSpread(b); s > maxSpread {
		maxSpread = s
	}

	meanR := stat.Mean(toF64(r), nil)
	meanG := stat.Mean(toF64(g), nil)
	meanB := stat.Mean(toF64(b), nil)
	euclid := math.Sqrt((meanR-meanG)*(meanR-meanG) + (meanG-meanB)*(meanG-meanB) + (meanB-meanR)*(meanB-meanR))
	colorCast := math.Max(math.Abs(meanR-meanG), math.Max(math.Abs(meanG-meanB), math.Abs(meanB-meanR)))

	var saturated, underexposed int
	for i := 0; i < n; i++ {
		if r[i] > 0.98 || g[i] > 0.98 || b[i] > 0.98 {
			saturated++
		}
		if r[i] < 0.02 && g[i] < 0.02 && b[i] < 0.02 {
			underexposed++
		}
	}
	satFrac := float64(saturated) / float64(n)
	underFrac := float64(underexposed) / float64(n)

	ov := params.Overrides{}

	const basePercentile = 15.0
	switch {
	case maxSpread > 4.5:
		ov["gray_world_percentile"] = params.IntValue(int32(clampf(basePercentile-7, 5, 40)))
	case maxSpread > 3.0:
		ov["gray_world_percentile"] = params.IntValue(int32(clampf(basePercentile-5, 5, 40)))
	case maxSpread < 1.5:
		ov["gray_world_percentile"] = params.IntValue(int32(clampf(basePercentile+10, 5, 40)))
	default:
		ov["gray_world_percentile"] = params.IntValue(int32(basePercentile))
	}

	const baseMaxAdj = 2.2
	switch {
	case satFrac > 0.08:
		ov["gray_world_max_adjustment"] = params.FloatValue(float32(clampf(baseMaxAdj-satFrac*8, 1.1, 1.4)))
	case underFrac > 0.15:
		ov["gray_world_max_adjustment"] = params.FloatValue(float32(clampf(baseMaxAdj+underFrac*2, 1.0, 3.0)))
	default:
		ov["gray_world_max_adjustment"] = params.FloatValue(float32(clampf(baseMaxAdj+euclid*3, 1.0, 2.8)))
	}

	switch {
	case colorCast > 0.15 && euclid > 0.12:
		ov["white_balance_method"] = params.ChoiceValue("gray_world")
		if _, ok := ov["gray_world_percentile"]; !ok {
			ov["gray_world_percentile"] = params.IntValue(12)
		}
	case satFrac > 0.05:
		ov["white_balance_method"] = params.ChoiceValue("white_patch")
		ov["white_patch_percentile"] = params.IntValue(int32(clampf(95+satFrac*20, 90, 98)))
	default:
		if ClassifyWaterType(img) == GreenLake {
			ov["white_balance_method"] = params.ChoiceValue("lake_green_water")
			ov["lake_green_reduction"] = params.FloatValue(float32(clampf(0.3+euclid, 0, 1)))
		} else {
			ov["white_balance_method"] = params.ChoiceValue("gray_world")
		}
	}

	return ov
}

// histogramSpread computes the standard deviation of a 256-bin
// histogram's per-bin pixel counts, normalized by the mean per-bin
// count so the metric is comparable across image sizes (Iqbal et
// al.'s histogram-spread diagnostic, here made scale-invariant).
func histogramSpread(data []float32) float64 {
	var counts [256]float64
	for _, v := range data {
		bin := int(v*255 + 0.5)
		if bin < 0 {
			bin = 0
		}
		if bin > 255 {
			bin = 255
		}
		counts[bin]++
	}
	mean := float64(len(data)) / 256
	if mean <= 0 {
		return 0
	}
	return stat.StdDev(counts[:], nil) / mean
}

// darkChannelMean is the UDCP dark channel (patch size 15, the
// estimator's fixed analysis window) averaged over the whole image,
// used by both UDCP estimators as a haze-density proxy.
func darkChannelMean(img *pixel.Image) float64 {
	r, g, b := img.Planes()
	n := len(r)
	minRGB := make([]float32, n)
	for i := 0; i < n; i++ {
		m := r[i]
		if g[i] < m {
			m = g[i]
		}
		if b[i] < m {
			m = b[i]
		}
		minRGB[i] = m
	}
	dark := pixel.Erode(minRGB, img.W, img.H, 15)
	return stat.Mean(toF64(dark), nil)
}

// udcpStandard sets omega and t0 from the dark-channel haze density
// alone, leaving the guided-filter and window parameters at schema
// defaults.
func udcpStandard(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	dark := darkChannelMean(img)
	ov := params.Overrides{}
	switch {
	case dark > 0.5:
		ov["udcp_omega"] = params.FloatValue(0.95)
	case dark < 0.2:
		ov["udcp_omega"] = params.FloatValue(0.75)
	default:
		ov["udcp_omega"] = params.FloatValue(0.85)
	}
	ov["udcp_t0"] = params.FloatValue(float32(clampf(0.15-0.1*(dark-0.35), 0.08, 0.25)))
	return ov
}

// udcpEnhanced additionally consults the blue/red channel ratio, the
// mean Sobel gradient magnitude, and a Laplacian-variance noise
// proxy to scale omega, t0, the analysis window and the guided-filter
// epsilon (spec §4.5).
func udcpEnhanced(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	r, g, b := img.Planes()
	meanR := stat.Mean(toF64(r), nil)
	meanB := stat.Mean(toF64(b), nil)
	blueRedRatio := 1.0
	if meanR > 1e-6 {
		blueRedRatio = meanB / meanR
	}

	gray := pixel.Luma601(r, g, b)
	gx, gy := pixel.Sobel(gray, img.W, img.H)
	var gradSum float64
	for i := range gx {
		gradSum += math.Hypot(float64(gx[i]), float64(gy[i]))
	}
	gradMean := gradSum / float64(len(gx))

	lap := pixel.Laplacian(gray, img.W, img.H)
	noiseProxy := stat.Variance(toF64(lap), nil)

	ov := params.Overrides{}
	var omega float32
	switch {
	case blueRedRatio > 1.4:
		omega = 0.95
	case blueRedRatio < 0.8:
		omega = 0.70
	default:
		omega = 0.85
	}
	ov["udcp_omega"] = params.FloatValue(omega)

	depthProxy := darkChannelMean(img) - 0.35
	ov["udcp_t0"] = params.FloatValue(float32(clampf(0.15+depthProxy, 0.08, 0.25)))

	maxDim := float64(img.W)
	if float64(img.H) > maxDim {
		maxDim = float64(img.H)
	}
	window := clampf(maxDim/40*(1+gradMean), 9, 25)
	wi := int(window)
	if wi%2 == 0 {
		wi++
	}
	ov["udcp_window_size"] = params.IntValue(int32(wi))

	ov["udcp_guided_eps"] = params.FloatValue(float32(clampf(0.0005+noiseProxy*0.01, 0.0001, 1)))
	return ov
}

// spectralAbsorption is the fixed {R,G,B} table from spec §4.5.
var spectralAbsorption = [3]float64{0.45, 0.12, 0.05}

// beerLambertStandard derives depth_factor and per-channel
// coefficients from channel-mean loss alone.
func beerLambertStandard(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	r, g, b := img.Planes()
	meanR := stat.Mean(toF64(r), nil)
	meanG := stat.Mean(toF64(g), nil)
	meanB := stat.Mean(toF64(b), nil)
	darkness := 1 - (meanR+meanG+meanB)/3

	ov := params.Overrides{}
	ov["beer_lambert_depth_factor"] = params.FloatValue(float32(clampf(0.1+darkness*0.3, 0, 1)))
	ov["beer_lambert_red_coeff"] = params.FloatValue(float32(spectralAbsorption[0]))
	ov["beer_lambert_green_coeff"] = params.FloatValue(float32(spectralAbsorption[1]))
	ov["beer_lambert_blue_coeff"] = params.FloatValue(float32(spectralAbsorption[2]))
	return ov
}

// beerLambertEnhanced additionally scales the spectral table by a
// local scattering estimate: the mean absolute deviation of luma from
// a 15x15 box-filtered local mean (spec §4.5).
func beerLambertEnhanced(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	r, g, b := img.Planes()
	meanR := stat.Mean(toF64(r), nil)
	meanG := stat.Mean(toF64(g), nil)
	meanB := stat.Mean(toF64(b), nil)
	darkness := 1 - (meanR+meanG+meanB)/3

	gray := pixel.Luma601(r, g, b)
	boxMean := pixel.BoxFilter1D(gray, img.W, img.H, 7)
	var mad float64
	for i := range gray {
		mad += math.Abs(float64(gray[i] - boxMean[i]))
	}
	mad /= float64(len(gray))
	scatter := 1 + mad*5

	ov := params.Overrides{}
	ov["beer_lambert_depth_factor"] = params.FloatValue(float32(clampf(0.1+darkness*0.3, 0, 1)))
	ov["beer_lambert_red_coeff"] = params.FloatValue(float32(clampf(spectralAbsorption[0]*scatter*(1+darkness), 0.1, 2.0)))
	ov["beer_lambert_green_coeff"] = params.FloatValue(float32(clampf(spectralAbsorption[1]*scatter*(1+darkness), 0.1, 1.5)))
	ov["beer_lambert_blue_coeff"] = params.FloatValue(float32(clampf(spectralAbsorption[2]*scatter*(1+darkness), 0.05, 1.0)))
	ov["beer_lambert_enhance_factor"] = params.FloatValue(float32(clampf(1+darkness, 1.0, 3.0)))
	return ov
}

// colorRebalanceStandard drives the matrix off-diagonals and
// saturation guard from channel-pair Pearson correlations and mean
// saturation (spec §4.5).
func colorRebalanceStandard(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	r, g, b := img.Planes()
	rf, gf, bf := toF64(r), toF64(g), toF64(b)
	corrRG := stat.Correlation(rf, gf, nil)
	corrRB := stat.Correlation(rf, bf, nil)
	corrGB := stat.Correlation(gf, bf, nil)

	_, s, _ := pixel.RGBToHSV(r, g, b)
	meanSat := stat.Mean(toF64(s), nil)

	ov := params.Overrides{}
	ov["color_rebalance_rg"] = params.FloatValue(float32(clampf(-0.1*corrRG, -0.5, 0.5)))
	ov["color_rebalance_rb"] = params.FloatValue(float32(clampf(-0.1*corrRB, -0.5, 0.5)))
	ov["color_rebalance_gb"] = params.FloatValue(float32(clampf(-0.1*corrGB, -0.5, 0.5)))
	ov["color_rebalance_saturation_limit"] = params.FloatValue(float32(clampf(0.9-meanSat*0.3, 0, 1)))
	return ov
}

// claheStandard drives clip_limit and tile_size from global contrast,
// local contrast variance and mid-histogram mass (spec §4.5).
func claheStandard(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	r, g, b := img.Planes()
	gray := pixel.Luma601(r, g, b)
	contrast := stat.StdDev(toF64(gray), nil)

	lap := pixel.Laplacian(gray, img.W, img.H)
	localVar := stat.Variance(toF64(lap), nil)

	var midCount int
	for _, v := range gray {
		if v > 0.2 && v < 0.8 {
			midCount++
		}
	}
	midMass := float64(midCount) / float64(len(gray))

	ov := params.Overrides{}
	clip := clampf(1.0+(1-contrast)*2+localVar*5, 0.5, 10.0)
	ov["clahe_clip_limit"] = params.FloatValue(float32(clip))

	tile := clampf(16-midMass*8, 2, 32)
	ov["clahe_tile_size"] = params.IntValue(int32(tile))
	return ov
}

// fusionStandard drives the three blend weights and the pyramid
// depth from edge density, mean saturation and mean exposedness
// (spec §4.5).
func fusionStandard(img *pixel.Image) params.Overrides {
	if isDegenerate(img) {
		return params.Overrides{}
	}
	r, g, b := img.Planes()
	gray := pixel.Luma601(r, g, b)
	grad := pixel.GradientMagnitudeL1(gray, img.W, img.H)
	var edgeCount int
	for _, v := range grad {
		if v > 0.1 {
			edgeCount++
		}
	}
	edgeDensity := float64(edgeCount) / float64(len(grad))

	_, s, _ := pixel.RGBToHSV(r, g, b)
	meanSat := stat.Mean(toF64(s), nil)

	var expSum float64
	for _, v := range gray {
		d := float64(v) - 0.5
		expSum += math.Exp(-d * d / 0.08)
	}
	meanExposedness := expSum / float64(len(gray))

	ov := params.Overrides{}
	ov["fusion_contrast_weight"] = params.FloatValue(float32(clampf(0.5+edgeDensity*2, 0, 2.0)))
	ov["fusion_saturation_weight"] = params.FloatValue(float32(clampf(0.5+meanSat, 0, 2.0)))
	ov["fusion_exposedness_weight"] = params.FloatValue(float32(clampf(2*meanExposedness, 0, 2.0)))

	levels := clampf(4+edgeDensity*6, 2, 10)
	ov["fusion_laplacian_levels"] = params.IntValue(int32(levels))
	return ov
}
