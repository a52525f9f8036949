/*
NAME
  quality.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package quality implements the deterministic image-quality analyzer
// of spec §4.6, component C6: a set of pixel-statistic metric
// families over an (original, processed) pair, a weighted overall
// score, and symbolic parameter-adjustment recommendations. It is
// independent of the pipeline engine and may run on preview-sized or
// full-size buffers.
package quality

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/aqualix/pixel"
)

// Report is the full result of AnalyzeQuality.
type Report struct {
	UnrealisticColors   UnrealisticColors
	Saturation          SaturationAnalysis
	ColorNoise          ColorNoiseAnalysis
	HaloArtifacts       HaloArtifacts
	MidtoneBalance      MidtoneBalance
	QualityImprovements QualityImprovements

	Overall         float64
	Recommendations []string
}

// UnrealisticColors is the unrealistic_colors metric family.
type UnrealisticColors struct {
	ExtremeRedFraction float64
	MagentaFraction    float64
	DominanceRatio     float64 // mean(R) / mean(B)
	Score              float64
}

// SaturationAnalysis is the saturation_analysis metric family.
type SaturationAnalysis struct {
	HighlySaturatedFraction float64
	ClippedFraction         float64
	LargestPatchFraction    float64
	MeanSaturation          float64
	Score                   float64
}

// ColorNoiseAnalysis is the color_noise_analysis metric family.
type ColorNoiseAnalysis struct {
	RedNoiseRatio   float64
	GreenNoiseRatio float64
	BlueNoiseRatio  float64
	Score           float64
}

// HaloArtifacts is the halo_artifacts metric family.
type HaloArtifacts struct {
	HaloIndicator float64
	EdgeVariance  float64
	Score         float64
}

// MidtoneBalance is the midtone_balance metric family.
type MidtoneBalance struct {
	MidtoneFraction float64
	ShadowFraction  float64
	HighlightFraction float64
	MeanLuma        float64
	ShadowDetailOK  bool
	Score           float64
}

// QualityImprovements is the quality_improvements metric family.
type QualityImprovements struct {
	ContrastDelta   float64
	EntropyDelta    float64
	SaturationDelta float64
	Score           float64
}

// Weights are the fixed per-family contributions to Overall (spec
// §4.6).
const (
	weightUnreal = 0.25
	weightSat    = 0.20
	weightNoise  = 0.15
	weightHalo   = 0.15
	weightMid    = 0.15
	weightImp    = 0.10
)

// AnalyzeQuality computes every metric family for the (original,
// processed) pair and aggregates them into an overall score plus
// symbolic recommendations. original and processed must have the same
// dimensions.
func AnalyzeQuality(original, processed *pixel.Image) Report {
	var rep Report
	rep.UnrealisticColors = analyzeUnrealisticColors(processed)
	rep.Saturation = analyzeSaturation(processed)
	rep.ColorNoise = analyzeColorNoise(original, processed)
	rep.HaloArtifacts = analyzeHaloArtifacts(processed)
	rep.MidtoneBalance = analyzeMidtoneBalance(processed)
	rep.QualityImprovements = analyzeQualityImprovements(original, processed)

	rep.Overall = weightUnreal*rep.UnrealisticColors.Score +
		weightSat*rep.Saturation.Score +
		weightNoise*rep.ColorNoise.Score +
		weightHalo*rep.HaloArtifacts.Score +
		weightMid*rep.MidtoneBalance.Score +
		weightImp*rep.QualityImprovements.Score

	rep.Recommendations = recommendations(rep)
	return rep
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func analyzeUnrealisticColors(img *pixel.Image) UnrealisticColors {
	r, g, b := img.Planes()
	n := len(r)
	var extremeRed, magenta int
	for i := 0; i < n; i++ {
		if r[i] > 0.95 && g[i] < 0.3 && b[i] < 0.3 {
			extremeRed++
		}
		if r[i] > 0.7 && b[i] > 0.6 && g[i] < 0.4 {
			magenta++
		}
	}
	extremeFrac := float64(extremeRed) / float64(n)
	magentaFrac := float64(magenta) / float64(n)

	meanR := stat.Mean(toF64(r), nil)
	meanB := stat.Mean(toF64(b), nil)
	dominance := 1.0
	if meanB > 1e-6 {
		dominance = meanR / meanB
	}

	score := clampScore(10 - 20*extremeFrac - 15*magentaFrac - 5*math.Max(0, dominance-1.5))
	return UnrealisticColors{
		ExtremeRedFraction: extremeFrac,
		MagentaFraction:    magentaFrac,
		DominanceRatio:     dominance,
		Score:              score,
	}
}

func analyzeSaturation(img *pixel.Image) SaturationAnalysis {
	r, g, b := img.Planes()
	_, s, _ := pixel.RGBToHSV(r, g, b)
	n := len(s)

	var highlySat, clipped int
	for _, v := range s {
		if v > 0.9 {
			highlySat++
		}
		if v >= 0.999 {
			clipped++
		}
	}
	highlyFrac := float64(highlySat) / float64(n)
	clippedFrac := float64(clipped) / float64(n)

	mask := make([]bool, n)
	for i, v := range s {
		mask[i] = v > 0.85
	}
	largest := largestConnectedComponent(mask, img.W, img.H)
	largestFrac := float64(largest) / float64(n)

	meanSat := stat.Mean(toF64(s), nil)

	score := clampScore(10 - 10*highlyFrac - 15*clippedFrac - 10*largestFrac)
	return SaturationAnalysis{
		HighlySaturatedFraction: highlyFrac,
		ClippedFraction:         clippedFrac,
		LargestPatchFraction:    largestFrac,
		MeanSaturation:          meanSat,
		Score:                   score,
	}
}

// largestConnectedComponent returns the size of the largest 4-
// connected region of true values in mask, via iterative flood fill.
func largestConnectedComponent(mask []bool, w, h int) int {
	visited := make([]bool, len(mask))
	best := 0
	stack := make([]int, 0, 1024)
	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		stack = stack[:0]
		stack = append(stack, start)
		visited[start] = true
		size := 0
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			x, y := i%w, i/w
			neighbors := [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
			for _, nb := range neighbors {
				if nb[0] < 0 || nb[0] >= w || nb[1] < 0 || nb[1] >= h {
					continue
				}
				ni := nb[1]*w + nb[0]
				if mask[ni] && !visited[ni] {
					visited[ni] = true
					stack = append(stack, ni)
				}
			}
		}
		if size > best {
			best = size
		}
	}
	return best
}

func analyzeColorNoise(original, processed *pixel.Image) ColorNoiseAnalysis {
	ratio := func(o, p []float32, w, h int) float64 {
		ohp := highPass(o, w, h)
		php := highPass(p, w, h)
		os := stat.StdDev(toF64(ohp), nil)
		ps := stat.StdDev(toF64(php), nil)
		if os < 1e-6 {
			return 1
		}
		return ps / os
	}
	or, og, ob := original.Planes()
	pr, pg, pb := processed.Planes()
	w, h := original.W, original.H

	rr := ratio(or, pr, w, h)
	gr := ratio(og, pg, w, h)
	br := ratio(ob, pb, w, h)

	meanNoise := (rr + gr + br) / 3
	score := clampScore(10 - 10*math.Max(0, rr-1) - 5*math.Max(0, meanNoise-1.2))
	return ColorNoiseAnalysis{RedNoiseRatio: rr, GreenNoiseRatio: gr, BlueNoiseRatio: br, Score: score}
}

// highPass removes a 5x5 box-filtered local mean from data,
// isolating the noise-scale fluctuation used as a std-ratio noise
// proxy.
func highPass(data []float32, w, h int) []float32 {
	low := pixel.BoxFilter1D(data, w, h, 2)
	out := make([]float32, len(data))
	for i := range data {
		out[i] = data[i] - low[i]
	}
	return out
}

func analyzeHaloArtifacts(img *pixel.Image) HaloArtifacts {
	r, g, b := img.Planes()
	gray := pixel.Luma601(r, g, b)
	w, h := img.W, img.H

	gx, gy := pixel.Sobel(gray, w, h)
	mag := make([]float32, len(gx))
	for i := range gx {
		mag[i] = float32(math.Hypot(float64(gx[i]), float64(gy[i])))
	}

	threshold := edgeThreshold(mag)
	edge := make([]bool, len(mag))
	for i, v := range mag {
		edge[i] = v > threshold
	}
	dilated := dilate(edge, w, h, 3)

	var edgeMagSum, ringMagSum float64
	var edgeCount, ringCount int
	var edgeIntensities []float64
	for i := range edge {
		if edge[i] {
			edgeMagSum += float64(mag[i])
			edgeCount++
			edgeIntensities = append(edgeIntensities, float64(gray[i]))
		} else if dilated[i] {
			ringMagSum += float64(mag[i])
			ringCount++
		}
	}

	var ratio float64
	if edgeCount > 0 && ringCount > 0 {
		edgeMean := edgeMagSum / float64(edgeCount)
		ringMean := ringMagSum / float64(ringCount)
		if edgeMean > 1e-6 {
			ratio = ringMean / edgeMean
		}
	}
	haloIndicator := math.Max(0, ratio-1)

	var edgeVar float64
	if len(edgeIntensities) > 1 {
		edgeVar = stat.Variance(edgeIntensities, nil)
	}

	score := clampScore(10 - 15*haloIndicator - 5*edgeVar)
	return HaloArtifacts{HaloIndicator: haloIndicator, EdgeVariance: edgeVar, Score: score}
}

// edgeThreshold picks a gradient-magnitude cutoff at the 90th
// percentile, a simple stand-in for Canny's hysteresis thresholding
// (spec's halo_artifacts metric references Canny edges; this module
// stays within deterministic pixel-statistic primitives per §4.1).
func edgeThreshold(mag []float32) float32 {
	sorted := make([]float32, len(mag))
	copy(sorted, mag)
	for i := 1; i < len(sorted); i++ {
		v := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j] > v {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = v
	}
	idx := int(float64(len(sorted)) * 0.9)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// dilate grows a boolean mask by radius pixels using the separable
// min-filter Erode on its negated form.
func dilate(mask []bool, w, h, radius int) []bool {
	data := make([]float32, len(mask))
	for i, v := range mask {
		if v {
			data[i] = -1
		} else {
			data[i] = 0
		}
	}
	eroded := pixel.Erode(data, w, h, 2*radius+1)
	out := make([]bool, len(mask))
	for i, v := range eroded {
		out[i] = v < -0.5
	}
	return out
}

func analyzeMidtoneBalance(img *pixel.Image) MidtoneBalance {
	r, g, b := img.Planes()
	gray := pixel.Luma601(r, g, b)
	n := len(gray)

	var mid, shadow, highlight int
	for _, v := range gray {
		switch {
		case v < 0.1:
			shadow++
		case v > 0.9:
			highlight++
		}
		if v >= 0.2 && v <= 0.8 {
			mid++
		}
	}
	midFrac := float64(mid) / float64(n)
	shadowFrac := float64(shadow) / float64(n)
	highlightFrac := float64(highlight) / float64(n)
	meanLuma := stat.Mean(toF64(gray), nil)

	shadowOK := shadowEntropyOK(gray)

	base := 4.0
	if shadowOK {
		base = 8.0
	}
	score := clampScore(base + math.Min(2, 5*midFrac))
	return MidtoneBalance{
		MidtoneFraction:   midFrac,
		ShadowFraction:    shadowFrac,
		HighlightFraction: highlightFrac,
		MeanLuma:          meanLuma,
		ShadowDetailOK:    shadowOK,
		Score:             score,
	}
}

// shadowEntropyOK reports whether the luma histogram of shadow pixels
// (luma < 0.2) carries enough entropy to indicate preserved shadow
// detail rather than crushed blacks.
func shadowEntropyOK(gray []float32) bool {
	const bins = 32
	var hist [bins]int
	var count int
	for _, v := range gray {
		if v >= 0.2 {
			continue
		}
		bin := int(v / 0.2 * bins)
		if bin >= bins {
			bin = bins - 1
		}
		if bin < 0 {
			bin = 0
		}
		hist[bin]++
		count++
	}
	if count == 0 {
		return false
	}
	var entropy float64
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(count)
		entropy -= p * math.Log2(p)
	}
	maxEntropy := math.Log2(bins)
	return entropy/maxEntropy > 0.4
}

func analyzeQualityImprovements(original, processed *pixel.Image) QualityImprovements {
	or, og, ob := original.Planes()
	pr, pg, pb := processed.Planes()

	oGray := pixel.Luma601(or, og, ob)
	pGray := pixel.Luma601(pr, pg, pb)

	oContrast := stat.StdDev(toF64(oGray), nil)
	pContrast := stat.StdDev(toF64(pGray), nil)
	contrastDelta := ratioDelta(oContrast, pContrast)

	oEntropy := histogramEntropy(oGray)
	pEntropy := histogramEntropy(pGray)
	entropyDelta := ratioDelta(oEntropy, pEntropy)

	_, os, _ := pixel.RGBToHSV(or, og, ob)
	_, ps, _ := pixel.RGBToHSV(pr, pg, pb)
	oSat := stat.Mean(toF64(os), nil)
	pSat := stat.Mean(toF64(ps), nil)
	satDelta := ratioDelta(oSat, pSat)

	score := clampScore(2 * (contrastDelta + entropyDelta + satDelta))
	return QualityImprovements{
		ContrastDelta:   contrastDelta,
		EntropyDelta:    entropyDelta,
		SaturationDelta: satDelta,
		Score:           score,
	}
}

// ratioDelta reports (after-before)/before, 0 if before is ~0.
func ratioDelta(before, after float64) float64 {
	if before < 1e-6 {
		return 0
	}
	return (after - before) / before
}

// histogramEntropy computes the Shannon entropy, in bits, of a
// 256-bin histogram over data in [0,1].
func histogramEntropy(data []float32) float64 {
	const bins = 256
	var hist [bins]int
	for _, v := range data {
		bin := int(v * (bins - 1))
		if bin < 0 {
			bin = 0
		}
		if bin >= bins {
			bin = bins - 1
		}
		hist[bin]++
	}
	n := len(data)
	var entropy float64
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// recommendations generates symbolic, language-independent parameter
// adjustment suggestions from a completed Report (spec §4.6).
func recommendations(rep Report) []string {
	var out []string
	if rep.UnrealisticColors.ExtremeRedFraction > 0.02 {
		out = append(out, "reduce_beer_lambert_red(-0.2)")
	}
	if rep.Saturation.ClippedFraction > 0.02 {
		out = append(out, "reduce_saturation_limit(-0.2)")
	}
	if rep.HaloArtifacts.HaloIndicator > 0.15 {
		out = append(out, "reduce_clahe_clip_limit(-1.5)")
	}
	return out
}

func toF64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}
