/*
NAME
  quality_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package quality

import (
	"testing"

	"github.com/ausocean/aqualix/pixel"
)

func gradientImage(w, h int) *pixel.Image {
	img := pixel.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float32(x) / float32(w-1)
			img.Set(x, y, v, v, v)
		}
	}
	return img
}

func TestAnalyzeQualityIdenticalImagesScoreHighOverall(t *testing.T) {
	img := gradientImage(16, 16)
	rep := AnalyzeQuality(img, img)
	if rep.Overall < 5 {
		t.Fatalf("a benign image compared against itself should score reasonably well, got %v", rep.Overall)
	}
	if rep.QualityImprovements.ContrastDelta != 0 {
		t.Fatalf("identical before/after should show zero contrast delta, got %v", rep.QualityImprovements.ContrastDelta)
	}
}

func TestUnrealisticColorsFlagsExtremeRed(t *testing.T) {
	img := pixel.New(8, 8)
	for i := 0; i < 8*8; i++ {
		img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2] = 1.0, 0.0, 0.0
	}
	rep := analyzeUnrealisticColors(img)
	if rep.ExtremeRedFraction < 0.9 {
		t.Fatalf("an all-pure-red image should be almost entirely flagged as extreme red, got %v", rep.ExtremeRedFraction)
	}
	if rep.Score > 2 {
		t.Fatalf("an all-extreme-red image should score very low, got %v", rep.Score)
	}
}

func TestSaturationAnalysisFlagsClippedSaturation(t *testing.T) {
	img := pixel.New(8, 8)
	for i := 0; i < 8*8; i++ {
		img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2] = 1.0, 0.0, 0.0
	}
	rep := analyzeSaturation(img)
	if rep.ClippedFraction < 0.9 {
		t.Fatalf("a fully saturated image should be almost entirely clipped, got %v", rep.ClippedFraction)
	}
}

func TestLargestConnectedComponentFindsWholeMask(t *testing.T) {
	w, h := 5, 5
	mask := make([]bool, w*h)
	for i := range mask {
		mask[i] = true
	}
	if got := largestConnectedComponent(mask, w, h); got != w*h {
		t.Fatalf("got %d, want %d for a fully-true mask", got, w*h)
	}
}

func TestLargestConnectedComponentSplitsDisjointRegions(t *testing.T) {
	w, h := 5, 1
	mask := []bool{true, false, true, true, false}
	if got := largestConnectedComponent(mask, w, h); got != 2 {
		t.Fatalf("got %d, want 2 for the larger of two disjoint runs", got)
	}
}

func TestColorNoiseRatioOfOneWhenUnchanged(t *testing.T) {
	img := gradientImage(16, 16)
	rep := analyzeColorNoise(img, img)
	const tol = 0.05
	if abs(rep.RedNoiseRatio-1) > tol {
		t.Fatalf("unchanged image should have a noise ratio near 1, got %v", rep.RedNoiseRatio)
	}
}

func TestMidtoneBalanceScoresMidGrayHigher(t *testing.T) {
	midGray := pixel.New(8, 8)
	crushed := pixel.New(8, 8)
	for i := 0; i < 8*8; i++ {
		midGray.Pix[i*3], midGray.Pix[i*3+1], midGray.Pix[i*3+2] = 0.5, 0.5, 0.5
		crushed.Pix[i*3], crushed.Pix[i*3+1], crushed.Pix[i*3+2] = 0.02, 0.02, 0.02
	}
	midRep := analyzeMidtoneBalance(midGray)
	crushedRep := analyzeMidtoneBalance(crushed)
	if midRep.Score <= crushedRep.Score {
		t.Fatalf("a well-exposed midtone image should outscore a crushed-black one: mid=%v crushed=%v", midRep.Score, crushedRep.Score)
	}
}

func TestRatioDeltaZeroBaseline(t *testing.T) {
	if got := ratioDelta(0, 5); got != 0 {
		t.Fatalf("got %v, want 0 for a near-zero baseline", got)
	}
	if got := ratioDelta(2, 3); got != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}
}

func TestHistogramEntropyUniformIsMaximal(t *testing.T) {
	n := 256
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i) / float32(n-1)
	}
	entropy := histogramEntropy(data)
	if entropy < 7.9 {
		t.Fatalf("a perfectly spread histogram should have entropy close to log2(256)=8, got %v", entropy)
	}
}

func TestHistogramEntropyUniformValueIsZero(t *testing.T) {
	data := make([]float32, 64)
	for i := range data {
		data[i] = 0.5
	}
	if got := histogramEntropy(data); got != 0 {
		t.Fatalf("a single-valued histogram should have zero entropy, got %v", got)
	}
}

func TestRecommendationsFlagExtremeRed(t *testing.T) {
	rep := Report{}
	rep.UnrealisticColors.ExtremeRedFraction = 0.5
	recs := recommendations(rep)
	if len(recs) != 1 || recs[0] != "reduce_beer_lambert_red(-0.2)" {
		t.Fatalf("got %v, want a single red-reduction recommendation", recs)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
