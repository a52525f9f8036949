//go:build !withcv

/*
NAME
  clahe.go

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

// CLAHE applies contrast-limited adaptive histogram equalization to
// the lightness channel (spec §4.3.5). This is the pure-Go
// implementation built without the withcv build tag; clahe_cv.go
// provides a gocv-accelerated alternative.
type CLAHE struct{}

// NewCLAHE returns the CLAHE stage.
func NewCLAHE() *CLAHE { return &CLAHE{} }

// ID implements Stage.
func (s *CLAHE) ID() params.StageID { return params.StageCLAHE }

// Apply implements Stage.
func (s *CLAHE) Apply(img *pixel.Image, store *params.Store) (*pixel.Image, error) {
	return guard(s.ID(), img, func() (*pixel.Image, error) {
		if !store.Bool("clahe_enabled") {
			return img.Clone(), nil
		}
		clipLimit := store.Float("clahe_clip_limit")
		tileSize := int(store.Int("clahe_tile_size"))

		r, g, b := img.Planes()
		l, a, bb := pixel.RGBToLAB(r, g, b)

		lEq := claheGray(l, img.W, img.H, clipLimit, tileSize, 0, 100)

		or, og, ob := pixel.LABToRGB(lEq, a, bb)
		out := pixel.FromPlanes(img.W, img.H, or, og, ob)
		out.ClampToUnit()
		return out, nil
	})
}

// histBins is the resolution of the per-tile histogram.
const histBins = 256

// claheGray runs CLAHE over a single-channel plane with values in
// [lo, hi]: partition into tileSize x tileSize tiles, build a clipped
// histogram per tile, map each tile's cumulative distribution to an
// equalized value, then bilinearly interpolate between the four
// nearest tile mappings per pixel to avoid block artifacts.
func claheGray(data []float32, w, h int, clipLimit float32, tileSize int, lo, hi float32) []float32 {
	if tileSize < 1 {
		tileSize = 1
	}
	tilesX := (w + tileSize - 1) / tileSize
	tilesY := (h + tileSize - 1) / tileSize
	if tilesX < 1 {
		tilesX = 1
	}
	if tilesY < 1 {
		tilesY = 1
	}

	rng := hi - lo
	if rng <= 0 {
		rng = 1
	}

	// mappings[ty][tx] is a lookup table of size histBins mapping bin
	// index to equalized output value in [lo, hi].
	mappings := make([][][]float32, tilesY)
	for ty := 0; ty < tilesY; ty++ {
		mappings[ty] = make([][]float32, tilesX)
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileSize
			y0 := ty * tileSize
			x1 := minInt(x0+tileSize, w)
			y1 := minInt(y0+tileSize, h)
			mappings[ty][tx] = tileMapping(data, w, x0, y0, x1, y1, clipLimit, lo, rng)
		}
	}

	out := make([]float32, len(data))
	for y := 0; y < h; y++ {
		fy := (float32(y)+0.5)/float32(tileSize) - 0.5
		ty0 := int(floorf(fy))
		ty1 := ty0 + 1
		wy := fy - float32(ty0)
		ty0 = clampInt(ty0, 0, tilesY-1)
		ty1 = clampInt(ty1, 0, tilesY-1)

		for x := 0; x < w; x++ {
			fx := (float32(x)+0.5)/float32(tileSize) - 0.5
			tx0 := int(floorf(fx))
			tx1 := tx0 + 1
			wx := fx - float32(tx0)
			tx0 = clampInt(tx0, 0, tilesX-1)
			tx1 = clampInt(tx1, 0, tilesX-1)

			v := data[y*w+x]
			bin := clampInt(int((v-lo)/rng*float32(histBins-1)+0.5), 0, histBins-1)

			v00 := mappings[ty0][tx0][bin]
			v01 := mappings[ty0][tx1][bin]
			v10 := mappings[ty1][tx0][bin]
			v11 := mappings[ty1][tx1][bin]

			top := v00*(1-wx) + v01*wx
			bot := v10*(1-wx) + v11*wx
			out[y*w+x] = top*(1-wy) + bot*wy
		}
	}
	return out
}

// tileMapping builds the clipped, equalized bin->value lookup table
// for one tile.
func tileMapping(data []float32, w, x0, y0, x1, y1 int, clipLimit, lo, rng float32) []float32 {
	hist := make([]float64, histBins)
	count := 0
	for y := y0; y < y1; y++ {
		row := y * w
		for x := x0; x < x1; x++ {
			v := data[row+x]
			bin := clampInt(int((v-lo)/rng*float32(histBins-1)+0.5), 0, histBins-1)
			hist[bin]++
			count++
		}
	}
	if count == 0 {
		out := make([]float32, histBins)
		for i := range out {
			out[i] = lo + rng*float32(i)/float32(histBins-1)
		}
		return out
	}

	avg := float64(count) / float64(histBins)
	clip := clipLimit * float32(avg)
	if clip < 1 {
		clip = 1
	}

	var excess float64
	for i := range hist {
		if hist[i] > float64(clip) {
			excess += hist[i] - float64(clip)
			hist[i] = float64(clip)
		}
	}
	redistribute := excess / float64(histBins)
	for i := range hist {
		hist[i] += redistribute
	}

	out := make([]float32, histBins)
	var cdf float64
	for i := range hist {
		cdf += hist[i]
		out[i] = lo + rng*float32(cdf/float64(count))
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorf(v float32) float32 {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return float32(i)
}
