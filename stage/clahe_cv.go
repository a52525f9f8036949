//go:build withcv

/*
NAME
  clahe_cv.go

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
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// CLAHE applies contrast-limited adaptive histogram equalization to
// the lightness channel (spec §4.3.5), accelerated by gocv's CLAHE
// implementation. Built under the withcv tag, mirroring the teacher's
// split between a pure-Go default and a cgo-backed accelerated path
// (filter/filters_circleci.go).
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
		clipLimit := float64(store.Float("clahe_clip_limit"))
		tileSize := int(store.Int("clahe_tile_size"))

		r, g, b := img.Planes()
		l, a, bb := pixel.RGBToLAB(r, g, b)

		mat, err := labLToMat(l, img.W, img.H)
		if err != nil {
			return nil, err
		}
		defer mat.Close()

		clahe := gocv.NewCLAHEWithParams(clipLimit, image.Pt(tileSize, tileSize))
		defer clahe.Close()

		dst := gocv.NewMat()
		defer dst.Close()
		clahe.Apply(mat, &dst)

		lEq, err := matToLabL(dst, img.W, img.H)
		if err != nil {
			return nil, err
		}

		or, og, ob := pixel.LABToRGB(lEq, a, bb)
		out := pixel.FromPlanes(img.W, img.H, or, og, ob)
		out.ClampToUnit()
		return out, nil
	})
}

// labLToMat packs an L* plane in [0,100] into an 8-bit single-channel
// gocv Mat for CLAHE processing.
func labLToMat(l []float32, w, h int) (gocv.Mat, error) {
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := l[y*w+x] / 100 * 255
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			mat.SetUCharAt(y, x, uint8(v+0.5))
		}
	}
	return mat, nil
}

// matToLabL unpacks an 8-bit single-channel Mat back to an L* plane
// in [0,100].
func matToLabL(mat gocv.Mat, w, h int) ([]float32, error) {
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = float32(mat.GetUCharAt(y, x)) / 255 * 100
		}
	}
	return out, nil
}
