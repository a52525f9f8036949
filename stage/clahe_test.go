/*
NAME
  clahe_test.go

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
	"testing"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// lowContrastImage builds a gradient confined to the middle of the
// tonal range, the kind of low-contrast input CLAHE is meant to
// stretch back out.
func lowContrastImage(w, h int) *pixel.Image {
	img := pixel.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 0.45 + 0.1*float32(x)/float32(w)
			img.Set(x, y, v, v, v)
		}
	}
	return img
}

func TestCLAHEDisabledIsIdentity(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	store.Set("clahe_enabled", params.BoolValue(false))
	img := lowContrastImage(16, 16)

	out, err := NewCLAHE().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, g, b := out.At(0, 0)
	wr, wg, wb := img.At(0, 0)
	if r != wr || g != wg || b != wb {
		t.Fatal("disabled CLAHE should be identity")
	}
}

func TestCLAHEWidensDynamicRange(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	img := lowContrastImage(32, 32)

	out, err := NewCLAHE().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minBefore, maxBefore := extremes(img)
	minAfter, maxAfter := extremes(out)

	if maxAfter-minAfter <= maxBefore-minBefore {
		t.Fatalf("expected CLAHE to widen the tonal range: before=[%v,%v] after=[%v,%v]", minBefore, maxBefore, minAfter, maxAfter)
	}
}

func TestTileMappingIsMonotonic(t *testing.T) {
	w := 16
	data := make([]float32, w*w)
	for i := range data {
		data[i] = float32(i%w) / float32(w-1) * 100
	}
	mapping := tileMapping(data, w, 0, 0, w, w, 2.0, 0, 100)
	for i := 1; i < len(mapping); i++ {
		if mapping[i] < mapping[i-1] {
			t.Fatalf("bin mapping should be monotonic (a CDF), got mapping[%d]=%v < mapping[%d]=%v", i, mapping[i], i-1, mapping[i-1])
		}
	}
}

func extremes(img *pixel.Image) (min, max float32) {
	min, max = 1, 0
	for _, v := range img.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
