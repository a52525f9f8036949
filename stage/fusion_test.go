/*
NAME
  fusion_test.go

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

func checkerboard(w, h int) *pixel.Image {
	img := pixel.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float32(0.2)
			if (x/4+y/4)%2 == 0 {
				v = 0.7
			}
			img.Set(x, y, v, v, v)
		}
	}
	return img
}

func TestFusionDisabledIsIdentity(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	store.Set("fusion_enabled", params.BoolValue(false))
	img := checkerboard(16, 16)

	out, err := NewFusion().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, g, b := out.At(0, 0)
	wr, wg, wb := img.At(0, 0)
	if r != wr || g != wg || b != wb {
		t.Fatal("disabled fusion should be identity")
	}
}

func TestFusionPreservesDimensionsAndRange(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	img := checkerboard(32, 32)

	out, err := NewFusion().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.W != img.W || out.H != img.H {
		t.Fatalf("dimension mismatch: got %dx%d, want %dx%d", out.W, out.H, img.W, img.H)
	}
	for i, v := range out.Pix {
		if v < 0 || v > 1 {
			t.Fatalf("pixel %d out of range: %v", i, v)
		}
	}
}

func TestWeightMapsSumToOne(t *testing.T) {
	a := checkerboard(16, 16)
	variants := []*pixel.Image{a, mildCLAHEVariant(a), unsharpVariant(a, unsharpSigma)}
	weights := weightMaps(variants, 1, 1, 1, 0.2, 0.3, 0.2)
	for p := range weights[0] {
		var sum float32
		for _, w := range weights {
			sum += w[p]
		}
		if sum < 0.99 || sum > 1.01 {
			t.Fatalf("pixel %d: weights sum to %v, want ~1", p, sum)
		}
	}
}

func TestUnsharpVariantPreservesDimensionsAndRange(t *testing.T) {
	img := lowContrastImage(16, 16)
	out := unsharpVariant(img, unsharpSigma)
	if out.W != img.W || out.H != img.H {
		t.Fatalf("dimension mismatch: got %dx%d, want %dx%d", out.W, out.H, img.W, img.H)
	}
	min, max := extremes(out)
	if min < 0 || max > 1 {
		t.Fatalf("expected values within [0,1], got [%v,%v]", min, max)
	}
}

func TestMildCLAHEVariantPreservesDimensions(t *testing.T) {
	img := lowContrastImage(16, 16)
	out := mildCLAHEVariant(img)
	if out.W != img.W || out.H != img.H {
		t.Fatalf("dimension mismatch: got %dx%d, want %dx%d", out.W, out.H, img.W, img.H)
	}
}
