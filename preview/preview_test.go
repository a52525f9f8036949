/*
NAME
  preview_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package preview

import (
	"testing"

	"github.com/ausocean/aqualix/pixel"
)

func TestDownsampleNoOpBelowBound(t *testing.T) {
	img := pixel.New(100, 50)
	out, scale := Downsample(img, 1024)
	if scale != 1.0 {
		t.Fatalf("got scale %v, want 1.0 for an image already under the bound", scale)
	}
	if out.W != img.W || out.H != img.H {
		t.Fatalf("dimensions should be unchanged, got %dx%d want %dx%d", out.W, out.H, img.W, img.H)
	}
	if out == img {
		t.Fatal("Downsample must return a clone, not the input, even when not scaling")
	}
}

func TestDownsampleScalesLongestSide(t *testing.T) {
	img := pixel.New(2000, 1000)
	out, scale := Downsample(img, 1000)
	if out.W != 1000 {
		t.Fatalf("got width %d, want 1000", out.W)
	}
	if out.H != 500 {
		t.Fatalf("got height %d, want 500", out.H)
	}
	if scale != 0.5 {
		t.Fatalf("got scale %v, want 0.5", scale)
	}
}

func TestDownsampleNeverProducesZeroDimension(t *testing.T) {
	img := pixel.New(2000, 1)
	out, _ := Downsample(img, 10)
	if out.W < 1 || out.H < 1 {
		t.Fatalf("got %dx%d, dimensions must never collapse to zero", out.W, out.H)
	}
}
