/*
NAME
  rebalance_test.go

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

func TestColorRebalanceIdentityMatrixIsNoOp(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	// The schema default matrix is already identity; sanity-check that
	// directly rather than assuming it.
	img := blueCastImage(4, 4, 0.3, 0.4, 0.5)

	out, err := NewColorRebalance().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, g, b := out.At(0, 0)
	const tol = 1e-4
	if abs32(r-0.3) > tol || abs32(g-0.4) > tol || abs32(b-0.5) > tol {
		t.Fatalf("identity matrix should leave pixels unchanged, got (%v,%v,%v)", r, g, b)
	}
}

func TestColorRebalanceDisabledIsIdentity(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	store.Set("color_rebalance_enabled", params.BoolValue(false))
	img := blueCastImage(4, 4, 0.3, 0.4, 0.5)

	out, err := NewColorRebalance().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, g, b := out.At(0, 0)
	if r != 0.3 || g != 0.4 || b != 0.5 {
		t.Fatal("disabled color rebalance should be identity")
	}
}

func TestGuardSaturationClampsSaturation(t *testing.T) {
	img := blueCastImage(2, 2, 1.0, 0.0, 0.0)
	out := guardSaturation(img, 0.5)
	r, g, b := out.Planes()
	_, s, _ := pixel.RGBToHSV(r, g, b)
	for i, v := range s {
		if v > 0.5+1e-4 {
			t.Fatalf("pixel %d: saturation %v exceeds the 0.5 limit", i, v)
		}
	}
}

func TestRestoreLuminancePreservesOriginalLuma(t *testing.T) {
	orig := blueCastImage(2, 2, 0.4, 0.4, 0.4)
	r, g, b := orig.Planes()
	origLuma := pixel.Luma601(r, g, b)

	shifted := blueCastImage(2, 2, 0.8, 0.1, 0.1)
	restored := restoreLuminance(shifted, origLuma)

	rr, rg, rb := restored.Planes()
	newLuma := pixel.Luma601(rr, rg, rb)
	for i := range newLuma {
		if abs32(newLuma[i]-origLuma[i]) > 1e-3 {
			t.Fatalf("pixel %d: luma not preserved, got %v want %v", i, newLuma[i], origLuma[i])
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
