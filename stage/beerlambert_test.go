/*
NAME
  beerlambert_test.go

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
)

func TestCompensationGainIncreasesWithCoefficient(t *testing.T) {
	low := compensationGain(0.1, 0.15, 3.0)
	high := compensationGain(0.6, 0.15, 3.0)
	if high <= low {
		t.Fatalf("a higher attenuation coefficient should yield a higher gain: red(0.6)=%v, blue(0.1)=%v", high, low)
	}
}

func TestCompensationGainCappedAtMax(t *testing.T) {
	g := compensationGain(2.0, 1.0, 3.0)
	if g > 3.0 {
		t.Fatalf("gain must never exceed maxGain, got %v", g)
	}
}

func TestCompensationGainZeroDepthIsUnity(t *testing.T) {
	g := compensationGain(0.6, 0, 3.0)
	if g != 1 {
		t.Fatalf("zero depth should require no compensation, got %v", g)
	}
}

func TestBeerLambertBoostsRedMoreThanBlue(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	img := blueCastImage(4, 4, 0.2, 0.3, 0.6)

	out, err := NewBeerLambert().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, _, b := out.At(0, 0)
	// Red attenuates fastest in water, so it has the largest
	// compensation coefficient and should gain proportionally more
	// than blue relative to its input value.
	rGain := r / 0.2
	bGain := b / 0.6
	if rGain <= bGain {
		t.Fatalf("expected red's compensation gain (%v) to exceed blue's (%v)", rGain, bGain)
	}
}

func TestBeerLambertDisabledIsIdentity(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	store.Set("beer_lambert_enabled", params.BoolValue(false))
	img := blueCastImage(4, 4, 0.2, 0.3, 0.6)

	out, err := NewBeerLambert().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, g, b := out.At(0, 0)
	if r != 0.2 || g != 0.3 || b != 0.6 {
		t.Fatal("disabled Beer-Lambert should be identity")
	}
}
