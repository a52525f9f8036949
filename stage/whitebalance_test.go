/*
NAME
  whitebalance_test.go

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

// blueCastImage returns a uniform image of color (r, g, b). The white
// balance tests pass a blue-dominant color, the typical deep-water
// cast gray-world correction targets.
func blueCastImage(w, h int, r, g, b float32) *pixel.Image {
	img := pixel.New(w, h)
	for i := 0; i < w*h; i++ {
		img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2] = r, g, b
	}
	return img
}

func TestWhiteBalanceDisabledIsIdentity(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	store.Set("white_balance_enabled", params.BoolValue(false))
	img := blueCastImage(4, 4, 0.2, 0.3, 0.6)

	out, err := NewWhiteBalance().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, g, b := out.At(0, 0)
	if r != 0.2 || g != 0.3 || b != 0.6 {
		t.Fatalf("disabled white balance should be identity, got (%v,%v,%v)", r, g, b)
	}
}

func TestGrayWorldCorrectsBlueCast(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	img := blueCastImage(8, 8, 0.2, 0.3, 0.6)

	out, err := NewWhiteBalance().Apply(img, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, g, b := out.At(0, 0)
	// Gray world pulls every channel toward the pre-correction mean
	// (0.2+0.3+0.6)/3 = 0.3667, so the blue-dominant channel must be
	// pulled down and the red-deficient channel pulled up.
	if b >= 0.6 {
		t.Fatalf("expected blue to be reduced toward the mean, got %v", b)
	}
	if r <= 0.2 {
		t.Fatalf("expected red to be boosted toward the mean, got %v", r)
	}
	const tol = 0.02
	if diff := r - g; diff > tol || diff < -tol {
		t.Fatalf("expected near-gray output, r=%v g=%v diverge by more than %v", r, g, tol)
	}
}

func TestWhiteBalanceUnknownMethodFailsSoft(t *testing.T) {
	store := params.NewStore(params.DefaultSchema())
	store.Set("white_balance_method", params.ChoiceValue("not_a_real_method"))
	img := blueCastImage(4, 4, 0.2, 0.3, 0.6)

	out, err := NewWhiteBalance().Apply(img, store)
	if err == nil {
		t.Fatal("expected an error for an unknown white balance method")
	}
	if _, ok := err.(*FailedError); !ok {
		t.Fatalf("expected *FailedError, got %T", err)
	}
	r, g, b := out.At(0, 0)
	if r != 0.2 || g != 0.3 || b != 0.6 {
		t.Fatal("on failure the stage must substitute its unchanged input")
	}
}

func TestClampGain(t *testing.T) {
	cases := []struct {
		g, maxAdj, want float32
	}{
		{5, 2, 2},
		{0.1, 2, 0.5},
		{1.3, 2, 1.3},
	}
	for _, c := range cases {
		if got := clampGain(c.g, c.maxAdj); got != c.want {
			t.Errorf("clampGain(%v, %v) = %v, want %v", c.g, c.maxAdj, got, c.want)
		}
	}
}

func TestPercentileOrderStatistics(t *testing.T) {
	data := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	if got := percentile(data, 0); got != 0.1 {
		t.Errorf("p0 = %v, want 0.1", got)
	}
	if got := percentile(data, 100); got != 0.5 {
		t.Errorf("p100 = %v, want 0.5", got)
	}
	if got := percentile(data, 50); got != 0.3 {
		t.Errorf("p50 = %v, want 0.3", got)
	}
}
