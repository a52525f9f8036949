/*
NAME
  image_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pixel

import "testing"

func TestFromBytesShapeError(t *testing.T) {
	_, err := FromBytes(4, 4, make([]byte, 10))
	if err == nil {
		t.Fatal("expected a shape error for a too-short byte slice")
	}
	shapeErr, ok := err.(*ShapeError)
	if !ok {
		t.Fatalf("expected *ShapeError, got %T", err)
	}
	if shapeErr.Width != 4 || shapeErr.Height != 4 || shapeErr.Got != 10 {
		t.Fatalf("unexpected shape error fields: %+v", shapeErr)
	}
}

func TestFromBytesRoundTrip(t *testing.T) {
	data := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 128, 128, 128,
	}
	img, err := FromBytes(2, 2, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := img.Bytes()
	for i := range data {
		diff := int(got[i]) - int(data[i])
		if diff < -1 || diff > 1 {
			t.Fatalf("byte %d: got %d, want ~%d", i, got[i], data[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	img := New(2, 2)
	img.Set(0, 0, 1, 1, 1)
	clone := img.Clone()
	clone.Set(0, 0, 0, 0, 0)

	r, g, b := img.At(0, 0)
	if r != 1 || g != 1 || b != 1 {
		t.Fatal("mutating a clone must not affect the original")
	}
}

func TestPlanesRoundTrip(t *testing.T) {
	img := New(3, 2)
	for i := range img.Pix {
		img.Pix[i] = float32(i) / float32(len(img.Pix))
	}
	r, g, b := img.Planes()
	rebuilt := FromPlanes(img.W, img.H, r, g, b)
	for i := range img.Pix {
		if rebuilt.Pix[i] != img.Pix[i] {
			t.Fatalf("pixel %d: got %v, want %v", i, rebuilt.Pix[i], img.Pix[i])
		}
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct{ in, want float32 }{
		{-0.5, 0}, {0, 0}, {0.5, 0.5}, {1, 1}, {1.5, 1},
	}
	for _, c := range cases {
		if got := Clamp01(c.in); got != c.want {
			t.Errorf("Clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDivByZeroIsSafe(t *testing.T) {
	got := Div(1, 0)
	want := float32(1) / Epsilon
	if got != want {
		t.Fatalf("Div(1, 0) = %v, want %v", got, want)
	}
}
