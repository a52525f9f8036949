/*
NAME
  image.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pixel provides the typed image buffer, channel operations,
// color-space conversions and filter primitives (box/Gaussian,
// erosion, Sobel/Laplacian, Gaussian/Laplacian pyramids) that every
// enhancement stage is built from. All numeric work happens in f32
// over [0,1]; u8 only exists at the stage boundary.
package pixel

import "fmt"

// Epsilon is the floor used for every division in this package and in
// the stages built on top of it, per spec §4: "Division uses
// x / max(denom, 1e-6)".
const Epsilon = 1e-6

// Div safely divides a by b, flooring the denominator at Epsilon.
func Div(a, b float32) float32 {
	if b < Epsilon {
		b = Epsilon
	}
	return a / b
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Image is a three-channel RGB raster, held as f32 in [0,1],
// interleaved row-major: Pix[(y*W+x)*3+c].
type Image struct {
	W, H int
	Pix  []float32
}

// New returns a zeroed image of the given dimensions.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]float32, w*h*3)}
}

// FromBytes builds an Image from an (H, W, 3) u8 RGB raster, the
// boundary contract from spec §6.3. It returns ImageShapeInvalid if
// the data length doesn't match w*h*3.
func FromBytes(w, h int, data []byte) (*Image, error) {
	if w <= 0 || h <= 0 || len(data) != w*h*3 {
		return nil, &ShapeError{Width: w, Height: h, Got: len(data)}
	}
	img := New(w, h)
	for i, b := range data {
		img.Pix[i] = float32(b) / 255.0
	}
	return img, nil
}

// ShapeError is ImageShapeInvalid from spec §7.
type ShapeError struct {
	Width, Height, Got int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("image shape invalid: expected %d bytes for %dx%dx3, got %d", e.Width*e.Height*3, e.Width, e.Height, e.Got)
}

// Bytes converts the image back to an (H, W, 3) u8 RGB raster,
// clamping every sample to [0, 255].
func (img *Image) Bytes() []byte {
	out := make([]byte, len(img.Pix))
	for i, v := range img.Pix {
		v = Clamp01(v) * 255.0
		out[i] = byte(v + 0.5)
	}
	return out
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	out := &Image{W: img.W, H: img.H, Pix: make([]float32, len(img.Pix))}
	copy(out.Pix, img.Pix)
	return out
}

// At returns the RGB sample at (x, y).
func (img *Image) At(x, y int) (r, g, b float32) {
	i := (y*img.W + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Set writes the RGB sample at (x, y).
func (img *Image) Set(x, y int, r, g, b float32) {
	i := (y*img.W + x) * 3
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

// Planes splits the interleaved buffer into three owned channel
// planes (R, G, B), each of length W*H, row-major.
func (img *Image) Planes() (r, g, b []float32) {
	n := img.W * img.H
	r, g, b = make([]float32, n), make([]float32, n), make([]float32, n)
	for i := 0; i < n; i++ {
		r[i] = img.Pix[i*3]
		g[i] = img.Pix[i*3+1]
		b[i] = img.Pix[i*3+2]
	}
	return r, g, b
}

// FromPlanes merges three channel planes back into an interleaved
// Image.
func FromPlanes(w, h int, r, g, b []float32) *Image {
	img := New(w, h)
	for i := 0; i < w*h; i++ {
		img.Pix[i*3] = r[i]
		img.Pix[i*3+1] = g[i]
		img.Pix[i*3+2] = b[i]
	}
	return img
}

// Channel returns a copy of channel c (0=R, 1=G, 2=B).
func (img *Image) Channel(c int) []float32 {
	n := img.W * img.H
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = img.Pix[i*3+c]
	}
	return out
}

// SetChannel overwrites channel c (0=R, 1=G, 2=B) from data, which
// must have length W*H.
func (img *Image) SetChannel(c int, data []float32) {
	for i := 0; i < img.W*img.H; i++ {
		img.Pix[i*3+c] = data[i]
	}
}

// ClampToUnit clamps every sample in the image to [0, 1] in place,
// the invariant every stage must restore at its boundary.
func (img *Image) ClampToUnit() {
	for i, v := range img.Pix {
		img.Pix[i] = Clamp01(v)
	}
}

// Luma601 returns the BT.601 gray plane used by Beer-Lambert depth
// estimation and the quality analyzer's midtone metrics.
func Luma601(r, g, b []float32) []float32 {
	out := make([]float32, len(r))
	for i := range r {
		out[i] = 0.299*r[i] + 0.587*g[i] + 0.114*b[i]
	}
	return out
}
