//go:build !withcv

/*
NAME
  encode.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package encode implements the save encoder adapter of spec §4.9,
// component C9: writing a processed image to a file under a
// requested format/quality option. This is the pure-Go default;
// encode_cv.go provides a gocv-accelerated alternative under the
// withcv build tag that also natively covers TIFF (spec §4.9's note
// that gocv removes the need for a separate TIFF codec dependency).
package encode

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/aqualix/pixel"
)

// TiffCompression selects the TIFF compression scheme (spec §4.9).
type TiffCompression int

const (
	TiffNone TiffCompression = iota
	TiffLzw
	TiffZip
)

// Options is the sum type of save targets (spec §4.9). Exactly one
// field should be non-nil.
type Options struct {
	Jpeg *JpegOptions
	Png  *PngOptions
	Tiff *TiffOptions
}

// JpegOptions configures JPEG encoding.
type JpegOptions struct {
	Quality     uint8 // 1-100
	Progressive bool  // contract-only: the stdlib encoder is always baseline.
}

// PngOptions configures PNG encoding.
type PngOptions struct {
	Compression uint8 // 0-9, mapped onto png.CompressionLevel
}

// TiffOptions configures TIFF encoding.
type TiffOptions struct {
	Compression TiffCompression
}

// Save writes img to path using opts (spec §4.9). The pure-Go build
// supports Jpeg and Png; Tiff requires the withcv build, since this
// module carries no standalone TIFF codec dependency.
func Save(img *pixel.Image, path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()

	switch {
	case opts.Jpeg != nil:
		q := int(opts.Jpeg.Quality)
		if q < 1 {
			q = 1
		}
		if q > 100 {
			q = 100
		}
		if err := jpeg.Encode(f, toGoImage(img), &jpeg.Options{Quality: q}); err != nil {
			return errors.Wrap(err, "encode jpeg")
		}
		return nil

	case opts.Png != nil:
		enc := png.Encoder{CompressionLevel: pngLevel(opts.Png.Compression)}
		if err := enc.Encode(f, toGoImage(img)); err != nil {
			return errors.Wrap(err, "encode png")
		}
		return nil

	case opts.Tiff != nil:
		return fmt.Errorf("tiff encoding requires the withcv build")

	default:
		return fmt.Errorf("no encoding option selected")
	}
}

func pngLevel(compression uint8) png.CompressionLevel {
	switch {
	case compression == 0:
		return png.NoCompression
	case compression <= 3:
		return png.BestSpeed
	case compression <= 7:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// toGoImage converts a pixel.Image into a stdlib image.Image via
// image.NRGBA, the common bridge to image/jpeg and image/png.
func toGoImage(img *pixel.Image) image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, img.W, img.H))
	bytes := img.Bytes()
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			i := (y*img.W + x) * 3
			out.SetNRGBA(x, y, color.NRGBA{R: bytes[i], G: bytes[i+1], B: bytes[i+2], A: 255})
		}
	}
	return out
}
