//go:build withcv

/*
NAME
  encode_cv.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package encode

import (
	"fmt"

	"gocv.io/x/gocv"

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
	Quality     uint8
	Progressive bool // contract-only: gocv's IMWrite is always baseline.
}

// PngOptions configures PNG encoding.
type PngOptions struct {
	Compression uint8 // 0-9
}

// TiffOptions configures TIFF encoding.
type TiffOptions struct {
	Compression TiffCompression
}

// Save writes img to path via gocv.IMWrite, which natively supports
// JPEG, PNG and TIFF and so covers all three Options variants without
// a separate TIFF codec dependency (spec §4.9).
func Save(img *pixel.Image, path string, opts Options) error {
	mat, err := toMat(img)
	if err != nil {
		return err
	}
	defer mat.Close()

	params := make([]int, 0, 4)
	switch {
	case opts.Jpeg != nil:
		params = append(params, gocv.IMWriteJpegQuality, int(opts.Jpeg.Quality))
		if opts.Jpeg.Progressive {
			params = append(params, gocv.IMWriteJpegProgressive, 1)
		}
	case opts.Png != nil:
		params = append(params, gocv.IMWritePngCompression, int(opts.Png.Compression))
	case opts.Tiff != nil:
		switch opts.Tiff.Compression {
		case TiffLzw:
			params = append(params, gocv.IMWriteTiffCompression, 5)
		case TiffZip:
			params = append(params, gocv.IMWriteTiffCompression, 8)
		default:
			params = append(params, gocv.IMWriteTiffCompression, 1)
		}
	default:
		return fmt.Errorf("no encoding option selected")
	}

	ok := gocv.IMWriteWithParams(path, mat, params)
	if !ok {
		return fmt.Errorf("gocv: failed to write %s", path)
	}
	return nil
}

// toMat packs img (RGB, [0,1] floats) into an 8-bit BGR Mat, the
// channel order gocv's image codecs expect.
func toMat(img *pixel.Image) (gocv.Mat, error) {
	rgb := img.Bytes()
	bgr := make([]byte, len(rgb))
	for i := 0; i+2 < len(rgb); i += 3 {
		bgr[i], bgr[i+1], bgr[i+2] = rgb[i+2], rgb[i+1], rgb[i]
	}
	return gocv.NewMatFromBytes(img.H, img.W, gocv.MatTypeCV8UC3, bgr)
}
