/*
NAME
  encode_test.go

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
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/aqualix/pixel"
)

func sampleImage() *pixel.Image {
	img := pixel.New(4, 4)
	for i := 0; i < 4*4; i++ {
		img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2] = 0.8, 0.4, 0.1
	}
	return img
}

func TestSaveJpegProducesDecodableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jpg")

	err := Save(sampleImage(), path, Options{Jpeg: &JpegOptions{Quality: 90}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open saved file: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("saved file is not a decodable image: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 4 {
		t.Fatalf("got %dx%d, want 4x4", cfg.Width, cfg.Height)
	}
}

func TestSavePngProducesDecodableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	err := Save(sampleImage(), path, Options{Png: &PngOptions{Compression: 6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open saved file: %v", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("saved file is not a decodable image: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 4 {
		t.Fatalf("got %dx%d, want 4x4", cfg.Width, cfg.Height)
	}
}

func TestSaveTiffRequiresWithcvBuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.tiff")

	err := Save(sampleImage(), path, Options{Tiff: &TiffOptions{Compression: TiffNone}})
	if err == nil {
		t.Fatal("expected an error requesting TIFF output from the pure-Go build")
	}
}

func TestSaveNoOptionSelected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	err := Save(sampleImage(), path, Options{})
	if err == nil {
		t.Fatal("expected an error when no encoding option is selected")
	}
}

func TestPngLevelMapping(t *testing.T) {
	if pngLevel(0) != png.NoCompression {
		t.Errorf("compression 0 should map to png.NoCompression")
	}
	if pngLevel(9) != png.BestCompression {
		t.Errorf("compression 9 should map to png.BestCompression")
	}
}
