/*
DESCRIPTION
  aqualix-enhance is a command-line front end to the aqualix
  underwater image enhancement engine: it loads a single image,
  optionally auto-tunes parameters, runs the pipeline, reports a
  quality analysis, and saves the result.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the aqualix-enhance CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/aqualix/encode"
	"github.com/ausocean/aqualix/engine"
	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
	"github.com/ausocean/aqualix/progress"
	"github.com/ausocean/aqualix/quality"
)

const version = "v0.1.0"

// Logging configuration, mirroring the teacher CLI's lumberjack setup.
const (
	logPath      = "aqualix-enhance.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	showVersion := flag.Bool("version", false, "show version")
	in := flag.String("in", "", "input image path (jpeg or png)")
	out := flag.String("out", "", "output image path")
	quality_ := flag.Int("quality", 90, "jpeg output quality (1-100)")
	autoTune := flag.Bool("autotune", true, "enable global auto-tune")
	enhanced := flag.Bool("enhanced", false, "use enhanced auto-tune estimators where available")
	reportQuality := flag.Bool("report", true, "print a quality analysis after processing")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stdout), logSuppress)

	if *in == "" || *out == "" {
		log.Error("both -in and -out are required")
		flag.Usage()
		os.Exit(1)
	}

	img, err := loadImage(*in)
	if err != nil {
		log.Error("failed to load input image", "path", *in, "error", err.Error())
		os.Exit(1)
	}
	log.Info("loaded image", "path", *in, "width", img.W, "height", img.H)

	eng := engine.New(log)
	eng.SetAutoTune(*autoTune)
	eng.SetEnhancedAutoTune(*enhanced)
	if *autoTune {
		for _, id := range params.Order {
			eng.SetStageAutoTune(id, true)
		}
	}

	wt := eng.DetectWaterType(img)
	log.Info("detected water type", "type", wt.String())

	sink := progress.Func(func(stage string, percent uint8) {
		log.Debug("progress", "stage", stage, "percent", percent)
	})

	processed, result, err := eng.Process(context.Background(), img, sink)
	if err != nil {
		log.Error("pipeline run failed", "error", err.Error())
		os.Exit(1)
	}
	for _, w := range result.Warnings {
		log.Warning("pipeline warning", "warning", w)
	}

	if *reportQuality {
		rep := quality.AnalyzeQuality(img, processed)
		log.Info("quality report",
			"overall", rep.Overall,
			"unrealistic_colors", rep.UnrealisticColors.Score,
			"saturation", rep.Saturation.Score,
			"color_noise", rep.ColorNoise.Score,
			"halo_artifacts", rep.HaloArtifacts.Score,
			"midtone_balance", rep.MidtoneBalance.Score,
			"quality_improvements", rep.QualityImprovements.Score,
		)
		for _, rec := range rep.Recommendations {
			log.Info("recommendation", "action", rec)
		}
	}

	opts := encode.Options{Jpeg: &encode.JpegOptions{Quality: uint8(*quality_)}}
	if err := encode.Save(processed, *out, opts); err != nil {
		log.Error("failed to save output image", "path", *out, "error", err.Error())
		os.Exit(1)
	}
	log.Info("saved output image", "path", *out)
}

// loadImage decodes a jpeg/png file into the engine's float32 pixel
// representation.
func loadImage(path string) (*pixel.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := (y*w + x) * 3
			data[i] = byte(r >> 8)
			data[i+1] = byte(g >> 8)
			data[i+2] = byte(bl >> 8)
		}
	}
	return pixel.FromBytes(w, h, data)
}
