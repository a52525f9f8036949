/*
NAME
  engine_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package engine

import (
	"context"
	"testing"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
	"github.com/ausocean/aqualix/progress"
)

func testImage(w, h int) *pixel.Image {
	img := pixel.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float32(0.2 + 0.5*float32(x)/float32(w))
			img.Set(x, y, v, v*0.9, v*1.1)
		}
	}
	return img
}

func TestProcessRunsAllStagesByDefault(t *testing.T) {
	e := New(nil)
	img := testImage(16, 16)

	out, res, err := e.Process(context.Background(), img, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.StagesRun) != len(params.Order) {
		t.Fatalf("got %d stages run, want %d", len(res.StagesRun), len(params.Order))
	}
	if len(res.StagesSkipped) != 0 {
		t.Fatalf("expected no skipped stages with every enable flag at its default of true, got %v", res.StagesSkipped)
	}
	if out.W != img.W || out.H != img.H {
		t.Fatalf("dimension mismatch: got %dx%d, want %dx%d", out.W, out.H, img.W, img.H)
	}
	if out == img {
		t.Fatal("Process must return a fresh image, not the input")
	}
}

func TestProcessSkipsDisabledStages(t *testing.T) {
	e := New(nil)
	e.SetParameter("udcp_enabled", params.BoolValue(false))
	e.SetParameter("fusion_enabled", params.BoolValue(false))
	img := testImage(8, 8)

	_, res, err := e.Process(context.Background(), img, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.StagesSkipped) != 2 {
		t.Fatalf("got %d skipped stages, want 2: %v", len(res.StagesSkipped), res.StagesSkipped)
	}
}

func TestProcessReportsMonotonicProgress(t *testing.T) {
	e := New(nil)
	img := testImage(8, 8)
	var collector progress.Collector

	_, _, err := e.Process(context.Background(), img, &collector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collector.Events) == 0 {
		t.Fatal("expected at least one progress event")
	}
	last := uint8(0)
	for _, ev := range collector.Events {
		if ev.Percent < last {
			t.Fatalf("progress went backwards: %d after %d", ev.Percent, last)
		}
		last = ev.Percent
	}
	first := collector.Events[0]
	if first.Stage != progress.PipelineStage || first.Percent != 0 {
		t.Fatalf("expected the run to open with (pipeline, 0), got %+v", first)
	}
	lastEvent := collector.Events[len(collector.Events)-1]
	if lastEvent.Stage != progress.PipelineStage || lastEvent.Percent != 100 {
		t.Fatalf("expected the run to close with (pipeline, 100), got %+v", lastEvent)
	}
}

func TestProcessHonorsCancellation(t *testing.T) {
	e := New(nil)
	img := testImage(8, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.Process(ctx, img, nil)
	cancelErr, ok := err.(*CancelledError)
	if !ok {
		t.Fatalf("expected *CancelledError, got %v", err)
	}
	if cancelErr.Stage != params.StageWhiteBalance {
		t.Fatalf("expected cancellation before the first stage, got %s", cancelErr.Stage)
	}
	if cancelErr.Partial == nil {
		t.Fatal("expected a partial image on cancellation")
	}
}

func TestSetAutoTuneAppliesOverridesBeforeStage(t *testing.T) {
	e := New(nil)
	e.SetAutoTune(true)
	e.SetStageAutoTune(params.StageWhiteBalance, true)
	// A green-dominant image classifies as GreenLake, whose estimate
	// switches the method away from the gray_world default.
	img := pixel.New(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := float32(0.2 + 0.5*float32(x)/16)
			img.Set(x, y, v*0.4, v, v*0.5)
		}
	}

	before, _ := e.GetParameter("white_balance_method")

	_, _, err := e.Process(context.Background(), img, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, _ := e.GetParameter("white_balance_method")
	if before.Tag != "gray_world" {
		t.Fatalf("expected the gray_world default before the run, got %q", before.Tag)
	}
	if after.Tag != "lake_green_water" {
		t.Fatalf("expected auto-tune to select lake_green_water, got %q", after.Tag)
	}
}

func TestPreferencesRestoreRoundTrip(t *testing.T) {
	e := New(nil)
	e.SetParameter("clahe_clip_limit", params.FloatValue(5))
	e.SetAutoTune(true)
	e.SetStageAutoTune(params.StageCLAHE, true)
	e.SetEnhancedAutoTune(true)

	prefs := e.Preferences()

	e2 := New(nil)
	e2.Restore(prefs)

	v, _ := e2.GetParameter("clahe_clip_limit")
	if v.Float != 5 {
		t.Fatalf("got %v, want 5 after restoring preferences", v.Float)
	}
	if !e2.autoAll || !e2.enhanced || !e2.autoPer[params.StageCLAHE] {
		t.Fatal("restore did not carry over the auto-tune configuration")
	}
}

func TestDescribePipelineListsAllStagesInOrder(t *testing.T) {
	e := New(nil)
	descs := e.DescribePipeline()
	if len(descs) != len(params.Order) {
		t.Fatalf("got %d descriptors, want %d", len(descs), len(params.Order))
	}
	for i, d := range descs {
		if d.ID != params.Order[i] {
			t.Fatalf("descriptor %d: got stage %s, want %s", i, d.ID, params.Order[i])
		}
		if !d.Enabled {
			t.Fatalf("stage %s should be enabled by default", d.ID)
		}
		if len(d.ParameterKeys) == 0 {
			t.Fatalf("stage %s should own at least one parameter key", d.ID)
		}
	}
}

func TestResetStageDefaultsViaEngine(t *testing.T) {
	e := New(nil)
	e.SetParameter("clahe_clip_limit", params.FloatValue(9))
	e.ResetStageDefaults(params.StageCLAHE)
	v, _ := e.GetParameter("clahe_clip_limit")
	if v.Float != 2.0 {
		t.Fatalf("got %v, want the schema default of 2.0 after reset", v.Float)
	}
}
