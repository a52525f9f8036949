/*
NAME
  stage.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stage implements the six enhancement stages of spec §4.3:
// white balance, UDCP dehazing, Beer-Lambert depth compensation,
// color rebalance, CLAHE and multi-scale fusion. Every stage works on
// float32 images in [0,1] and clamps to [0,1] at exit, and never panics
// across its own boundary: an internal failure yields the stage's
// input unchanged plus a StageFailed warning (spec §4.3.7, §7).
package stage

import (
	"fmt"

	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
)

// Stage is implemented by every pipeline stage.
type Stage interface {
	ID() params.StageID
	// Apply runs the stage. On internal failure it returns the
	// unchanged input image together with a non-nil error; callers
	// (the pipeline engine) substitute that image and record the
	// error as a warning rather than aborting the run.
	Apply(img *pixel.Image, store *params.Store) (*pixel.Image, error)
}

// FailedError is StageFailed from spec §7: a stage errored internally
// and the engine recovered by substituting its input.
type FailedError struct {
	Stage params.StageID
	Cause error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *FailedError) Unwrap() error { return e.Cause }

// guard runs fn, converting any panic into a FailedError and always
// falling back to input itself if fn reports failure. This is the
// stage-local recovery step spec §9 asks for in place of broad
// catch-and-return-input exception handling.
func guard(stage params.StageID, input *pixel.Image, fn func() (*pixel.Image, error)) (out *pixel.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = input
			err = &FailedError{Stage: stage, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	res, ferr := fn()
	if ferr != nil {
		return input, &FailedError{Stage: stage, Cause: ferr}
	}
	return res, nil
}

// All returns the six stages in the fixed pipeline order (spec §3).
func All() []Stage {
	return []Stage{
		NewWhiteBalance(),
		NewUDCP(),
		NewBeerLambert(),
		NewColorRebalance(),
		NewCLAHE(),
		NewFusion(),
	}
}
