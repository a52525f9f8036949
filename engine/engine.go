/*
NAME
  engine.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package engine implements the pipeline executor (spec §4.4,
// component C4): it runs the six enhancement stages in fixed order
// against a shared parameter store, optionally consulting the
// auto-tune layer before each stage, and reports progress through a
// caller-supplied sink.
package engine

import (
	"context"
	"fmt"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/aqualix/autotune"
	"github.com/ausocean/aqualix/params"
	"github.com/ausocean/aqualix/pixel"
	"github.com/ausocean/aqualix/preview"
	"github.com/ausocean/aqualix/progress"
	"github.com/ausocean/aqualix/stage"
)

// startPercent and endPercent give a stage index's progress band
// within the engine's reserved [10,90] window (spec §4.4).
func startPercent(i, n int) uint8 { return uint8(10 + i*80/n) }
func endPercent(i, n int) uint8   { return uint8(10 + (i+1)*80/n) }

// CancelledError reports that a run was aborted by its context
// between two stages; Partial holds the image as of the last
// completed stage.
type CancelledError struct {
	Stage   params.StageID
	Partial *pixel.Image
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("cancelled before stage %s", e.Stage)
}

// Result is the envelope returned alongside the processed image:
// warnings accumulated from rejected auto-tune overrides and recovered
// stage failures, plus the stages that ran and the stages skipped.
type Result struct {
	Warnings      []string
	StagesRun     []params.StageID
	StagesSkipped []params.StageID
}

// UserPreferences is an opaque blob threaded through by callers that
// want to persist engine settings (store snapshot, auto-tune flags)
// across sessions (spec §6.5). The engine does not interpret its
// contents beyond serializing/restoring the pieces it owns.
type UserPreferences struct {
	Values         map[string]params.Value
	AutoTuneGlobal bool
	AutoTuneStage  map[params.StageID]bool
	Enhanced       bool
}

// Engine holds the one parameter store and auto-tune configuration
// shared by every call to Process.
type Engine struct {
	store    *params.Store
	stages   []stage.Stage
	logger   logging.Logger
	autoAll  bool
	autoPer  map[params.StageID]bool
	enhanced bool
}

// New returns an Engine with every parameter at its schema default
// and auto-tune disabled.
func New(logger logging.Logger) *Engine {
	schema := params.DefaultSchema()
	return &Engine{
		store:   params.NewStore(schema),
		stages:  stage.All(),
		logger:  logger,
		autoPer: make(map[params.StageID]bool, len(params.Order)),
	}
}

// Store exposes the underlying parameter store for read access, e.g.
// by a UI layer enumerating current values.
func (e *Engine) Store() *params.Store { return e.store }

// SetParameter validates and applies a single parameter write.
func (e *Engine) SetParameter(key string, v params.Value) (clamped bool, err error) {
	return e.store.Set(key, v)
}

// GetParameter returns the current value of key.
func (e *Engine) GetParameter(key string) (params.Value, error) {
	return e.store.Get(key)
}

// ResetToDefaults restores every parameter to its schema default.
func (e *Engine) ResetToDefaults() { e.store.ResetToDefaults() }

// ResetStageDefaults restores only the parameters owned by stage.
func (e *Engine) ResetStageDefaults(s params.StageID) { e.store.ResetStageDefaults(s) }

// SetAutoTune enables or disables the global auto-tune switch; a
// stage only auto-tunes when both this and its own per-stage flag
// are on.
func (e *Engine) SetAutoTune(on bool) { e.autoAll = on }

// SetStageAutoTune enables or disables auto-tune for one stage.
func (e *Engine) SetStageAutoTune(s params.StageID, on bool) { e.autoPer[s] = on }

// SetEnhancedAutoTune selects the literature-based enhanced
// estimators, where registered, in place of the standard ones.
func (e *Engine) SetEnhancedAutoTune(on bool) { e.enhanced = on }

// Preferences captures the engine's current configuration.
func (e *Engine) Preferences() UserPreferences {
	per := make(map[params.StageID]bool, len(e.autoPer))
	for k, v := range e.autoPer {
		per[k] = v
	}
	return UserPreferences{
		Values:         e.store.Snapshot(),
		AutoTuneGlobal: e.autoAll,
		AutoTuneStage:  per,
		Enhanced:       e.enhanced,
	}
}

// Restore replaces the engine's configuration with a previously
// captured UserPreferences value.
func (e *Engine) Restore(p UserPreferences) {
	e.store.Restore(p.Values)
	e.autoAll = p.AutoTuneGlobal
	e.enhanced = p.Enhanced
	e.autoPer = make(map[params.StageID]bool, len(p.AutoTuneStage))
	for k, v := range p.AutoTuneStage {
		e.autoPer[k] = v
	}
}

// DetectWaterType classifies img's color-cast regime (spec §4.5,
// §Glossary), independent of any stage execution.
func (e *Engine) DetectWaterType(img *pixel.Image) autotune.WaterType {
	return autotune.ClassifyWaterType(img)
}

// StageDescriptor describes one pipeline stage for a UI layer.
type StageDescriptor struct {
	ID             params.StageID
	Name           string
	DisplayName    string
	Description    string
	Enabled        bool
	ParameterKeys  []string
	AutoTuneActive bool
}

// DescribePipeline returns the six stages in fixed order with their
// current enable state and owned parameter keys (spec §4.8).
func (e *Engine) DescribePipeline() []StageDescriptor {
	out := make([]StageDescriptor, 0, len(params.Order))
	for _, id := range params.Order {
		out = append(out, StageDescriptor{
			ID:             id,
			Name:           id.String(),
			DisplayName:    params.DisplayName(id),
			Description:    params.Description(id),
			Enabled:        e.store.Bool(params.EnableKey(id)),
			ParameterKeys:  e.store.Schema().KeysForStage(id),
			AutoTuneActive: e.autoAll && e.autoPer[id],
		})
	}
	return out
}

// Process runs the full pipeline over img (spec §4.4). The returned
// image is always a fresh *pixel.Image independent of img. If ctx is
// cancelled between two stages, Process returns the image as of the
// last completed stage together with a *CancelledError.
func (e *Engine) Process(ctx context.Context, img *pixel.Image, sink progress.Sink) (*pixel.Image, Result, error) {
	if sink == nil {
		sink = progress.NoOp{}
	}
	original := img
	current := img.Clone()
	var res Result

	sink.OnProgress(progress.PipelineStage, 0)

	n := len(e.stages)
	for i, st := range e.stages {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return current, res, &CancelledError{Stage: st.ID(), Partial: current}
			default:
			}
		}

		if e.autoAll && e.autoPer[st.ID()] {
			mode := autotune.Standard
			if e.enhanced {
				mode = autotune.Enhanced
			}
			if estimate, ok := autotune.Lookup(st.ID(), mode); ok {
				overrides := estimate(original)
				if err := e.store.ApplyOverrides(overrides); err != nil {
					res.Warnings = append(res.Warnings, fmt.Sprintf("auto-tune %s: %v", st.ID(), err))
				}
			}
		}

		enableKey := params.EnableKey(st.ID())
		if enableKey != "" && !e.store.Bool(enableKey) {
			res.StagesSkipped = append(res.StagesSkipped, st.ID())
			continue
		}

		sink.OnProgress(st.ID().String(), startPercent(i, n))

		out, err := st.Apply(current, e.store)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			if e.logger != nil {
				e.logger.Warning("stage failed, substituting input", "stage", st.ID().String(), "error", err.Error())
			}
		}
		current = out
		res.StagesRun = append(res.StagesRun, st.ID())

		sink.OnProgress(st.ID().String(), endPercent(i, n))
	}

	sink.OnProgress(progress.PipelineStage, 100)
	return current, res, nil
}

// ProcessForPreview downsamples img to at most maxSide on its longest
// side, runs the full pipeline over the downsampled copy, and returns
// the processed preview alongside the scale factor that was applied
// (spec §4.2, §4.4). maxSide <= 0 selects preview.DefaultMaxSide.
func (e *Engine) ProcessForPreview(ctx context.Context, img *pixel.Image, maxSide int, sink progress.Sink) (*pixel.Image, float32, Result, error) {
	if maxSide <= 0 {
		maxSide = preview.DefaultMaxSide
	}
	small, scale := preview.Downsample(img, maxSide)
	out, res, err := e.Process(ctx, small, sink)
	return out, scale, res, err
}
