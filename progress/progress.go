/*
NAME
  progress.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package progress defines the abstract observer the pipeline engine
// reports through (spec §4.7, component C7). The core never transports
// these events anywhere; that is the caller's concern.
package progress

// Sink receives (stage, percent) events from a long-running
// operation. Implementations are invoked from the same goroutine that
// calls Engine.Process and must tolerate duplicate or non-monotone
// calls without failing, though the engine itself guarantees
// monotonicity within a single run.
type Sink interface {
	OnProgress(stage string, percent uint8)
}

// PipelineStage is the umbrella stage id bracketing an entire run at
// 0 and 100 (spec §6.4).
const PipelineStage = "pipeline"

// NoOp is a Sink that discards every event.
type NoOp struct{}

// OnProgress implements Sink.
func (NoOp) OnProgress(string, uint8) {}

// Func adapts a plain function to the Sink interface.
type Func func(stage string, percent uint8)

// OnProgress implements Sink.
func (f Func) OnProgress(stage string, percent uint8) { f(stage, percent) }

// Collector is a Sink that records every event it receives, useful
// for tests asserting monotonicity or exact event sequences.
type Collector struct {
	Events []Event
}

// Event is one recorded (stage, percent) pair.
type Event struct {
	Stage   string
	Percent uint8
}

// OnProgress implements Sink.
func (c *Collector) OnProgress(stage string, percent uint8) {
	c.Events = append(c.Events, Event{Stage: stage, Percent: percent})
}
