/*
NAME
  params.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package params provides the declarative parameter schema and the
// validating parameter store used by the enhancement pipeline engine.
// Keys are fixed by the schema; the store is the single source of
// truth for stage configuration and is mutated only through
// validating writes.
package params

import "fmt"

// Kind is the tagged type of a parameter value.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// StageID identifies a pipeline stage. The zero value is not a valid
// stage; StageID values are only ever produced by this package.
type StageID int

const (
	StageWhiteBalance StageID = iota + 1
	StageUDCP
	StageBeerLambert
	StageColorRebalance
	StageCLAHE
	StageFusion
)

// Order is the fixed pipeline order, matching spec §3's PipelineOrder.
var Order = []StageID{
	StageWhiteBalance,
	StageUDCP,
	StageBeerLambert,
	StageColorRebalance,
	StageCLAHE,
	StageFusion,
}

// String returns the stable ASCII wire id for the stage, matching the
// progress event shape in spec §6.4.
func (s StageID) String() string {
	switch s {
	case StageWhiteBalance:
		return "white_balance"
	case StageUDCP:
		return "udcp"
	case StageBeerLambert:
		return "beer_lambert"
	case StageColorRebalance:
		return "color_rebalance"
	case StageCLAHE:
		return "clahe"
	case StageFusion:
		return "fusion"
	default:
		return "unknown"
	}
}

// Value is a tagged parameter value. Only the field matching Kind is
// meaningful.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int32
	Float float32
	Tag   string // choice tag
}

// BoolValue constructs a bool-kinded Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue constructs an int-kinded Value.
func IntValue(i int32) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue constructs a float-kinded Value.
func FloatValue(f float32) Value { return Value{Kind: KindFloat, Float: f} }

// ChoiceValue constructs a choice-kinded Value.
func ChoiceValue(tag string) Value { return Value{Kind: KindChoice, Tag: tag} }

// AsFloat returns the value as a float64, widening int/bool as needed.
// Used by range clamping, which is always expressed in float64.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case KindFloat:
		return float64(v.Float)
	case KindInt:
		return float64(v.Int)
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindChoice:
		return v.Tag
	default:
		return "<invalid>"
	}
}

// Overrides is a partial map from parameter key to value, as produced
// by an auto-tune estimator (spec §4.5). Estimators never mutate a
// Store directly; the engine applies an Overrides map transactionally.
type Overrides map[string]Value

// ParamError is the taxonomy of parameter-write failures from spec §7.
type ParamError struct {
	Kind string // "unknown_parameter" | "type_mismatch"
	Key  string
	Msg  string
}

func (e *ParamError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Key, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Key)
}

// ErrUnknownParameter reports a write or read of a key not present in
// the schema.
func ErrUnknownParameter(key string) error {
	return &ParamError{Kind: "unknown_parameter", Key: key}
}

// ErrTypeMismatch reports a write whose Value.Kind does not match the
// schema's declared kind for the key.
func ErrTypeMismatch(key string, expected, actual Kind) error {
	return &ParamError{
		Kind: "type_mismatch",
		Key:  key,
		Msg:  fmt.Sprintf("expected %s, got %s", expected, actual),
	}
}

// IsUnknownParameter reports whether err is an ErrUnknownParameter.
func IsUnknownParameter(err error) bool {
	pe, ok := err.(*ParamError)
	return ok && pe.Kind == "unknown_parameter"
}

// IsTypeMismatch reports whether err is an ErrTypeMismatch.
func IsTypeMismatch(err error) bool {
	pe, ok := err.(*ParamError)
	return ok && pe.Kind == "type_mismatch"
}
