/*
NAME
  store.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package params

// Warning mirrors the OutOfRange entry from spec §7: a parameter
// write was clamped rather than rejected.
type Warning struct {
	Key        string
	Requested  Value
	Clamped    Value
	Min, Max   float64
}

func (w Warning) String() string {
	return "out of range: " + w.Key
}

// Store is the single source of truth for stage parameters: an
// ordered mapping from parameter key to tagged value, mutated only
// through validating writes (spec §3).
type Store struct {
	schema *Schema
	values map[string]Value
}

// NewStore returns a Store populated with every schema default.
func NewStore(schema *Schema) *Store {
	s := &Store{schema: schema, values: make(map[string]Value, len(schema.order))}
	s.ResetToDefaults()
	return s
}

// Schema returns the schema this store validates against.
func (s *Store) Schema() *Schema { return s.schema }

// Get returns the current value for key, or ErrUnknownParameter if
// key is not declared in the schema.
func (s *Store) Get(key string) (Value, error) {
	d := s.schema.Lookup(key)
	if d == nil {
		return Value{}, ErrUnknownParameter(key)
	}
	return s.values[key], nil
}

// Set validates and applies a write. Numeric writes outside the
// descriptor's [Min, Max] are clamped, not rejected; clamped reports
// whether clamping occurred (the OutOfRange warning from spec §7).
// Unknown keys and kind mismatches are hard errors.
func (s *Store) Set(key string, v Value) (clamped bool, err error) {
	d := s.schema.Lookup(key)
	if d == nil {
		return false, ErrUnknownParameter(key)
	}
	if d.Kind != v.Kind {
		return false, ErrTypeMismatch(key, d.Kind, v.Kind)
	}

	switch d.Kind {
	case KindBool, KindChoice:
		s.values[key] = v
		return false, nil
	case KindInt:
		f := float64(v.Int)
		cf, did := clampRange(f, d.Min, d.Max)
		v.Int = int32(cf)
		s.values[key] = v
		return did, nil
	case KindFloat:
		f := float64(v.Float)
		cf, did := clampRange(f, d.Min, d.Max)
		v.Float = float32(cf)
		s.values[key] = v
		return did, nil
	default:
		s.values[key] = v
		return false, nil
	}
}

func clampRange(v, min, max float64) (float64, bool) {
	if v < min {
		return min, true
	}
	if v > max {
		return max, true
	}
	return v, false
}

// ApplyOverrides applies an Overrides map transactionally: if any key
// is invalid the store is left unmodified and an error is returned.
// This is how auto-tune estimates (spec §4.5) are coalesced into the
// store before the owning stage runs.
func (s *Store) ApplyOverrides(ov Overrides) error {
	if len(ov) == 0 {
		return nil
	}
	// Validate first so the apply is all-or-nothing.
	for k, v := range ov {
		d := s.schema.Lookup(k)
		if d == nil {
			return ErrUnknownParameter(k)
		}
		if d.Kind != v.Kind {
			return ErrTypeMismatch(k, d.Kind, v.Kind)
		}
	}
	for k, v := range ov {
		s.Set(k, v)
	}
	return nil
}

// ResetToDefaults restores every parameter to its schema default.
// Idempotent: two consecutive calls leave the store equal.
func (s *Store) ResetToDefaults() {
	for _, k := range s.schema.order {
		s.values[k] = s.schema.byKey[k].Default
	}
}

// ResetStageDefaults restores only the parameters owned by stage,
// iterating the schema's per-stage key list rather than matching on a
// name prefix (see spec §9's re-architecture note).
func (s *Store) ResetStageDefaults(stage StageID) {
	for _, k := range s.schema.KeysForStage(stage) {
		s.values[k] = s.schema.byKey[k].Default
	}
}

// Snapshot returns a plain value copy of the store's current state.
func (s *Store) Snapshot() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Restore replaces the store's state with a previously captured
// snapshot.
func (s *Store) Restore(snap map[string]Value) {
	s.values = make(map[string]Value, len(snap))
	for k, v := range snap {
		s.values[k] = v
	}
}

// Equal reports whether two snapshots hold identical values.
func Equal(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Visible reports whether key's VisibleWhen predicate (if any)
// currently holds.
func (s *Store) Visible(key string) bool {
	d := s.schema.Lookup(key)
	if d == nil || d.VisibleWhen == nil {
		return true
	}
	return d.VisibleWhen(s)
}

// --- Convenience typed accessors for internal (schema-guaranteed) reads. ---
//
// These are used by stage/autotune/quality code which only ever reads
// keys it knows are in the schema; they return the zero value rather
// than an error for a genuinely unknown key, since that would be a
// programming error within this module, not a caller mistake.

// Float returns key's value as a float32.
func (s *Store) Float(key string) float32 {
	v := s.values[key]
	return v.Float
}

// Int returns key's value as an int32.
func (s *Store) Int(key string) int32 {
	v := s.values[key]
	return v.Int
}

// Bool returns key's value as a bool.
func (s *Store) Bool(key string) bool {
	v := s.values[key]
	return v.Bool
}

// Choice returns key's value as a choice tag.
func (s *Store) Choice(key string) string {
	v := s.values[key]
	return v.Tag
}
