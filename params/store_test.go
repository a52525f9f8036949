/*
NAME
  store_test.go

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

import "testing"

func newTestStore() *Store {
	return NewStore(DefaultSchema())
}

func TestNewStorePopulatesDefaults(t *testing.T) {
	s := newTestStore()
	v, err := s.Get("clahe_clip_limit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Float != 2.0 {
		t.Fatalf("got %v, want default 2.0", v.Float)
	}
}

func TestGetUnknownKey(t *testing.T) {
	s := newTestStore()
	_, err := s.Get("does_not_exist")
	if !IsUnknownParameter(err) {
		t.Fatalf("expected unknown-parameter error, got %v", err)
	}
}

func TestSetClampsOutOfRange(t *testing.T) {
	s := newTestStore()
	clamped, err := s.Set("clahe_clip_limit", FloatValue(99))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !clamped {
		t.Fatal("expected clamping to be reported")
	}
	v, _ := s.Get("clahe_clip_limit")
	if v.Float != 10.0 {
		t.Fatalf("got %v, want clamped max 10.0", v.Float)
	}
}

func TestSetWithinRangeNotClamped(t *testing.T) {
	s := newTestStore()
	clamped, err := s.Set("clahe_clip_limit", FloatValue(3.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clamped {
		t.Fatal("did not expect clamping for an in-range value")
	}
}

func TestSetTypeMismatch(t *testing.T) {
	s := newTestStore()
	_, err := s.Set("clahe_clip_limit", BoolValue(true))
	if !IsTypeMismatch(err) {
		t.Fatalf("expected type-mismatch error, got %v", err)
	}
}

func TestApplyOverridesIsTransactional(t *testing.T) {
	s := newTestStore()
	before := s.Snapshot()

	err := s.ApplyOverrides(Overrides{
		"clahe_clip_limit": FloatValue(4.0),
		"no_such_key":      FloatValue(1.0),
	})
	if err == nil {
		t.Fatal("expected an error for an unknown override key")
	}
	after := s.Snapshot()
	if !Equal(before, after) {
		t.Fatal("store must be unmodified when an override map contains an invalid key")
	}
}

func TestApplyOverridesAppliesAllOnSuccess(t *testing.T) {
	s := newTestStore()
	err := s.ApplyOverrides(Overrides{
		"clahe_clip_limit": FloatValue(4.0),
		"clahe_tile_size":  IntValue(16),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clip, _ := s.Get("clahe_clip_limit")
	tile, _ := s.Get("clahe_tile_size")
	if clip.Float != 4.0 || tile.Int != 16 {
		t.Fatalf("overrides not applied: clip=%v tile=%v", clip.Float, tile.Int)
	}
}

func TestResetToDefaultsIsIdempotent(t *testing.T) {
	s := newTestStore()
	s.Set("clahe_clip_limit", FloatValue(7))
	s.ResetToDefaults()
	first := s.Snapshot()
	s.ResetToDefaults()
	second := s.Snapshot()
	if !Equal(first, second) {
		t.Fatal("resetting to defaults twice should leave the store unchanged")
	}
	v, _ := s.Get("clahe_clip_limit")
	if v.Float != 2.0 {
		t.Fatalf("got %v, want default 2.0", v.Float)
	}
}

func TestResetStageDefaultsOnlyTouchesOwnedKeys(t *testing.T) {
	s := newTestStore()
	s.Set("clahe_clip_limit", FloatValue(7))
	s.Set("udcp_omega", FloatValue(0.5))

	s.ResetStageDefaults(StageCLAHE)

	clip, _ := s.Get("clahe_clip_limit")
	if clip.Float != 2.0 {
		t.Fatalf("clahe_clip_limit not reset: got %v", clip.Float)
	}
	omega, _ := s.Get("udcp_omega")
	if omega.Float != 0.5 {
		t.Fatalf("udcp_omega should be untouched by resetting the clahe stage, got %v", omega.Float)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot()
	s.Set("clahe_clip_limit", FloatValue(9))
	s.Restore(snap)
	v, _ := s.Get("clahe_clip_limit")
	if v.Float != 2.0 {
		t.Fatalf("restore did not revert the store, got %v", v.Float)
	}
}

func TestVisibleFollowsMethodChoice(t *testing.T) {
	s := newTestStore()
	if !s.Visible("gray_world_percentile") {
		t.Fatal("gray_world_percentile should be visible under the default gray_world method")
	}
	if s.Visible("white_patch_percentile") {
		t.Fatal("white_patch_percentile should not be visible under the default gray_world method")
	}
	s.Set("white_balance_method", ChoiceValue("white_patch"))
	if !s.Visible("white_patch_percentile") {
		t.Fatal("white_patch_percentile should become visible once white_patch is selected")
	}
	if s.Visible("gray_world_percentile") {
		t.Fatal("gray_world_percentile should no longer be visible once white_patch is selected")
	}
}

func TestKeysForStageMatchesEnableKey(t *testing.T) {
	schema := DefaultSchema()
	for _, st := range Order {
		keys := schema.KeysForStage(st)
		if len(keys) == 0 {
			t.Fatalf("stage %s owns no parameters", st)
		}
		found := false
		for _, k := range keys {
			if k == EnableKey(st) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("stage %s's KeysForStage does not include its own EnableKey %q", st, EnableKey(st))
		}
	}
}
