/*
NAME
  schema.go

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

// Descriptor declares everything the engine and any UI layer need to
// know about a single parameter: its kind, its legal range, its
// default, which stage owns it, and whether it's currently relevant
// given the rest of the store (spec §4.8).
type Descriptor struct {
	Key         string
	Stage       StageID
	Kind        Kind
	Min, Max    float64 // meaningful for KindInt/KindFloat
	Step        float64
	Default     Value
	Choices     []string // meaningful for KindChoice
	Label       string   // localized-label-tag placeholder; core never localizes
	VisibleWhen func(*Store) bool
}

// WhiteBalanceMethods enumerates the white_balance_method choice tags.
var WhiteBalanceMethods = []string{
	"gray_world", "white_patch", "shades_of_gray", "grey_edge", "lake_green_water",
}

func methodIs(tag string) func(*Store) bool {
	return func(s *Store) bool {
		v, err := s.Get("white_balance_method")
		return err == nil && v.Tag == tag
	}
}

// Schema is the static, ordered parameter catalogue. Order matters: it
// is the iteration order used for describe/reset-to-defaults.
type Schema struct {
	order []string
	byKey map[string]*Descriptor
}

// DefaultSchema returns the full parameter catalogue for the six
// pipeline stages, grounded on the parameter set documented in
// spec §4.3 and the original Aqualix defaults it was distilled from.
func DefaultSchema() *Schema {
	descs := []Descriptor{
		// White balance.
		{Key: "white_balance_enabled", Stage: StageWhiteBalance, Kind: KindBool, Default: BoolValue(true), Label: "white_balance.enabled"},
		{Key: "white_balance_method", Stage: StageWhiteBalance, Kind: KindChoice, Choices: WhiteBalanceMethods, Default: ChoiceValue("gray_world"), Label: "white_balance.method"},
		{Key: "gray_world_percentile", Stage: StageWhiteBalance, Kind: KindInt, Min: 0, Max: 100, Step: 1, Default: IntValue(15), Label: "gray_world.percentile", VisibleWhen: methodIs("gray_world")},
		{Key: "gray_world_max_adjustment", Stage: StageWhiteBalance, Kind: KindFloat, Min: 1.0, Max: 5.0, Step: 0.1, Default: FloatValue(2.0), Label: "gray_world.max_adjustment", VisibleWhen: methodIs("gray_world")},
		{Key: "white_patch_percentile", Stage: StageWhiteBalance, Kind: KindInt, Min: 90, Max: 100, Step: 1, Default: IntValue(99), Label: "white_patch.percentile", VisibleWhen: methodIs("white_patch")},
		{Key: "white_patch_max_adjustment", Stage: StageWhiteBalance, Kind: KindFloat, Min: 1.0, Max: 5.0, Step: 0.1, Default: FloatValue(2.0), Label: "white_patch.max_adjustment", VisibleWhen: methodIs("white_patch")},
		{Key: "shades_of_gray_norm", Stage: StageWhiteBalance, Kind: KindInt, Min: 1, Max: 10, Step: 1, Default: IntValue(6), Label: "shades_of_gray.norm", VisibleWhen: methodIs("shades_of_gray")},
		{Key: "shades_of_gray_percentile", Stage: StageWhiteBalance, Kind: KindInt, Min: 0, Max: 100, Step: 1, Default: IntValue(50), Label: "shades_of_gray.percentile", VisibleWhen: methodIs("shades_of_gray")},
		{Key: "shades_of_gray_max_adjustment", Stage: StageWhiteBalance, Kind: KindFloat, Min: 1.0, Max: 5.0, Step: 0.1, Default: FloatValue(2.0), Label: "shades_of_gray.max_adjustment", VisibleWhen: methodIs("shades_of_gray")},
		{Key: "grey_edge_norm", Stage: StageWhiteBalance, Kind: KindInt, Min: 1, Max: 10, Step: 1, Default: IntValue(1), Label: "grey_edge.norm", VisibleWhen: methodIs("grey_edge")},
		{Key: "grey_edge_sigma", Stage: StageWhiteBalance, Kind: KindFloat, Min: 0, Max: 5, Step: 0.1, Default: FloatValue(1), Label: "grey_edge.sigma", VisibleWhen: methodIs("grey_edge")},
		{Key: "grey_edge_max_adjustment", Stage: StageWhiteBalance, Kind: KindFloat, Min: 1.0, Max: 5.0, Step: 0.1, Default: FloatValue(2.0), Label: "grey_edge.max_adjustment", VisibleWhen: methodIs("grey_edge")},
		{Key: "lake_green_reduction", Stage: StageWhiteBalance, Kind: KindFloat, Min: 0, Max: 1.0, Step: 0.01, Default: FloatValue(0.4), Label: "lake.green_reduction", VisibleWhen: methodIs("lake_green_water")},
		{Key: "lake_magenta_strength", Stage: StageWhiteBalance, Kind: KindFloat, Min: 0, Max: 0.5, Step: 0.01, Default: FloatValue(0.15), Label: "lake.magenta_strength", VisibleWhen: methodIs("lake_green_water")},
		{Key: "lake_gray_world_influence", Stage: StageWhiteBalance, Kind: KindFloat, Min: 0, Max: 1.0, Step: 0.01, Default: FloatValue(0.7), Label: "lake.gray_world_influence", VisibleWhen: methodIs("lake_green_water")},

		// UDCP.
		{Key: "udcp_enabled", Stage: StageUDCP, Kind: KindBool, Default: BoolValue(true), Label: "udcp.enabled"},
		{Key: "udcp_omega", Stage: StageUDCP, Kind: KindFloat, Min: 0, Max: 1, Step: 0.01, Default: FloatValue(0.95), Label: "udcp.omega"},
		{Key: "udcp_t0", Stage: StageUDCP, Kind: KindFloat, Min: 0.01, Max: 1, Step: 0.01, Default: FloatValue(0.1), Label: "udcp.t0"},
		{Key: "udcp_window_size", Stage: StageUDCP, Kind: KindInt, Min: 3, Max: 51, Step: 2, Default: IntValue(11), Label: "udcp.window_size"},
		{Key: "udcp_guided_radius", Stage: StageUDCP, Kind: KindInt, Min: 1, Max: 200, Step: 1, Default: IntValue(60), Label: "udcp.guided_radius"},
		{Key: "udcp_guided_eps", Stage: StageUDCP, Kind: KindFloat, Min: 0.0001, Max: 1, Step: 0.0001, Default: FloatValue(0.001), Label: "udcp.guided_eps"},
		{Key: "udcp_enhance_contrast", Stage: StageUDCP, Kind: KindFloat, Min: 0.5, Max: 3.0, Step: 0.1, Default: FloatValue(1.2), Label: "udcp.enhance_contrast"},

		// Beer-Lambert.
		{Key: "beer_lambert_enabled", Stage: StageBeerLambert, Kind: KindBool, Default: BoolValue(true), Label: "beer_lambert.enabled"},
		{Key: "beer_lambert_depth_factor", Stage: StageBeerLambert, Kind: KindFloat, Min: 0, Max: 1, Step: 0.01, Default: FloatValue(0.15), Label: "beer_lambert.depth_factor"},
		{Key: "beer_lambert_red_coeff", Stage: StageBeerLambert, Kind: KindFloat, Min: 0.1, Max: 2.0, Step: 0.01, Default: FloatValue(0.6), Label: "beer_lambert.red_coeff"},
		{Key: "beer_lambert_green_coeff", Stage: StageBeerLambert, Kind: KindFloat, Min: 0.1, Max: 1.5, Step: 0.01, Default: FloatValue(0.3), Label: "beer_lambert.green_coeff"},
		{Key: "beer_lambert_blue_coeff", Stage: StageBeerLambert, Kind: KindFloat, Min: 0.05, Max: 1.0, Step: 0.01, Default: FloatValue(0.1), Label: "beer_lambert.blue_coeff"},
		{Key: "beer_lambert_enhance_factor", Stage: StageBeerLambert, Kind: KindFloat, Min: 1.0, Max: 3.0, Step: 0.01, Default: FloatValue(1.5), Label: "beer_lambert.enhance_factor"},

		// Color rebalance.
		{Key: "color_rebalance_enabled", Stage: StageColorRebalance, Kind: KindBool, Default: BoolValue(true), Label: "color_rebalance.enabled"},
		{Key: "color_rebalance_rr", Stage: StageColorRebalance, Kind: KindFloat, Min: 0.5, Max: 2.0, Step: 0.01, Default: FloatValue(1.0), Label: "color_rebalance.rr"},
		{Key: "color_rebalance_rg", Stage: StageColorRebalance, Kind: KindFloat, Min: -0.5, Max: 0.5, Step: 0.01, Default: FloatValue(0.0), Label: "color_rebalance.rg"},
		{Key: "color_rebalance_rb", Stage: StageColorRebalance, Kind: KindFloat, Min: -0.5, Max: 0.5, Step: 0.01, Default: FloatValue(0.0), Label: "color_rebalance.rb"},
		{Key: "color_rebalance_gr", Stage: StageColorRebalance, Kind: KindFloat, Min: -0.5, Max: 0.5, Step: 0.01, Default: FloatValue(0.0), Label: "color_rebalance.gr"},
		{Key: "color_rebalance_gg", Stage: StageColorRebalance, Kind: KindFloat, Min: 0.5, Max: 2.0, Step: 0.01, Default: FloatValue(1.0), Label: "color_rebalance.gg"},
		{Key: "color_rebalance_gb", Stage: StageColorRebalance, Kind: KindFloat, Min: -0.5, Max: 0.5, Step: 0.01, Default: FloatValue(0.0), Label: "color_rebalance.gb"},
		{Key: "color_rebalance_br", Stage: StageColorRebalance, Kind: KindFloat, Min: -0.5, Max: 0.5, Step: 0.01, Default: FloatValue(0.0), Label: "color_rebalance.br"},
		{Key: "color_rebalance_bg", Stage: StageColorRebalance, Kind: KindFloat, Min: -0.5, Max: 0.5, Step: 0.01, Default: FloatValue(0.0), Label: "color_rebalance.bg"},
		{Key: "color_rebalance_bb", Stage: StageColorRebalance, Kind: KindFloat, Min: 0.5, Max: 2.0, Step: 0.01, Default: FloatValue(1.0), Label: "color_rebalance.bb"},
		{Key: "color_rebalance_saturation_limit", Stage: StageColorRebalance, Kind: KindFloat, Min: 0, Max: 1.0, Step: 0.01, Default: FloatValue(0.8), Label: "color_rebalance.saturation_limit"},
		{Key: "color_rebalance_preserve_luminance", Stage: StageColorRebalance, Kind: KindBool, Default: BoolValue(false), Label: "color_rebalance.preserve_luminance"},

		// CLAHE.
		{Key: "clahe_enabled", Stage: StageCLAHE, Kind: KindBool, Default: BoolValue(true), Label: "clahe.enabled"},
		{Key: "clahe_clip_limit", Stage: StageCLAHE, Kind: KindFloat, Min: 0.5, Max: 10.0, Step: 0.1, Default: FloatValue(2.0), Label: "clahe.clip_limit"},
		{Key: "clahe_tile_size", Stage: StageCLAHE, Kind: KindInt, Min: 2, Max: 32, Step: 1, Default: IntValue(8), Label: "clahe.tile_size"},

		// Multi-scale fusion.
		{Key: "fusion_enabled", Stage: StageFusion, Kind: KindBool, Default: BoolValue(true), Label: "fusion.enabled"},
		{Key: "fusion_laplacian_levels", Stage: StageFusion, Kind: KindInt, Min: 2, Max: 10, Step: 1, Default: IntValue(5), Label: "fusion.laplacian_levels"},
		{Key: "fusion_contrast_weight", Stage: StageFusion, Kind: KindFloat, Min: 0, Max: 2.0, Step: 0.01, Default: FloatValue(1.0), Label: "fusion.contrast_weight"},
		{Key: "fusion_saturation_weight", Stage: StageFusion, Kind: KindFloat, Min: 0, Max: 2.0, Step: 0.01, Default: FloatValue(1.0), Label: "fusion.saturation_weight"},
		{Key: "fusion_exposedness_weight", Stage: StageFusion, Kind: KindFloat, Min: 0, Max: 2.0, Step: 0.01, Default: FloatValue(1.0), Label: "fusion.exposedness_weight"},
		{Key: "fusion_sigma_contrast", Stage: StageFusion, Kind: KindFloat, Min: 0.05, Max: 1.0, Step: 0.01, Default: FloatValue(0.2), Label: "fusion.sigma_contrast"},
		{Key: "fusion_sigma_saturation", Stage: StageFusion, Kind: KindFloat, Min: 0.05, Max: 1.0, Step: 0.01, Default: FloatValue(0.3), Label: "fusion.sigma_saturation"},
		{Key: "fusion_sigma_exposedness", Stage: StageFusion, Kind: KindFloat, Min: 0.05, Max: 1.0, Step: 0.01, Default: FloatValue(0.2), Label: "fusion.sigma_exposedness"},
	}

	s := &Schema{byKey: make(map[string]*Descriptor, len(descs))}
	for i := range descs {
		d := descs[i]
		s.order = append(s.order, d.Key)
		s.byKey[d.Key] = &d
	}
	return s
}

// Lookup returns the descriptor for key, or nil if key is not in the
// schema.
func (s *Schema) Lookup(key string) *Descriptor {
	return s.byKey[key]
}

// Keys returns every parameter key in declaration order.
func (s *Schema) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// KeysForStage returns, in declaration order, the parameter keys
// owned by stage. This is StageDescriptor.parameter-keys from spec §3.
func (s *Schema) KeysForStage(stage StageID) []string {
	var out []string
	for _, k := range s.order {
		if s.byKey[k].Stage == stage {
			out = append(out, k)
		}
	}
	return out
}

// EnableKey returns the enable-flag parameter key for a stage.
func EnableKey(stage StageID) string {
	switch stage {
	case StageWhiteBalance:
		return "white_balance_enabled"
	case StageUDCP:
		return "udcp_enabled"
	case StageBeerLambert:
		return "beer_lambert_enabled"
	case StageColorRebalance:
		return "color_rebalance_enabled"
	case StageCLAHE:
		return "clahe_enabled"
	case StageFusion:
		return "fusion_enabled"
	default:
		return ""
	}
}

// DisplayName returns the human-facing display name of a stage.
func DisplayName(stage StageID) string {
	switch stage {
	case StageWhiteBalance:
		return "White Balance"
	case StageUDCP:
		return "Underwater Dark Channel Prior"
	case StageBeerLambert:
		return "Beer-Lambert Depth Compensation"
	case StageColorRebalance:
		return "Color Rebalance"
	case StageCLAHE:
		return "Adaptive Histogram Equalization (CLAHE)"
	case StageFusion:
		return "Multi-Scale Fusion"
	default:
		return "Unknown"
	}
}

// Description returns a short human-facing description of a stage.
func Description(stage StageID) string {
	switch stage {
	case StageWhiteBalance:
		return "Corrects global color cast using one of five illuminant-estimation methods."
	case StageUDCP:
		return "Removes haze using a dark-channel prior adapted for underwater scattering."
	case StageBeerLambert:
		return "Compensates per-channel light attenuation with depth using Beer-Lambert's law."
	case StageColorRebalance:
		return "Applies a fine-tuning 3x3 color matrix with a saturation guard against magenta halos."
	case StageCLAHE:
		return "Boosts local contrast on the L channel with clip-limited adaptive histogram equalization."
	case StageFusion:
		return "Fuses contrast, saturation and exposedness variants via Laplacian pyramid blending."
	default:
		return ""
	}
}
