package scoring

import (
	"fmt"
	"math"
)

// RuleWeights are the hand-authored bonuses and penalties of the rule-based
// strategy. Penalties are stored as negative values.
type RuleWeights struct {
	Version string `json:"version" yaml:"version"`

	Base               float64 `json:"base" yaml:"base"`
	AccessibleMatch    float64 `json:"accessible_match" yaml:"accessible_match"`
	AccessibleMissing  float64 `json:"accessible_missing" yaml:"accessible_missing"`
	SmokingMatch       float64 `json:"smoking_match" yaml:"smoking_match"`
	SmokingMismatch    float64 `json:"smoking_mismatch" yaml:"smoking_mismatch"`
	ViewMatch          float64 `json:"view_match" yaml:"view_match"`
	FloorMatch         float64 `json:"floor_match" yaml:"floor_match"`
	VIPOceanView       float64 `json:"vip_ocean_view" yaml:"vip_ocean_view"`
	VIPRoomType        float64 `json:"vip_room_type" yaml:"vip_room_type"`
	LoyaltyBonus       float64 `json:"loyalty_bonus" yaml:"loyalty_bonus"`
	LoyaltyMinStays    int     `json:"loyalty_min_stays" yaml:"loyalty_min_stays"`
	OverBudget         float64 `json:"over_budget" yaml:"over_budget"`
	QuietLowFloor      float64 `json:"quiet_low_floor" yaml:"quiet_low_floor"`
	QuietNoisyMaxFloor int     `json:"quiet_noisy_max_floor" yaml:"quiet_noisy_max_floor"`
}

func DefaultRuleWeights() RuleWeights {
	return RuleWeights{
		Version:            "rules-v1",
		Base:               50,
		AccessibleMatch:    30,
		AccessibleMissing:  -40,
		SmokingMatch:       20,
		SmokingMismatch:    -30,
		ViewMatch:          15,
		FloorMatch:         10,
		VIPOceanView:       15,
		VIPRoomType:        10,
		LoyaltyBonus:       5,
		LoyaltyMinStays:    5,
		OverBudget:         -25,
		QuietLowFloor:      -10,
		QuietNoisyMaxFloor: 2,
	}
}

// Validate checks that bonuses are non-negative and penalties non-positive.
func (w RuleWeights) Validate() error {
	if w.Version == "" {
		return fmt.Errorf("rule weights: version required")
	}
	if w.Base < 0 || w.Base > 100 {
		return fmt.Errorf("rule weights: base %.1f outside [0,100]", w.Base)
	}
	for name, v := range map[string]float64{
		"accessible_match": w.AccessibleMatch, "smoking_match": w.SmokingMatch, "view_match": w.ViewMatch,
		"floor_match": w.FloorMatch, "vip_ocean_view": w.VIPOceanView, "vip_room_type": w.VIPRoomType,
		"loyalty_bonus": w.LoyaltyBonus,
	} {
		if v < 0 {
			return fmt.Errorf("rule weights: %s must be >= 0, got %.1f", name, v)
		}
	}
	for name, v := range map[string]float64{
		"accessible_missing": w.AccessibleMissing, "smoking_mismatch": w.SmokingMismatch,
		"over_budget": w.OverBudget, "quiet_low_floor": w.QuietLowFloor,
	} {
		if v > 0 {
			return fmt.Errorf("rule weights: %s must be <= 0, got %.1f", name, v)
		}
	}
	return nil
}

// FeatureWeights define the linear combination used by the feature-weighted
// strategy. All weights must sum to 1.0 (±0.001 tolerance). The struct is
// versioned so a trained model can replace the hand-tuned one without
// touching callers.
type FeatureWeights struct {
	Version       string  `json:"version" yaml:"version"`
	ViewMatch     float64 `json:"view_match" yaml:"view_match"`
	SmokingMatch  float64 `json:"smoking_match" yaml:"smoking_match"`
	Accessibility float64 `json:"accessibility" yaml:"accessibility"`
	FloorMatch    float64 `json:"floor_match" yaml:"floor_match"`
	QuietMatch    float64 `json:"quiet_match" yaml:"quiet_match"`
	BudgetFit     float64 `json:"budget_fit" yaml:"budget_fit"`
	VIPScore      float64 `json:"vip_score" yaml:"vip_score"`
	ViewScore     float64 `json:"view_score" yaml:"view_score"`
	LoyaltyScore  float64 `json:"loyalty_score" yaml:"loyalty_score"`
	Floor         float64 `json:"floor" yaml:"floor"`
}

// DefaultFeatureWeights returns the hand-tuned v1 weight vector.
func DefaultFeatureWeights() FeatureWeights {
	return FeatureWeights{
		Version:       "features-v1",
		ViewMatch:     0.25,
		SmokingMatch:  0.20,
		Accessibility: 0.15,
		FloorMatch:    0.12,
		QuietMatch:    0.10,
		BudgetFit:     0.10,
		VIPScore:      0.08,
		ViewScore:     0.05,
		LoyaltyScore:  0.03,
		Floor:         0.02,
	}
}

// Sum returns the total of all weights.
func (w FeatureWeights) Sum() float64 {
	var total float64
	for _, v := range w.asList() {
		total += v
	}
	return total
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w FeatureWeights) Validate() error {
	if w.Version == "" {
		return fmt.Errorf("feature weights: version required")
	}
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range w.asList() {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

func (w FeatureWeights) asList() []float64 {
	return []float64{
		w.ViewMatch, w.SmokingMatch, w.Accessibility, w.FloorMatch, w.QuietMatch,
		w.BudgetFit, w.VIPScore, w.ViewScore, w.LoyaltyScore, w.Floor,
	}
}
