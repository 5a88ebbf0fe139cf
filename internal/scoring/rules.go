package scoring

import (
	"fmt"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

const (
	ReasonAccessibleMatched  = "Accessible room matched"
	ReasonAccessibleMissing  = "Accessible room required but not provided"
	ReasonSmokingMatched     = "Smoking preference matched"
	ReasonSmokingMismatch    = "Smoking preference not met"
	ReasonVIPOceanView       = "VIP ocean view priority"
	ReasonVIPRoomType        = "VIP room type priority"
	ReasonLoyalGuest         = "Loyal guest bonus"
	ReasonOverBudget         = "Over budget"
	ReasonNoisyFloor         = "Low floor may be noisy"
	ReasonStandardAllocation = "Standard allocation"
)

func reasonPreferredView(v store.View) string { return fmt.Sprintf("Preferred %s view", v) }
func reasonPreferredFloor(b store.FloorBand) string { return fmt.Sprintf("Preferred %s floor", b) }

// RuleScorer is the deterministic additive strategy: start from a base score,
// apply each triggered bonus or penalty, clamp to [0, 100].
type RuleScorer struct {
	weights RuleWeights
}

func NewRuleScorer(weights RuleWeights) *RuleScorer {
	return &RuleScorer{weights: weights}
}

func (s *RuleScorer) Method() string { return MethodRuleBased }

// Weights returns the weight set the scorer was built with.
func (s *RuleScorer) Weights() RuleWeights { return s.weights }

func (s *RuleScorer) Score(room *store.Room, guest *store.Guest, _ *store.Booking) RoomScore {
	w := s.weights
	prefs := guest.Preferences
	total := w.Base
	var reasons []string
	var factors []FactorResult

	apply := func(name string, delta float64, reason string) {
		total += delta
		reasons = append(reasons, reason)
		factors = append(factors, FactorResult{Name: name, Score: 1, Weight: delta, Weighted: delta, Reason: reason})
	}

	// Only an explicit requirement counts; absent or false is no preference.
	if prefs.RequiresAccessible() {
		if room.Accessible {
			apply("accessibility", w.AccessibleMatch, ReasonAccessibleMatched)
		} else {
			apply("accessibility", w.AccessibleMissing, ReasonAccessibleMissing)
		}
	}

	// Smoking is judged both ways once stated, including an explicit false.
	if prefs.Smoking != nil {
		if *prefs.Smoking == room.SmokingAllowed {
			apply("smoking", w.SmokingMatch, ReasonSmokingMatched)
		} else {
			apply("smoking", w.SmokingMismatch, ReasonSmokingMismatch)
		}
	}

	if prefs.View != nil && *prefs.View == room.View {
		apply("view", w.ViewMatch, reasonPreferredView(room.View))
	}

	if prefs.Floor != nil && MatchesFloorBand(room.Floor, *prefs.Floor) {
		apply("floor", w.FloorMatch, reasonPreferredFloor(*prefs.Floor))
	}

	if guest.VIPStatus {
		if room.View == store.ViewOcean {
			apply("vip_view", w.VIPOceanView, ReasonVIPOceanView)
		}
		if room.Type == store.RoomTypeSuite || room.Type == store.RoomTypeDeluxe {
			apply("vip_room_type", w.VIPRoomType, ReasonVIPRoomType)
		}
	}

	if guest.PreviousStays > w.LoyaltyMinStays {
		apply("loyalty", w.LoyaltyBonus, ReasonLoyalGuest)
	}

	if guest.BudgetMax != nil && room.BasePrice > *guest.BudgetMax {
		apply("budget", w.OverBudget, ReasonOverBudget)
	}

	if prefs.WantsQuiet() && room.Floor <= w.QuietNoisyMaxFloor {
		apply("quiet", w.QuietLowFloor, ReasonNoisyFloor)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonStandardAllocation)
	}

	return RoomScore{
		Score:    ClampScore(total),
		Reasons:  reasons,
		Factors:  factors,
		Feasible: true,
	}
}
