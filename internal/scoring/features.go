package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

const (
	ReasonAccessibilitySatisfied = "Accessibility requirement satisfied"
	ReasonAccessibleRoom         = "Accessible room"
	ReasonQuietLocation          = "Quiet location"
	ReasonPriceMatchesBudget     = "Price matches budget"
	ReasonVIPGuest               = "VIP guest"
	ReasonPremiumView            = "Premium view"
	ReasonLoyalGuestFull         = "Loyal guest"
	ReasonTopFloor               = "Top floor"
	ReasonBestAvailable          = "Best available match"
)

// neutralBudgetFit is used when the guest has not stated a budget.
const neutralBudgetFit = 0.7

// viewDesirability ranks views from most to least desirable.
var viewDesirability = map[store.View]float64{
	store.ViewOcean:     1.0,
	store.ViewBeach:     0.9,
	store.ViewCity:      0.7,
	store.ViewGarden:    0.6,
	store.ViewCourtyard: 0.4,
}

// FeatureScale holds the normalization ceilings for raw room attributes.
type FeatureScale struct {
	MaxFloor int     `json:"max_floor" yaml:"max_floor"`
	MaxPrice float64 `json:"max_price" yaml:"max_price"`
}

func DefaultFeatureScale() FeatureScale {
	return FeatureScale{MaxFloor: 20, MaxPrice: 500}
}

// FeatureVector is the fixed set of normalized signals for one room–guest
// pair. Every field lies in [0, 1] except BudgetFit, which goes negative once
// the price is more than double the budget.
type FeatureVector struct {
	Floor          float64 `json:"floor"`
	Price          float64 `json:"price"`
	ViewScore      float64 `json:"view_score"`
	AccessibleRoom float64 `json:"accessible_room"`
	SmokingRoom    float64 `json:"smoking_room"`
	ViewMatch      float64 `json:"view_match"`
	FloorMatch     float64 `json:"floor_match"`
	SmokingMatch   float64 `json:"smoking_match"`
	QuietMatch     float64 `json:"quiet_match"`
	VIPScore       float64 `json:"vip_score"`
	LoyaltyScore   float64 `json:"loyalty_score"`
	BudgetFit      float64 `json:"budget_fit"`
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ExtractFeatures builds the feature vector for room and guest. quietMaxFloor
// is the highest floor still considered noisy.
func ExtractFeatures(room *store.Room, guest *store.Guest, scale FeatureScale, quietMaxFloor int) FeatureVector {
	prefs := guest.Preferences
	fv := FeatureVector{
		ViewScore:      viewDesirability[room.View],
		AccessibleRoom: boolFeature(room.Accessible),
		SmokingRoom:    boolFeature(room.SmokingAllowed),
		VIPScore:       boolFeature(guest.VIPStatus),
		LoyaltyScore:   math.Min(float64(guest.PreviousStays)/10.0, 1.0),
		BudgetFit:      neutralBudgetFit,
	}

	if scale.MaxFloor > 0 {
		fv.Floor = clamp(float64(room.Floor)/float64(scale.MaxFloor), 0, 1)
	}
	if scale.MaxPrice > 0 {
		fv.Price = clamp(room.BasePrice/scale.MaxPrice, 0, 1)
	}

	if prefs.View != nil {
		fv.ViewMatch = boolFeature(*prefs.View == room.View)
	}
	if prefs.Floor != nil {
		fv.FloorMatch = boolFeature(MatchesFloorBand(room.Floor, *prefs.Floor))
	}
	if prefs.Smoking != nil {
		fv.SmokingMatch = boolFeature(*prefs.Smoking == room.SmokingAllowed)
	}
	if prefs.WantsQuiet() {
		fv.QuietMatch = boolFeature(room.Floor > quietMaxFloor)
	}

	if guest.BudgetMax != nil && *guest.BudgetMax > 0 {
		budget := *guest.BudgetMax
		fv.BudgetFit = 1 - math.Abs(room.BasePrice-budget)/budget
	}

	return fv
}

// Sigmoid squashes a [0,1] linear score into [0,100] with a steep transition
// around 0.5.
func Sigmoid(x float64) float64 {
	return 100 / (1 + math.Exp(-10*(x-0.5)))
}

// FeatureScorer is the feature-weighted ("ml-based") strategy: a fixed linear
// combination of FeatureVector signals squashed through Sigmoid. It is fully
// deterministic; the weights are hand-tuned, not trained.
type FeatureScorer struct {
	weights       FeatureWeights
	scale         FeatureScale
	quietMaxFloor int
}

func NewFeatureScorer(weights FeatureWeights, scale FeatureScale) *FeatureScorer {
	return &FeatureScorer{
		weights:       weights,
		scale:         scale,
		quietMaxFloor: DefaultRuleWeights().QuietNoisyMaxFloor,
	}
}

func (s *FeatureScorer) Method() string { return MethodFeatureWeighted }

// Weights returns the weight vector the scorer was built with.
func (s *FeatureScorer) Weights() FeatureWeights { return s.weights }

func (s *FeatureScorer) Score(room *store.Room, guest *store.Guest, _ *store.Booking) RoomScore {
	fv := ExtractFeatures(room, guest, s.scale, s.quietMaxFloor)
	w := s.weights
	prefs := guest.Preferences

	factors := []FactorResult{
		{Name: "view_match", Score: fv.ViewMatch, Weight: w.ViewMatch},
		{Name: "smoking_match", Score: fv.SmokingMatch, Weight: w.SmokingMatch},
		{Name: "accessibility", Score: fv.AccessibleRoom, Weight: w.Accessibility},
		{Name: "floor_match", Score: fv.FloorMatch, Weight: w.FloorMatch},
		{Name: "quiet_match", Score: fv.QuietMatch, Weight: w.QuietMatch},
		{Name: "budget_fit", Score: fv.BudgetFit, Weight: w.BudgetFit},
		{Name: "vip_score", Score: fv.VIPScore, Weight: w.VIPScore},
		{Name: "view_score", Score: fv.ViewScore, Weight: w.ViewScore},
		{Name: "loyalty_score", Score: fv.LoyaltyScore, Weight: w.LoyaltyScore},
		{Name: "floor", Score: fv.Floor, Weight: w.Floor},
	}

	var linear float64
	for i := range factors {
		factors[i].Weighted = factors[i].Score * factors[i].Weight
		linear += factors[i].Weighted
	}

	var reasons []string
	add := func(idx int, reason string) {
		factors[idx].Reason = reason
		reasons = append(reasons, reason)
	}
	if fv.ViewMatch == 1 {
		add(0, reasonPreferredView(room.View))
	}
	if fv.SmokingMatch == 1 {
		add(1, ReasonSmokingMatched)
	}
	if fv.AccessibleRoom == 1 {
		if prefs.RequiresAccessible() {
			add(2, ReasonAccessibilitySatisfied)
		} else {
			add(2, ReasonAccessibleRoom)
		}
	}
	if fv.FloorMatch == 1 {
		add(3, reasonPreferredFloor(*prefs.Floor))
	}
	if fv.QuietMatch == 1 {
		add(4, ReasonQuietLocation)
	}
	if fv.BudgetFit == 1 {
		add(5, ReasonPriceMatchesBudget)
	}
	if fv.VIPScore == 1 {
		add(6, ReasonVIPGuest)
	}
	if fv.ViewScore == 1 {
		add(7, ReasonPremiumView)
	}
	if fv.LoyaltyScore == 1 {
		add(8, ReasonLoyalGuestFull)
	}
	if fv.Floor == 1 {
		add(9, ReasonTopFloor)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonBestAvailable)
	}

	return RoomScore{
		Score:    ClampScore(Sigmoid(linear)),
		Reasons:  reasons,
		Factors:  factors,
		Feasible: true,
	}
}
