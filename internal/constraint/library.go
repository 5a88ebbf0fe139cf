package constraint

import (
	"fmt"

	"github.com/MikeSquared-Agency/Concierge/internal/scoring"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

const (
	CodeRoomTypeMatch         = "ROOM_TYPE_MATCH"
	CodeNoDoubleBooking       = "NO_DOUBLE_BOOKING"
	CodeAccessibilityRequired = "ACCESSIBILITY_REQUIRED"
	CodeSmokingPolicy         = "SMOKING_POLICY"
	CodeViewPreference        = "VIEW_PREFERENCE"
	CodeFloorPreference       = "FLOOR_PREFERENCE"
	CodeVIPOceanView          = "VIP_OCEAN_VIEW"
	CodeVIPRoomType           = "VIP_ROOM_TYPE"
	CodeLoyaltyBonus          = "LOYALTY_BONUS"
	CodeBudgetExceeded        = "BUDGET_EXCEEDED"
	CodeQuietLocation         = "QUIET_LOCATION"
)

func floatPtr(v float64) *float64 { return &v }

// builtin pairs each library template with its evaluator. Weights mirror the
// rule-based strategy so both produce comparable soft scores.
var builtin = []struct {
	tmpl Template
	eval Evaluator
}{
	{
		Template{
			Code: CodeRoomTypeMatch, Name: "Room type must match request", Kind: KindHard,
			Category: CategoryInventory, Description: "The assigned room is of the requested type.",
		},
		roomTypeMatch,
	},
	{
		Template{
			Code: CodeNoDoubleBooking, Name: "No double booking", Kind: KindHard,
			Category: CategoryInventory, Description: "A room is assigned to at most one booking per allocation run.",
		},
		noDoubleBooking,
	},
	{
		Template{
			Code: CodeAccessibilityRequired, Name: "Accessibility requirement must be met", Kind: KindHard,
			Category: CategoryPolicy, DefaultWeight: 30,
			Description: "Guests requiring accessibility get an accessible room.",
		},
		accessibilityRequired,
	},
	{
		Template{
			Code: CodeSmokingPolicy, Name: "Smoking policy must be satisfied", Kind: KindHard,
			Category: CategoryPolicy, DefaultWeight: 20,
			Description: "Smokers get a smoking room. Non-smokers in a smoking room cost the weight.",
		},
		smokingPolicy,
	},
	{
		Template{
			Code: CodeViewPreference, Name: "View preference matched", Kind: KindSoft,
			Category: CategoryPreference, DefaultWeight: 15,
			Description: "Reward rooms with the guest's preferred view.",
		},
		viewPreference,
	},
	{
		Template{
			Code: CodeFloorPreference, Name: "Floor preference matched", Kind: KindSoft,
			Category: CategoryPreference, DefaultWeight: 10,
			Description: "Reward rooms in the guest's preferred floor band.",
		},
		floorPreference,
	},
	{
		Template{
			Code: CodeVIPOceanView, Name: "VIP ocean view priority", Kind: KindSoft,
			Category: CategoryPriority, DefaultWeight: 15,
			Description: "Reward ocean view rooms for VIP guests.",
		},
		vipOceanView,
	},
	{
		Template{
			Code: CodeVIPRoomType, Name: "VIP room type priority", Kind: KindSoft,
			Category: CategoryPriority, DefaultWeight: 10,
			Description: "Reward suite and deluxe rooms for VIP guests.",
		},
		vipRoomType,
	},
	{
		Template{
			Code: CodeLoyaltyBonus, Name: "Loyal guest bonus", Kind: KindSoft,
			Category: CategoryPriority, DefaultWeight: 5,
			Description: "Reward guests with more than min_stays previous stays.",
			Params: []ParamSpec{
				{Name: "min_stays", Type: ParamInt, Description: "Stays required before the bonus applies", Default: 5, Min: floatPtr(0), Max: floatPtr(100)},
			},
		},
		loyaltyBonus,
	},
	{
		Template{
			Code: CodeBudgetExceeded, Name: "Budget exceeded", Kind: KindSoft,
			Category: CategoryBudget, DefaultWeight: 25,
			Description: "Penalize rooms priced above the guest's budget.",
		},
		budgetExceeded,
	},
	{
		Template{
			Code: CodeQuietLocation, Name: "Quiet location", Kind: KindSoft,
			Category: CategoryPreference, DefaultWeight: 10,
			Description: "Penalize noisy low floors for guests wanting quiet.",
			Params: []ParamSpec{
				{Name: "max_noisy_floor", Type: ParamInt, Description: "Highest floor considered noisy", Default: 2, Min: floatPtr(0), Max: floatPtr(200)},
			},
		},
		quietLocation,
	},
}

func roomTypeMatch(e *Entity, _ []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil || e.Booking == nil {
		return Abstain, ""
	}
	if e.Room.Type != e.Booking.RequestedRoomType {
		return Violated, fmt.Sprintf("Room %s is %s, %s requested", e.Room.Number, e.Room.Type, e.Booking.RequestedRoomType)
	}
	return Satisfied, fmt.Sprintf("Requested %s room", e.Room.Type)
}

func noDoubleBooking(e *Entity, all []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil {
		return Abstain, ""
	}
	// Only later occupants are charged so each clash counts once.
	for _, other := range all {
		if other == e {
			break
		}
		if other.Room != nil && other.Room.ID == e.Room.ID {
			return Violated, fmt.Sprintf("Room %s already assigned", e.Room.Number)
		}
	}
	return Satisfied, fmt.Sprintf("Room %s held by this booking only", e.Room.Number)
}

func accessibilityRequired(e *Entity, _ []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil || !e.Guest.Preferences.RequiresAccessible() {
		return Abstain, ""
	}
	if !e.Room.Accessible {
		return Violated, scoring.ReasonAccessibleMissing
	}
	return Satisfied, scoring.ReasonAccessibleMatched
}

func smokingPolicy(e *Entity, _ []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil || e.Guest.Preferences.Smoking == nil {
		return Abstain, ""
	}
	smoker := *e.Guest.Preferences.Smoking
	switch {
	case smoker && !e.Room.SmokingAllowed:
		return Violated, scoring.ReasonSmokingMismatch
	case !smoker && e.Room.SmokingAllowed:
		return Discouraged, scoring.ReasonSmokingMismatch
	}
	return Satisfied, scoring.ReasonSmokingMatched
}

func viewPreference(e *Entity, _ []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil {
		return Abstain, ""
	}
	if v := e.Guest.Preferences.View; v != nil && *v == e.Room.View {
		return Satisfied, fmt.Sprintf("Preferred %s view", e.Room.View)
	}
	return Abstain, ""
}

func floorPreference(e *Entity, _ []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil {
		return Abstain, ""
	}
	if b := e.Guest.Preferences.Floor; b != nil && scoring.MatchesFloorBand(e.Room.Floor, *b) {
		return Satisfied, fmt.Sprintf("Preferred %s floor", *b)
	}
	return Abstain, ""
}

func vipOceanView(e *Entity, _ []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil || !e.Guest.VIPStatus {
		return Abstain, ""
	}
	if e.Room.View == store.ViewOcean {
		return Satisfied, scoring.ReasonVIPOceanView
	}
	return Abstain, ""
}

func vipRoomType(e *Entity, _ []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil || !e.Guest.VIPStatus {
		return Abstain, ""
	}
	if e.Room.Type == store.RoomTypeSuite || e.Room.Type == store.RoomTypeDeluxe {
		return Satisfied, scoring.ReasonVIPRoomType
	}
	return Abstain, ""
}

func loyaltyBonus(e *Entity, _ []*Entity, _ []*store.Room, p Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil {
		return Abstain, ""
	}
	if e.Guest.PreviousStays > p.Int("min_stays", 5) {
		return Satisfied, scoring.ReasonLoyalGuest
	}
	return Abstain, ""
}

func budgetExceeded(e *Entity, _ []*Entity, _ []*store.Room, _ Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil || e.Guest.BudgetMax == nil {
		return Abstain, ""
	}
	if e.Room.BasePrice > *e.Guest.BudgetMax {
		return Violated, scoring.ReasonOverBudget
	}
	return Abstain, ""
}

func quietLocation(e *Entity, _ []*Entity, _ []*store.Room, p Params) (Outcome, string) {
	if e.Room == nil || e.Guest == nil || !e.Guest.Preferences.WantsQuiet() {
		return Abstain, ""
	}
	if e.Room.Floor <= p.Int("max_noisy_floor", 2) {
		return Violated, scoring.ReasonNoisyFloor
	}
	return Abstain, ""
}
