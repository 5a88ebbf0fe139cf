package constraint

import (
	"github.com/MikeSquared-Agency/Concierge/internal/scoring"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

const (
	MethodConstraintBased = "constraint-based"

	// BaseScore is the starting score before soft constraints apply, matching
	// the rule-based strategy's base.
	BaseScore = 50
)

// Scorer adapts a tenant's active constraints to scoring.Strategy. A room
// violating any HARD constraint is reported infeasible with score 0.
type Scorer struct {
	active []Active
}

func NewScorer(active []Active) *Scorer {
	return &Scorer{active: active}
}

func (s *Scorer) Method() string { return MethodConstraintBased }

// Active returns the constraints the scorer evaluates.
func (s *Scorer) Active() []Active { return s.active }

func (s *Scorer) Score(room *store.Room, guest *store.Guest, booking *store.Booking) scoring.RoomScore {
	e := &Entity{Booking: booking, Guest: guest, Room: room}
	ev := Evaluate([]*Entity{e}, []*store.Room{room}, s.active)

	if !ev.Score.Feasible() {
		var reasons []string
		for _, m := range ev.HardViolations() {
			reasons = append(reasons, m.Justification)
		}
		return scoring.RoomScore{Score: 0, Reasons: reasons, Feasible: false}
	}

	var reasons []string
	factors := make([]scoring.FactorResult, 0, len(ev.Matches))
	for _, m := range ev.Matches {
		w := float64(m.Score.Soft)
		reasons = append(reasons, m.Justification)
		factors = append(factors, scoring.FactorResult{
			Name: m.Code, Score: 1, Weight: w, Weighted: w, Reason: m.Justification,
		})
	}
	if len(reasons) == 0 {
		reasons = append(reasons, scoring.ReasonStandardAllocation)
	}

	return scoring.RoomScore{
		Score:    scoring.ClampScore(float64(BaseScore + ev.Score.Soft)),
		Reasons:  reasons,
		Factors:  factors,
		Feasible: true,
	}
}
