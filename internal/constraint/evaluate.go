package constraint

import "github.com/MikeSquared-Agency/Concierge/internal/store"

// Evaluation is the total score of a solution plus every constraint that
// fired.
type Evaluation struct {
	Score   HardSoftScore `json:"score"`
	Matches []Match       `json:"matches"`
}

// HardViolations returns the matches that broke a HARD constraint.
func (ev Evaluation) HardViolations() []Match {
	var out []Match
	for _, m := range ev.Matches {
		if m.Score.Hard < 0 {
			out = append(out, m)
		}
	}
	return out
}

// Evaluate scores entities against the active constraints. A violated HARD
// constraint costs one hard point; a satisfied one earns its weight as soft
// score. SOFT constraints earn their weight when satisfied and cost it when
// violated. A discouraged outcome costs the weight for either kind.
func Evaluate(entities []*Entity, rooms []*store.Room, active []Active) Evaluation {
	var ev Evaluation
	for _, a := range active {
		for _, e := range entities {
			outcome, why := a.eval(e, entities, rooms, a.Params)
			var delta HardSoftScore
			switch {
			case outcome == Violated && a.Template.Kind == KindHard:
				delta.Hard = -1
			case outcome == Violated, outcome == Discouraged:
				delta.Soft = -a.Weight
			case outcome == Satisfied:
				delta.Soft = a.Weight
			default:
				continue
			}
			if delta == (HardSoftScore{}) {
				continue
			}
			bookingID := ""
			if e.Booking != nil {
				bookingID = e.Booking.ID
			}
			ev.Score = ev.Score.Add(delta)
			ev.Matches = append(ev.Matches, Match{
				Code:          a.Template.Code,
				Kind:          a.Template.Kind,
				BookingID:     bookingID,
				Score:         delta,
				Justification: why,
			})
		}
	}
	return ev
}
