// Package allocator assigns rooms to bookings using a pluggable scoring
// strategy. It is a pure engine: no I/O, no logging, no shared state.
package allocator

import (
	"github.com/MikeSquared-Agency/Concierge/internal/scoring"
	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

const (
	ReasonNoRoomsAvailable = "No rooms available of requested type"
	ReasonNoFeasibleRoom   = "No room satisfies the required constraints"
)

// AllocationResult is the outcome for one booking. A nil AssignedRoom means
// allocation failed; Score is then 0.
type AllocationResult struct {
	Booking      *store.Booking `json:"booking"`
	AssignedRoom *store.Room    `json:"assigned_room"`
	Score        float64        `json:"score"`
	Reasons      []string       `json:"reasons"`
	Method       string         `json:"method"`
}

// Assigned reports whether a room was allocated.
func (r AllocationResult) Assigned() bool { return r.AssignedRoom != nil }

// Allocator picks rooms for bookings with a single strategy.
type Allocator struct {
	strategy scoring.Strategy
}

func New(strategy scoring.Strategy) *Allocator {
	return &Allocator{strategy: strategy}
}

// Method returns the name of the underlying strategy.
func (a *Allocator) Method() string { return a.strategy.Method() }

// Candidates returns the rooms of the booking's requested type that are
// available, in input order.
func Candidates(booking *store.Booking, rooms []*store.Room) []*store.Room {
	var out []*store.Room
	for _, r := range rooms {
		if r.Type == booking.RequestedRoomType && r.Status == store.RoomAvailable {
			out = append(out, r)
		}
	}
	return out
}

// Allocate scores every candidate room and returns the best one. Ties keep
// the first candidate in input order.
func (a *Allocator) Allocate(booking *store.Booking, guest *store.Guest, rooms []*store.Room) AllocationResult {
	method := a.strategy.Method()
	candidates := Candidates(booking, rooms)
	if len(candidates) == 0 {
		return AllocationResult{
			Booking: booking,
			Reasons: []string{ReasonNoRoomsAvailable},
			Method:  method,
		}
	}

	var (
		best      *store.Room
		bestScore scoring.RoomScore
	)
	for _, room := range candidates {
		rs := a.strategy.Score(room, guest, booking)
		if !rs.Feasible {
			continue
		}
		if best == nil || rs.Score > bestScore.Score {
			best = room
			bestScore = rs
		}
	}

	if best == nil {
		return AllocationResult{
			Booking: booking,
			Reasons: []string{ReasonNoFeasibleRoom},
			Method:  method,
		}
	}

	return AllocationResult{
		Booking:      booking,
		AssignedRoom: best,
		Score:        scoring.ClampScore(bestScore.Score),
		Reasons:      bestScore.Reasons,
		Method:       method,
	}
}

// Explain scores every candidate for a booking without choosing one. The
// result order matches Candidates.
func (a *Allocator) Explain(booking *store.Booking, guest *store.Guest, rooms []*store.Room) []CandidateScore {
	candidates := Candidates(booking, rooms)
	out := make([]CandidateScore, 0, len(candidates))
	for _, room := range candidates {
		out = append(out, CandidateScore{Room: room, RoomScore: a.strategy.Score(room, guest, booking)})
	}
	return out
}

// CandidateScore pairs a candidate room with its full scoring breakdown.
type CandidateScore struct {
	Room *store.Room `json:"room"`
	scoring.RoomScore
}
