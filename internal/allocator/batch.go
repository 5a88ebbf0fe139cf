package allocator

import (
	"sort"

	"github.com/MikeSquared-Agency/Concierge/internal/store"
)

// PrioritizeBookings orders bookings VIP guests first, then by previous stays
// descending. The sort is stable, so equal-priority bookings keep their
// input order. Bookings whose guest is unknown are dropped.
func PrioritizeBookings(bookings []*store.Booking, guests map[string]*store.Guest) []*store.Booking {
	out := make([]*store.Booking, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := guests[b.GuestID]; ok {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := guests[out[i].GuestID], guests[out[j].GuestID]
		if gi.VIPStatus != gj.VIPStatus {
			return gi.VIPStatus
		}
		return gi.PreviousStays > gj.PreviousStays
	})
	return out
}

// AllocateBatch allocates bookings in priority order, greedily and without
// backtracking. A room assigned to one booking is withdrawn from every later
// booking in the same run. Results are returned in processing order;
// bookings with an unknown guest produce no result.
func (a *Allocator) AllocateBatch(bookings []*store.Booking, guests map[string]*store.Guest, rooms []*store.Room) []AllocationResult {
	ordered := PrioritizeBookings(bookings, guests)
	assigned := make(map[string]bool)
	results := make([]AllocationResult, 0, len(ordered))

	for _, b := range ordered {
		remaining := make([]*store.Room, 0, len(rooms))
		for _, r := range rooms {
			if !assigned[r.ID] {
				remaining = append(remaining, r)
			}
		}
		res := a.Allocate(b, guests[b.GuestID], remaining)
		if res.AssignedRoom != nil {
			assigned[res.AssignedRoom.ID] = true
		}
		results = append(results, res)
	}
	return results
}

// BatchSummary aggregates a batch outcome.
type BatchSummary struct {
	Total      int     `json:"total"`
	Assigned   int     `json:"assigned"`
	Unassigned int     `json:"unassigned"`
	AvgScore   float64 `json:"avg_score"`
}

// Summarize counts assignments. AvgScore is taken over assigned results only.
func Summarize(results []AllocationResult) BatchSummary {
	s := BatchSummary{Total: len(results)}
	var total float64
	for _, r := range results {
		if r.Assigned() {
			s.Assigned++
			total += r.Score
		} else {
			s.Unassigned++
		}
	}
	if s.Assigned > 0 {
		s.AvgScore = total / float64(s.Assigned)
	}
	return s
}
