package hermes

import "time"

// AllocationRequestEvent asks the service to run a batch allocation. Empty
// BookingIDs means every unassigned booking.
type AllocationRequestEvent struct {
	TenantID   string   `json:"tenant_id"`
	BookingIDs []string `json:"booking_ids,omitempty"`
	Method     string   `json:"method,omitempty"`
	Source     string   `json:"source,omitempty"`
}

type BookingAllocatedEvent struct {
	RunID     string   `json:"run_id"`
	TenantID  string   `json:"tenant_id"`
	BookingID string   `json:"booking_id"`
	GuestID   string   `json:"guest_id"`
	RoomID    string   `json:"room_id"`
	Score     float64  `json:"score"`
	Method    string   `json:"method"`
	Reasons   []string `json:"reasons"`
}

type BookingUnallocatedEvent struct {
	RunID     string   `json:"run_id"`
	TenantID  string   `json:"tenant_id"`
	BookingID string   `json:"booking_id"`
	GuestID   string   `json:"guest_id"`
	Method    string   `json:"method"`
	Reasons   []string `json:"reasons"`
}

type AllocationCompletedEvent struct {
	RunID      string    `json:"run_id"`
	TenantID   string    `json:"tenant_id"`
	Method     string    `json:"method"`
	Total      int       `json:"total"`
	Assigned   int       `json:"assigned"`
	Unassigned int       `json:"unassigned"`
	AvgScore   float64   `json:"avg_score"`
	HardScore  int       `json:"hard_score"`
	SoftScore  int       `json:"soft_score"`
	DurationMs float64   `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

type ConstraintsUpdatedEvent struct {
	TenantID     string `json:"tenant_id"`
	TemplateCode string `json:"template_code"`
	Enabled      bool   `json:"enabled"`
	Weight       *int   `json:"weight,omitempty"`
}
