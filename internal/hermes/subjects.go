package hermes

import "time"

const (
	SubjectAllocationRequest = "hotel.allocation.request"

	StreamName   = "CONCIERGE_EVENTS"
	StreamMaxAge = 30 * 24 * time.Hour

	QueueGroup = "concierge"
)

// StreamSubjects are persisted in the JetStream stream.
var StreamSubjects = []string{"hotel.allocation.>", "hotel.booking.>", "hotel.constraints.>"}

func SubjectAllocationCompleted(runID string) string { return "hotel.allocation." + runID + ".completed" }

func SubjectBookingAllocated(bookingID string) string { return "hotel.booking." + bookingID + ".allocated" }
func SubjectBookingUnallocated(bookingID string) string { return "hotel.booking." + bookingID + ".unallocated" }

func SubjectConstraintsUpdated(tenantID string) string { return "hotel.constraints." + tenantID + ".updated" }
