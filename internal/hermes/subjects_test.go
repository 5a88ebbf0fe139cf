package hermes

import (
	"strings"
	"testing"
)

func covered(subject string) bool {
	for _, pattern := range StreamSubjects {
		prefix := strings.TrimSuffix(pattern, ">")
		if strings.HasPrefix(subject, prefix) {
			return true
		}
	}
	return false
}

func TestSubjects(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{SubjectAllocationCompleted("run-1"), "hotel.allocation.run-1.completed"},
		{SubjectBookingAllocated("b1"), "hotel.booking.b1.allocated"},
		{SubjectBookingUnallocated("b1"), "hotel.booking.b1.unallocated"},
		{SubjectConstraintsUpdated("seaside"), "hotel.constraints.seaside.updated"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, tt.got)
		}
		if !covered(tt.got) {
			t.Errorf("%s not retained by stream", tt.got)
		}
	}
}
