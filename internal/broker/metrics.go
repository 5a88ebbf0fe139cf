package broker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Concierge/internal/allocator"
)

const (
	OutcomeAssigned   = "assigned"
	OutcomeUnassigned = "unassigned"
)

var (
	// AllocationsTotal counts single-booking outcomes by strategy.
	AllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_allocations_total",
			Help: "Total number of booking allocations by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	// AllocationScore tracks the score of assigned rooms.
	AllocationScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concierge_allocation_score",
			Help:    "Score of assigned rooms",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"method"},
	)

	// BatchDuration tracks wall time of batch runs. Runs are in-memory, so
	// buckets start at 100µs.
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concierge_batch_duration_seconds",
			Help:    "Duration of batch allocation runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"method"},
	)

	// HardViolationsTotal counts HARD constraint violations found when
	// evaluating batch outcomes.
	HardViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_constraint_hard_violations_total",
			Help: "Total number of hard constraint violations in batch outcomes",
		},
		[]string{"tenant"},
	)
)

// RecordAllocation records one allocation result.
func RecordAllocation(res allocator.AllocationResult) {
	if res.Assigned() {
		AllocationsTotal.WithLabelValues(res.Method, OutcomeAssigned).Inc()
		AllocationScore.WithLabelValues(res.Method).Observe(res.Score)
		return
	}
	AllocationsTotal.WithLabelValues(res.Method, OutcomeUnassigned).Inc()
}

func RecordBatch(method string, d time.Duration) {
	BatchDuration.WithLabelValues(method).Observe(d.Seconds())
}

func RecordHardViolations(tenant string, n int) {
	if n > 0 {
		HardViolationsTotal.WithLabelValues(tenant).Add(float64(n))
	}
}
