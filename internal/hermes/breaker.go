package hermes

import (
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig controls the publish circuit breaker. After Failures
// consecutive publish errors the breaker opens and publishes fail fast for
// Timeout before a single trial publish is let through.
type BreakerConfig struct {
	Failures uint32
	Timeout  time.Duration
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{Failures: 5, Timeout: 30 * time.Second}
}

func newPublishBreaker(cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "hermes-publish",
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
