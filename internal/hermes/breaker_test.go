package hermes

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestPublishBreakerOpensAfterFailures(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := newPublishBreaker(BreakerConfig{Failures: 3, Timeout: time.Minute}, logger)

	calls := 0
	failing := func() (any, error) {
		calls++
		return nil, errors.New("nats: connection closed")
	}
	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(failing); err == nil {
			t.Fatalf("attempt %d: expected error", i+1)
		}
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cb.State())
	}

	_, err := cb.Execute(failing)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if calls != 3 {
		t.Errorf("open breaker should not call through, got %d calls", calls)
	}
}

func TestPublishBreakerStaysClosedOnSuccess(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := newPublishBreaker(DefaultBreakerConfig(), logger)

	for i := 0; i < 10; i++ {
		if _, err := cb.Execute(func() (any, error) { return nil, nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed breaker, got %s", cb.State())
	}
}
