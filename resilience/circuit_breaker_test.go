package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBreaker() *CircuitBreaker {
	return NewCircuitBreaker(&CircuitBreakerConfig{
		Name:             "test",
		ErrorThreshold:   0.5,
		VolumeThreshold:  2,
		SleepWindow:      20 * time.Millisecond,
		HalfOpenRequests: 1,
		SuccessThreshold: 0.5,
		WindowSize:       time.Second,
		BucketCount:      10,
	})
}

func TestCircuitBreakerStartsClosed(t *testing.T) {
	cb := newTestBreaker()
	if cb.State() != StateClosed {
		t.Fatalf("expected initial state closed, got %v", cb.State())
	}
}

func TestCircuitBreakerOpensAfterErrorThreshold(t *testing.T) {
	cb := newTestBreaker()
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_ = cb.Execute(context.Background(), func() error { return boom })
	}

	if cb.State() != StateOpen {
		t.Fatalf("expected breaker to open after threshold, got %v", cb.State())
	}

	err := cb.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen while open, got %v", err)
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := newTestBreaker()
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_ = cb.Execute(context.Background(), func() error { return boom })
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected breaker open, got %v", cb.State())
	}

	time.Sleep(30 * time.Millisecond)

	err := cb.Execute(context.Background(), func() error { return nil })
	if err != nil {
		t.Fatalf("expected half-open probe to succeed, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Fatalf("expected breaker to close after successful probe, got %v", cb.State())
	}
}

func TestCircuitBreakerStaysClosedUnderThreshold(t *testing.T) {
	cb := newTestBreaker()

	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), func() error { return nil })
	}

	if cb.State() != StateClosed {
		t.Fatalf("expected breaker to stay closed with only successes, got %v", cb.State())
	}
}
