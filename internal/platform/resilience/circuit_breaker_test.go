package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream down")

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1})
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	fail := func(context.Context) error { return errUpstream }
	ok := func(context.Context) error { return nil }
	ctx := context.Background()

	if err := b.Do(ctx, fail, nil); !errors.Is(err, errUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after one failure, got %v", got)
	}

	if err := b.Do(ctx, fail, nil); !errors.Is(err, errUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("expected open after threshold, got %v", got)
	}

	if err := b.Do(ctx, ok, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if got := b.State(); got != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %v", got)
	}
	if err := b.Do(ctx, ok, nil); err != nil {
		t.Fatalf("half-open trial call: %v", err)
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after success, got %v", got)
	}
}

func TestCircuitBreaker_IgnoresUncountedErrors(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1})
	rejected := errors.New("token rejected")

	for i := 0; i < 3; i++ {
		err := b.Do(context.Background(), func(context.Context) error { return rejected }, func(err error) bool {
			return !errors.Is(err, rejected)
		})
		if !errors.Is(err, rejected) {
			t.Fatalf("call %d: expected rejected, got %v", i, err)
		}
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed, got %v", got)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for i := 0; i < 3; i++ {
		if err := b.Do(context.Background(), func(context.Context) error { return errUpstream }, nil); !errors.Is(err, errUpstream) {
			t.Fatalf("call %d: expected upstream error, got %v", i, err)
		}
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed, got %v", got)
	}
}
