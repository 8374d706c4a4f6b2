package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_DisabledIsNil(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(BreakerConfig{})
	if b != nil {
		t.Fatalf("disabled config must build a nil breaker")
	}
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("nil breaker must admit calls: %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("nil breaker reports %s", state)
	}
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1})

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	var transitions []CircuitState
	b.OnStateChange(func(_, to CircuitState) { transitions = append(transitions, to) })

	upstream := errors.New("upstream 500")
	for i := 0; i < 2; i++ {
		if err := b.Execute(func() error { return upstream }, nil); !errors.Is(err, upstream) {
			t.Fatalf("expected upstream error, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Execute(func() error { return nil }, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("unexpected transitions: got=%v want=%v", transitions, want)
		}
	}
}

func TestCircuitBreaker_IgnoresUncountableErrors(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(BreakerConfig{Enabled: true, FailureThreshold: 1})
	caller := errors.New("bad argument")

	err := b.Execute(func() error { return caller }, func(err error) bool { return !errors.Is(err, caller) })
	if !errors.Is(err, caller) {
		t.Fatalf("expected caller error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("caller errors must not open the breaker, got %s", state)
	}
}
