package resilience

import (
	"errors"
	"testing"
	"time"
)

var errService = errors.New("service failure")

func failTimes(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		cb.Call(func() error { return errService })
	}
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	failTimes(cb, 2)
	if cb.State() != StateClosed {
		t.Errorf("Expected closed before max failures, got %v", cb.State())
	}

	failTimes(cb, 1)
	if cb.State() != StateOpen {
		t.Errorf("Expected open after max failures, got %v", cb.State())
	}
}

func TestCircuitBreaker_RejectsWhileOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Minute)
	failTimes(cb, 1)

	calls := 0
	err := cb.Call(func() error {
		calls++
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Function must not run while open, got %d calls", calls)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	failTimes(cb, 2)
	cb.Call(func() error { return nil })
	failTimes(cb, 2)

	if cb.State() != StateClosed {
		t.Errorf("Expected closed after interleaved success, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)
	failTimes(cb, 1)
	time.Sleep(20 * time.Millisecond)

	// Three successful probes close the circuit.
	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("Probe %d rejected: %v", i, err)
		}
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected closed after successful probes, got %v", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)
	failTimes(cb, 1)
	time.Sleep(20 * time.Millisecond)

	cb.Call(func() error { return errService })
	if cb.State() != StateOpen {
		t.Errorf("Expected reopened after failed probe, got %v", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Minute)
	failTimes(cb, 1)

	cb.Reset()
	if cb.State() != StateClosed {
		t.Errorf("Expected closed after reset, got %v", cb.State())
	}
	if err := cb.Call(func() error { return nil }); err != nil {
		t.Errorf("Call after reset failed: %v", err)
	}
}

func TestCircuitBreaker_Stats(t *testing.T) {
	cb := NewCircuitBreaker("test", 10, time.Minute)
	cb.Call(func() error { return nil })
	failTimes(cb, 3)

	state, requests, failures, rate := cb.Stats()
	if state != StateClosed {
		t.Errorf("Expected closed, got %v", state)
	}
	if requests != 4 {
		t.Errorf("Expected 4 requests, got %d", requests)
	}
	if failures != 3 {
		t.Errorf("Expected 3 failures, got %d", failures)
	}
	if rate != 75.0 {
		t.Errorf("Expected 75%% failure rate, got %f", rate)
	}
}
