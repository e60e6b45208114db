package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linguaai/translation-gateway/internal/pipeline"
)

type flakyTranslation struct {
	calls    int
	failures int
	err      error
}

func (f *flakyTranslation) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "Guten Morgen", nil
}

func TestWrapTranslation_RetriesTransientFailure(t *testing.T) {
	port := &flakyTranslation{failures: 2, err: pipeline.NewPortError(pipeline.PortUnavailable, "down", nil)}
	wrapped := WrapTranslation(port, fastRetryConfig(3), nil)

	got, err := wrapped.Translate(context.Background(), "Good morning", "de-DE")
	if err != nil {
		t.Fatalf("Translate() failed: %v", err)
	}
	if got != "Guten Morgen" {
		t.Errorf("Expected 'Guten Morgen', got '%s'", got)
	}
	if port.calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", port.calls)
	}
}

func TestWrapTranslation_NoRetryOnInvalidInput(t *testing.T) {
	port := &flakyTranslation{failures: 10, err: pipeline.NewPortError(pipeline.PortInvalidInput, "bad", nil)}
	wrapped := WrapTranslation(port, fastRetryConfig(3), nil)

	_, err := wrapped.Translate(context.Background(), "Good morning", "de-DE")
	if err == nil {
		t.Fatal("Expected error")
	}
	if port.calls != 1 {
		t.Errorf("Expected 1 attempt for invalid input, got %d", port.calls)
	}
}

func TestWrapTranslation_BreakerOpensAcrossCalls(t *testing.T) {
	port := &flakyTranslation{failures: 100, err: pipeline.NewPortError(pipeline.PortUnavailable, "down", nil)}
	breaker := NewCircuitBreaker("translation-test", 3, time.Minute)
	wrapped := WrapTranslation(port, fastRetryConfig(3), breaker)

	// Three failing attempts inside one call open the breaker.
	if _, err := wrapped.Translate(context.Background(), "hello", "fr-FR"); err == nil {
		t.Fatal("Expected error")
	}
	if breaker.State() != StateOpen {
		t.Fatalf("Expected open breaker, got %v", breaker.State())
	}

	attemptsBefore := port.calls
	_, err := wrapped.Translate(context.Background(), "hello", "fr-FR")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if port.calls != attemptsBefore {
		t.Errorf("Port reached through an open breaker: %d -> %d calls", attemptsBefore, port.calls)
	}
}

type countingModeration struct {
	calls int
}

func (c *countingModeration) Evaluate(ctx context.Context, text string) (pipeline.ModerationResult, error) {
	c.calls++
	return pipeline.ModerationResult{Flagged: false}, nil
}

func TestWrapModeration_PassThrough(t *testing.T) {
	port := &countingModeration{}
	wrapped := WrapModeration(port, fastRetryConfig(3), NewCircuitBreaker("moderation-test", 3, time.Minute))

	result, err := wrapped.Evaluate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if result.Flagged {
		t.Error("Expected unflagged result")
	}
	if port.calls != 1 {
		t.Errorf("Expected 1 call, got %d", port.calls)
	}
}

type countingSpeech struct {
	calls int
}

func (c *countingSpeech) Synthesize(ctx context.Context, text, targetLanguage string) ([]byte, error) {
	c.calls++
	return []byte{0x01}, nil
}

func TestWrapSpeech_NilLayers(t *testing.T) {
	port := &countingSpeech{}
	wrapped := WrapSpeech(port, nil, nil)

	audio, err := wrapped.Synthesize(context.Background(), "hola", "es-ES")
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
	if len(audio) != 1 {
		t.Errorf("Expected 1 audio byte, got %d", len(audio))
	}
	if port.calls != 1 {
		t.Errorf("Expected 1 call, got %d", port.calls)
	}
}
