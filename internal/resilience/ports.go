package resilience

import (
	"context"

	"github.com/linguaai/translation-gateway/internal/pipeline"
)

// Port decorators. Each wraps one pipeline port with retry around a circuit
// breaker: every attempt passes through the breaker, so repeated failures
// open it and subsequent attempts fail fast. Either of retry or breaker may
// be nil to skip that layer.

type moderationDecorator struct {
	port    pipeline.ModerationPort
	retry   *RetryConfig
	breaker *CircuitBreaker
}

// WrapModeration decorates a moderation port.
func WrapModeration(port pipeline.ModerationPort, retry *RetryConfig, breaker *CircuitBreaker) pipeline.ModerationPort {
	return &moderationDecorator{port: port, retry: retry, breaker: breaker}
}

func (d *moderationDecorator) Evaluate(ctx context.Context, text string) (pipeline.ModerationResult, error) {
	var result pipeline.ModerationResult
	err := Retry(ctx, func() error {
		return d.call(func() error {
			var err error
			result, err = d.port.Evaluate(ctx, text)
			return err
		})
	}, d.retry, IsRetryablePortError)
	return result, err
}

func (d *moderationDecorator) call(fn func() error) error {
	if d.breaker == nil {
		return fn()
	}
	return d.breaker.Call(fn)
}

type translationDecorator struct {
	port    pipeline.TranslationPort
	retry   *RetryConfig
	breaker *CircuitBreaker
}

// WrapTranslation decorates a translation port.
func WrapTranslation(port pipeline.TranslationPort, retry *RetryConfig, breaker *CircuitBreaker) pipeline.TranslationPort {
	return &translationDecorator{port: port, retry: retry, breaker: breaker}
}

func (d *translationDecorator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	var result string
	err := Retry(ctx, func() error {
		return d.call(func() error {
			var err error
			result, err = d.port.Translate(ctx, text, targetLanguage)
			return err
		})
	}, d.retry, IsRetryablePortError)
	return result, err
}

func (d *translationDecorator) call(fn func() error) error {
	if d.breaker == nil {
		return fn()
	}
	return d.breaker.Call(fn)
}

type speechDecorator struct {
	port    pipeline.SpeechPort
	retry   *RetryConfig
	breaker *CircuitBreaker
}

// WrapSpeech decorates a speech port.
func WrapSpeech(port pipeline.SpeechPort, retry *RetryConfig, breaker *CircuitBreaker) pipeline.SpeechPort {
	return &speechDecorator{port: port, retry: retry, breaker: breaker}
}

func (d *speechDecorator) Synthesize(ctx context.Context, text, targetLanguage string) ([]byte, error) {
	var result []byte
	err := Retry(ctx, func() error {
		return d.call(func() error {
			var err error
			result, err = d.port.Synthesize(ctx, text, targetLanguage)
			return err
		})
	}, d.retry, IsRetryablePortError)
	return result, err
}

func (d *speechDecorator) call(fn func() error) error {
	if d.breaker == nil {
		return fn()
	}
	return d.breaker.Call(fn)
}
