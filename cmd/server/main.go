package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linguaai/translation-gateway/internal/config"
	"github.com/linguaai/translation-gateway/internal/moderation"
	"github.com/linguaai/translation-gateway/internal/observability"
	"github.com/linguaai/translation-gateway/internal/pipeline"
	"github.com/linguaai/translation-gateway/internal/recognition"
	"github.com/linguaai/translation-gateway/internal/resilience"
	"github.com/linguaai/translation-gateway/internal/server"
	"github.com/linguaai/translation-gateway/internal/speech"
	"github.com/linguaai/translation-gateway/internal/translation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("openai_deployment", cfg.OpenAIDeployment).
		Str("speech_region", cfg.SpeechRegion).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Translation Gateway Service starting")

	// Build the port adapters and wrap each with retry + circuit breaker,
	// keeping the orchestrator itself free of recovery policy.
	retryCfg := &resilience.RetryConfig{
		MaxAttempts:       cfg.RetryMaxAttempts,
		InitialBackoff:    time.Duration(cfg.RetryInitialBackoff) * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
	breakerTimeout := time.Duration(cfg.CircuitBreakerResetTimeout) * time.Second

	moderationPort := resilience.WrapModeration(
		moderation.NewAzureClient(cfg),
		retryCfg,
		resilience.NewCircuitBreaker("moderation", cfg.CircuitBreakerMaxFailures, breakerTimeout),
	)
	translationPort := resilience.WrapTranslation(
		translation.NewOpenAIClient(cfg),
		retryCfg,
		resilience.NewCircuitBreaker("translation", cfg.CircuitBreakerMaxFailures, breakerTimeout),
	)
	speechPort := resilience.WrapSpeech(
		speech.NewAzureClient(cfg),
		retryCfg,
		resilience.NewCircuitBreaker("synthesis", cfg.CircuitBreakerMaxFailures, breakerTimeout),
	)

	orchestrator := pipeline.New(moderationPort, translationPort, speechPort)
	recognizer := recognition.NewAzureClient(cfg)

	// Create HTTP server
	mux := http.NewServeMux()

	api := server.New(server.Options{
		Orchestrator:  orchestrator,
		Recognizer:    recognizer,
		MaxTextBytes:  cfg.MaxTextBytes,
		MaxAudioBytes: cfg.MaxAudioBytes,
	})
	api.Register(mux)

	// Health check endpoint
	mux.HandleFunc("/health", observability.HealthCheckHandler())

	// Readiness probes validate configuration without spending API calls.
	mux.HandleFunc("/ready", observability.ReadinessHandler(map[string]observability.HealthCheckFunc{
		"content_safety": func(ctx context.Context) (bool, error) {
			if moderation.NewAzureClient(cfg) == nil {
				return false, fmt.Errorf("failed to create content safety client")
			}
			return true, nil
		},
		"openai": func(ctx context.Context) (bool, error) {
			if translation.NewOpenAIClient(cfg) == nil {
				return false, fmt.Errorf("failed to create openai client")
			}
			return true, nil
		},
		"speech": func(ctx context.Context) (bool, error) {
			if speech.NewAzureClient(cfg) == nil {
				return false, fmt.Errorf("failed to create speech client")
			}
			return true, nil
		},
	}))

	// Metrics endpoint (Prometheus)
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // pipeline runs wait on three provider calls
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("http://localhost:%s/v1/pipeline", cfg.Port)).
			Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
