package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the translation gateway service
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Azure OpenAI configuration (translation)
	OpenAIEndpoint   string `envconfig:"AZURE_OPENAI_ENDPOINT" required:"true"`
	OpenAIAPIKey     string `envconfig:"AZURE_OPENAI_API_KEY" required:"true"`
	OpenAIDeployment string `envconfig:"AZURE_OPENAI_DEPLOYMENT_NAME" default:"gpt-4o"`
	OpenAIAPIVersion string `envconfig:"AZURE_OPENAI_API_VERSION" default:"2023-12-01-preview"`

	// Azure Content Safety configuration (moderation)
	ContentSafetyEndpoint   string `envconfig:"AZURE_CONTENT_SAFETY_ENDPOINT" required:"true"`
	ContentSafetyKey        string `envconfig:"AZURE_CONTENT_SAFETY_KEY" required:"true"`
	ContentSafetyAPIVersion string `envconfig:"AZURE_CONTENT_SAFETY_API_VERSION" default:"2023-10-01"`

	// Azure Speech configuration (synthesis and recognition)
	SpeechKey    string `envconfig:"AZURE_SPEECH_KEY" required:"true"`
	SpeechRegion string `envconfig:"AZURE_SPEECH_REGION" required:"true"`

	// Per-language voice overrides keyed by BCP-47 tag,
	// e.g. "es-ES:es-ES-ElviraNeural,fr-FR:fr-FR-DeniseNeural"
	SpeechVoiceOverrides map[string]string `envconfig:"AZURE_SPEECH_VOICE_OVERRIDES"`

	// Default language for speech recognition uploads
	RecognitionLanguage string `envconfig:"AZURE_RECOGNITION_LANGUAGE" default:"en-US"`

	// Per-call HTTP timeout for the external services, in seconds
	RequestTimeout int `envconfig:"REQUEST_TIMEOUT" default:"30"`

	// Maximum accepted request body for text input, in bytes
	MaxTextBytes int64 `envconfig:"MAX_TEXT_BYTES" default:"16384"`

	// Maximum accepted audio upload for recognition, in bytes
	MaxAudioBytes int64 `envconfig:"MAX_AUDIO_BYTES" default:"10485760"`

	// Resilience configuration
	CircuitBreakerMaxFailures  int `envconfig:"CIRCUIT_BREAKER_MAX_FAILURES" default:"5"`   // Failures before opening circuit
	CircuitBreakerResetTimeout int `envconfig:"CIRCUIT_BREAKER_RESET_TIMEOUT" default:"30"` // Seconds before attempting recovery
	RetryMaxAttempts           int `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`             // Maximum retry attempts per port call
	RetryInitialBackoff        int `envconfig:"RETRY_INITIAL_BACKOFF" default:"100"`        // Initial backoff in milliseconds

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables.
// It first attempts to load from .env file if it exists, then from environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.OpenAIEndpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("AZURE_OPENAI_API_KEY is required")
	}
	if c.ContentSafetyEndpoint == "" {
		return fmt.Errorf("AZURE_CONTENT_SAFETY_ENDPOINT is required")
	}
	if c.ContentSafetyKey == "" {
		return fmt.Errorf("AZURE_CONTENT_SAFETY_KEY is required")
	}
	if c.SpeechKey == "" {
		return fmt.Errorf("AZURE_SPEECH_KEY is required")
	}
	if c.SpeechRegion == "" {
		return fmt.Errorf("AZURE_SPEECH_REGION is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %d", c.RequestTimeout)
	}
	return nil
}
