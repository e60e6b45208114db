package observability

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	loggerOnce   sync.Once
	globalLogger zerolog.Logger
)

// InitLogger initializes the global structured logger. Subsequent calls are
// no-ops.
func InitLogger(level string, pretty bool) {
	loggerOnce.Do(func() {
		logLevel, err := zerolog.ParseLevel(level)
		if err != nil || logLevel == zerolog.NoLevel {
			logLevel = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(logLevel)

		var out = zerolog.New(os.Stdout)
		if pretty {
			// Console output for development
			out = zerolog.New(zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: time.RFC3339,
			})
		}
		globalLogger = out.With().Timestamp().Logger()
		log.Logger = globalLogger
	})
}

// GetLogger returns the global logger, initializing it with defaults if
// InitLogger has not run yet.
func GetLogger() zerolog.Logger {
	InitLogger("info", false)
	return globalLogger
}

// WithRunID returns a logger carrying the correlation ID for one pipeline run.
func WithRunID(runID string) zerolog.Logger {
	if runID == "" {
		runID = NewRunID()
	}
	return GetLogger().With().Str("run_id", runID).Logger()
}

// NewRunID generates a correlation ID for a pipeline run.
func NewRunID() string {
	return uuid.New().String()
}
