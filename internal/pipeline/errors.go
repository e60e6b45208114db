package pipeline

import (
	"errors"
	"fmt"
)

// PortErrorKind classifies a failure reported by an external service port.
type PortErrorKind string

const (
	PortTimeout      PortErrorKind = "timeout"
	PortRateLimited  PortErrorKind = "rate_limited"
	PortInvalidInput PortErrorKind = "invalid_input"
	PortUnavailable  PortErrorKind = "unavailable"
	PortUnknown      PortErrorKind = "unknown"
)

// PortError is the uniform error a port adapter returns to the orchestrator.
type PortError struct {
	Kind    PortErrorKind
	Message string
	Err     error // underlying cause, may be nil
}

func (e *PortError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *PortError) Unwrap() error {
	return e.Err
}

// NewPortError creates a PortError wrapping an underlying cause.
func NewPortError(kind PortErrorKind, message string, err error) *PortError {
	return &PortError{Kind: kind, Message: message, Err: err}
}

// AsPortError extracts a PortError from an error chain. Errors that are not
// PortErrors are normalized to kind unknown so the orchestrator can treat
// every port failure uniformly.
func AsPortError(err error) *PortError {
	var pe *PortError
	if errors.As(err, &pe) {
		return pe
	}
	return &PortError{Kind: PortUnknown, Message: err.Error(), Err: err}
}

// ErrorKind identifies which stage of the pipeline failed.
type ErrorKind string

const (
	ErrModeration  ErrorKind = "moderation_error"
	ErrTranslation ErrorKind = "translation_error"
	ErrSynthesis   ErrorKind = "synthesis_error"
)

// StageError is the terminal error carried by a Failed pipeline state.
type StageError struct {
	Kind    ErrorKind
	Message string
	Port    *PortError
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *StageError) Unwrap() error {
	if e.Port == nil {
		return nil
	}
	return e.Port
}

// ValidationError rejects caller input before any port is invoked and before
// a pipeline state exists. It is the only error Run returns directly.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
