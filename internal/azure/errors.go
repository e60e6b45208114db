// Package azure holds helpers shared by the Azure REST adapters.
package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/linguaai/translation-gateway/internal/pipeline"
)

// TransportError classifies a round-trip failure into a port error kind.
func TransportError(message string, err error) *pipeline.PortError {
	kind := pipeline.PortUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		kind = pipeline.PortTimeout
	}
	return pipeline.NewPortError(kind, message, err)
}

// StatusError classifies a non-2xx response into a port error kind, carrying
// a truncated body excerpt for diagnostics. The response body is consumed.
func StatusError(service string, resp *http.Response) *pipeline.PortError {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 256))

	var kind pipeline.PortErrorKind
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		kind = pipeline.PortInvalidInput
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = pipeline.PortRateLimited
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		kind = pipeline.PortTimeout
	case resp.StatusCode >= 500:
		kind = pipeline.PortUnavailable
	default:
		kind = pipeline.PortUnknown
	}

	message := fmt.Sprintf("%s returned status %d", service, resp.StatusCode)
	if len(excerpt) > 0 {
		message = fmt.Sprintf("%s: %s", message, strings.TrimSpace(string(excerpt)))
	}
	return pipeline.NewPortError(kind, message, nil)
}
