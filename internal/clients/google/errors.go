package google

import (
	"errors"
	"fmt"
)

// Upstream failure causes, discriminated as tagged errors at the client
// edge so nothing downstream ever matches on Google status strings.
var (
	// ErrRouteNotFound means no route exists between the coordinates
	ErrRouteNotFound = errors.New("route not found")

	// ErrAddressNotFound means geocoding produced zero results
	ErrAddressNotFound = errors.New("address not found")

	// ErrQuotaExceeded means the API key is over its query limit
	ErrQuotaExceeded = errors.New("query quota exceeded")

	// ErrInvalidRequest means the upstream rejected the request shape
	ErrInvalidRequest = errors.New("invalid upstream request")
)

// TransportError wraps network-level and unclassified upstream failures
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream error %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transport error: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// statusError maps a Google API status string to a tagged error.
// "OK" and "ZERO_RESULTS" are not errors and must be handled by the
// caller before this is consulted.
func statusError(endpoint, status, message string) error {
	switch status {
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%s: %s: %w", endpoint, message, ErrQuotaExceeded)
	case "INVALID_REQUEST", "REQUEST_DENIED", "MAX_DIMENSIONS_EXCEEDED", "MAX_ELEMENTS_EXCEEDED":
		return fmt.Errorf("%s: %s: %w", endpoint, message, ErrInvalidRequest)
	case "NOT_FOUND":
		return fmt.Errorf("%s: %s: %w", endpoint, message, ErrRouteNotFound)
	default:
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("status %s: %s", status, message)}
	}
}
