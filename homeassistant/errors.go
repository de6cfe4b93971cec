package homeassistant

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrNotSupported is returned by operations this client does not implement.
	ErrNotSupported = errors.New("operation not supported by this client")
	// ErrEmptyEntityID is returned when a single-entity lookup is given no id.
	ErrEmptyEntityID = errors.New("entity id is empty")
)

// MissingCredentialError indicates that neither an explicit value nor the
// fallback provided a required credential. Field is the environment variable
// name that would have supplied it.
type MissingCredentialError struct {
	Field string
}

// Error implements the error interface
func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// HTTPError represents a non-2xx response from a status-checked endpoint.
// The body is intentionally not parsed.
type HTTPError struct {
	StatusCode int
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("home assistant API error: status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound checks if the error indicates a not found response
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// DecodeError indicates a 2xx response whose body did not match the
// expected shape.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TransportError wraps failures to build, send or read an HTTP exchange.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
