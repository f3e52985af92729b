package seeksphere

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrSeekSphere matches every error produced by an operation
	ErrSeekSphere = errors.New("seeksphere error")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid seeksphere configuration")
)

// ErrorKind identifies which of the three failure types an error is
type ErrorKind int

const (
	// KindNone means there was no error
	KindNone ErrorKind = iota
	// KindValidation is a rejected input
	KindValidation
	// KindAPI is an error response from the server
	KindAPI
	// KindNetwork is a transport failure
	KindNetwork
	// KindUnknown is an error not produced by this package
	KindUnknown
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindAPI:
		return "api"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// KindOf classifies err
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var validationErr *ValidationError
	var apiErr *APIError
	var networkErr *NetworkError

	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &networkErr):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// ValidationError reports input rejected before any request was sent
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrSeekSphere
func (e *ValidationError) Is(target error) bool {
	return target == ErrSeekSphere
}

// APIError represents a SeekSphere API error
type APIError struct {
	// StatusCode is zero when the error did not come from an HTTP status
	StatusCode int
	Message    string
	// Response holds the decoded error body, empty when it was not JSON
	Response map[string]any
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Is reports whether target is ErrSeekSphere
func (e *APIError) Is(target error) bool {
	return target == ErrSeekSphere
}

// HasStatus reports whether the error carries an HTTP status code
func (e *APIError) HasStatus() bool {
	return e.StatusCode != 0
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited checks if the server asked us to slow down
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError checks if the status is in the 5xx range
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode <= 599
}

// NetworkError reports a request that never got a usable response
type NetworkError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return e.Message
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSeekSphere
func (e *NetworkError) Is(target error) bool {
	return target == ErrSeekSphere
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
