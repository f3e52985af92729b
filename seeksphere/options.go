package seeksphere

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient  *http.Client
	logger      zerolog.Logger
	maxAttempts int
	retryWait   time.Duration
}

func defaultOptions() clientOptions {
	return clientOptions{
		logger:      zerolog.Nop(),
		maxAttempts: DefaultMaxAttempts,
		retryWait:   DefaultRetryWait,
	}
}

// WithHTTPClient replaces the default HTTP client.
// The configured timeout still bounds every attempt.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithLogger sets the logger used for debug events. The default discards them.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMaxAttempts sets the number of attempts made for retryable statuses.
func WithMaxAttempts(attempts int) Option {
	return func(o *clientOptions) {
		if attempts >= 1 {
			o.maxAttempts = attempts
		}
	}
}

// WithRetryWait sets the wait before the first retry. Later waits double.
func WithRetryWait(wait time.Duration) Option {
	return func(o *clientOptions) {
		if wait >= 0 {
			o.retryWait = wait
		}
	}
}
