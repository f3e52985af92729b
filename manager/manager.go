// Package manager layers caller-level retries, batch updates, schema
// pre-validation, mode fallback and health monitoring over a SeekSphere client.
package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/seeksphere/seeksphere-go/seeksphere"
)

const (
	// DefaultRetryAttempts is the number of times Call tries an operation
	DefaultRetryAttempts = 3
	// DefaultRetryDelay is the wait after the first failed attempt; it doubles after each one
	DefaultRetryDelay = 1 * time.Second
	// DefaultConcurrency bounds parallel batch updates
	DefaultConcurrency = 4
)

// ErrUnknownOperation is returned by Call for an operation not in the registry
var ErrUnknownOperation = errors.New("unknown operation")

// Operation names one of the client's API operations
type Operation string

const (
	OpHealthCheck  Operation = "health_check"
	OpSearch       Operation = "search"
	OpUpdateTokens Operation = "update_tokens"
	OpUpdateSchema Operation = "update_schema"
	OpGetTokens    Operation = "get_tokens"
	OpGetSchema    Operation = "get_schema"
)

// Args carries the inputs of an operation. Only the fields the operation
// uses are read.
type Args struct {
	Search seeksphere.SearchRequest
	// Mode is passed to Search when set
	Mode   seeksphere.SearchMode
	Tokens seeksphere.UpdateTokensRequest
	Schema seeksphere.UpdateSchemaRequest
}

type operationFunc func(ctx context.Context, api seeksphere.API, args Args) (seeksphere.Response, error)

var operations = map[Operation]operationFunc{
	OpHealthCheck: func(ctx context.Context, api seeksphere.API, _ Args) (seeksphere.Response, error) {
		return api.HealthCheck(ctx)
	},
	OpSearch: func(ctx context.Context, api seeksphere.API, args Args) (seeksphere.Response, error) {
		if args.Mode == "" {
			return api.Search(ctx, args.Search)
		}
		return api.Search(ctx, args.Search, args.Mode)
	},
	OpUpdateTokens: func(ctx context.Context, api seeksphere.API, args Args) (seeksphere.Response, error) {
		return api.UpdateTokens(ctx, args.Tokens)
	},
	OpUpdateSchema: func(ctx context.Context, api seeksphere.API, args Args) (seeksphere.Response, error) {
		return api.UpdateSchema(ctx, args.Schema)
	},
	OpGetTokens: func(ctx context.Context, api seeksphere.API, _ Args) (seeksphere.Response, error) {
		return api.GetTokens(ctx)
	},
	OpGetSchema: func(ctx context.Context, api seeksphere.API, _ Args) (seeksphere.Response, error) {
		return api.GetSchema(ctx)
	},
}

// Operations returns the registered operation names
func Operations() []Operation {
	return []Operation{OpHealthCheck, OpSearch, OpUpdateTokens, OpUpdateSchema, OpGetTokens, OpGetSchema}
}

// Manager wraps an API with higher level workflows
type Manager struct {
	api         seeksphere.API
	logger      zerolog.Logger
	attempts    int
	delay       time.Duration
	concurrency int
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRetry sets the attempt count and initial delay used by Call
func WithRetry(attempts int, delay time.Duration) Option {
	return func(m *Manager) {
		if attempts >= 1 {
			m.attempts = attempts
		}
		if delay >= 0 {
			m.delay = delay
		}
	}
}

// WithConcurrency bounds the number of parallel batch updates
func WithConcurrency(n int) Option {
	return func(m *Manager) {
		if n >= 1 {
			m.concurrency = n
		}
	}
}

// New creates a Manager around api
func New(api seeksphere.API, opts ...Option) *Manager {
	m := &Manager{
		api:         api,
		logger:      zerolog.Nop(),
		attempts:    DefaultRetryAttempts,
		delay:       DefaultRetryDelay,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Call runs op, retrying rate limits, server errors and network errors with
// a doubling delay. Validation errors and other API errors fail immediately.
// After the last attempt the last error is returned.
func (m *Manager) Call(ctx context.Context, op Operation, args Args) (seeksphere.Response, error) {
	fn, ok := operations[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = m.delay
	exp.RandomizationFactor = 0
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	exp.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(m.attempts-1)), ctx)

	attempt := 0
	operation := func() (seeksphere.Response, error) {
		attempt++
		resp, err := fn(ctx, m.api, args)
		if err != nil && !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}

	notify := func(err error, wait time.Duration) {
		m.logger.Warn().
			Err(err).
			Str("operation", string(op)).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msgf("%s failed, retrying", seeksphere.KindOf(err))
	}

	resp, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("operation", string(op)).
			Int("attempts", attempt).
			Msg("Operation failed")
		return nil, err
	}

	m.logger.Info().
		Str("operation", string(op)).
		Int("attempt", attempt).
		Msg("Operation succeeded")

	return resp, nil
}

// Retryable reports whether Call retries err
func Retryable(err error) bool {
	switch seeksphere.KindOf(err) {
	case seeksphere.KindNetwork:
		return true
	case seeksphere.KindAPI:
		var apiErr *seeksphere.APIError
		errors.As(err, &apiErr)
		return apiErr.IsRateLimited() || apiErr.StatusCode >= 500
	default:
		return false
	}
}
