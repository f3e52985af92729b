package seeksphere

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds each HTTP attempt when Config.Timeout is zero
	DefaultTimeout = 30 * time.Second
	// DefaultMaxAttempts is the number of attempts for retryable statuses
	DefaultMaxAttempts = 3
	// DefaultRetryWait is the wait before the first retry
	DefaultRetryWait = 1 * time.Second

	// UserID is the fixed caller identity sent as X-User-Id
	UserID = "node_sdk"
)

// Header names
const (
	HeaderContentType = "Content-Type"
	HeaderOrgID       = "X-Org-Id"
	HeaderUserID      = "X-User-Id"
	HeaderMode        = "X-Mode"
)

// Endpoint paths
const (
	pathHealth = "/health"
	pathSearch = "/search"
	pathTokens = "/org/tokens"
	pathSchema = "/org/search_schema"
)

// Client represents a SeekSphere API client
type Client struct {
	baseURL     string
	orgID       string
	timeout     time.Duration
	headers     http.Header
	httpClient  *http.Client
	maxAttempts int
	retryWait   time.Duration
	logger      zerolog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a new SeekSphere client. It fails immediately when the
// base URL or API key is missing.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	// Ensure baseURL doesn't have trailing slashes
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api_key is required", ErrInvalidConfig)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("%w: timeout must not be negative, got %v", ErrInvalidConfig, cfg.Timeout)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	headers := make(http.Header)
	headers.Set(HeaderContentType, "application/json")
	headers.Set(HeaderOrgID, cfg.APIKey)
	headers.Set(HeaderUserID, UserID)

	return &Client{
		baseURL:     baseURL,
		orgID:       cfg.APIKey,
		timeout:     timeout,
		headers:     headers,
		httpClient:  httpClient,
		maxAttempts: options.maxAttempts,
		retryWait:   options.retryWait,
		logger:      options.logger,
	}, nil
}

// BaseURL returns the normalised base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OrgID returns the organization id the client is bound to
func (c *Client) OrgID() string {
	return c.orgID
}

// Timeout returns the per-attempt timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// HealthCheck checks API health status
func (c *Client) HealthCheck(ctx context.Context) (Response, error) {
	return c.doRequest(ctx, http.MethodGet, pathHealth, nil, nil)
}

// Search runs a search. The mode defaults to sql_only when omitted; only the
// first mode given is used.
func (c *Client) Search(ctx context.Context, req SearchRequest, mode ...SearchMode) (Response, error) {
	m := DefaultSearchMode
	if len(mode) > 0 {
		m = mode[0]
	}

	if err := validateSearch(req, m); err != nil {
		return nil, err
	}

	return c.doRequest(ctx, http.MethodPost, pathSearch, req, map[string]string{
		HeaderMode: string(m),
	})
}

// UpdateTokens replaces the organization's token mapping
func (c *Client) UpdateTokens(ctx context.Context, req UpdateTokensRequest) (Response, error) {
	if err := validateTokens(req); err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodPut, pathTokens, req, nil)
}

// UpdateSchema replaces the organization's search schema
func (c *Client) UpdateSchema(ctx context.Context, req UpdateSchemaRequest) (Response, error) {
	if err := validateSchema(req); err != nil {
		return nil, err
	}
	return c.doRequest(ctx, http.MethodPut, pathSchema, req, nil)
}

// GetTokens retrieves the current token mapping
func (c *Client) GetTokens(ctx context.Context) (Response, error) {
	return c.doRequest(ctx, http.MethodGet, pathTokens, nil, nil)
}

// GetSchema retrieves the current search schema
func (c *Client) GetSchema(ctx context.Context) (Response, error) {
	return c.doRequest(ctx, http.MethodGet, pathSchema, nil, nil)
}
