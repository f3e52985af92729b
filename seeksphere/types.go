package seeksphere

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// SearchMode selects how much work the search endpoint does
type SearchMode string

const (
	// SearchModeSQLOnly only generates the query
	SearchModeSQLOnly SearchMode = "sql_only"
	// SearchModeFull generates and executes the query
	SearchModeFull SearchMode = "full"
)

// DefaultSearchMode is used when Search is called without a mode
const DefaultSearchMode = SearchModeSQLOnly

// Valid reports whether m is one of the known modes
func (m SearchMode) Valid() bool {
	return m == SearchModeSQLOnly || m == SearchModeFull
}

// Other returns the alternative mode
func (m SearchMode) Other() SearchMode {
	if m == SearchModeFull {
		return SearchModeSQLOnly
	}
	return SearchModeFull
}

// Config holds the connection parameters of a Client
type Config struct {
	// BaseURL is the API root; trailing slashes are removed
	BaseURL string `mapstructure:"base_url"`
	// APIKey is the organization id, sent as X-Org-Id
	APIKey string `mapstructure:"api_key"`
	// Timeout bounds each HTTP attempt. Zero means DefaultTimeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchRequest is the payload of the search endpoint
type SearchRequest struct {
	Query string `json:"query"`
}

// UpdateTokensRequest is the payload of the token update endpoint
type UpdateTokensRequest struct {
	// Tokens maps a category to its token list. A nil map is rejected.
	Tokens map[string][]string `json:"tokens"`
}

// UpdateSchemaRequest is the payload of the schema update endpoint
type UpdateSchemaRequest struct {
	// SearchSchema is sent as-is. Nil means the field is missing;
	// use json.RawMessage("null") to send an explicit null.
	SearchSchema any `json:"search_schema"`
}

// Response is a decoded JSON response body
type Response map[string]any

// Success reports whether the body carries "success": true
func (r Response) Success() bool {
	v, _ := r["success"].(bool)
	return v
}

// String returns a top-level string field, or "" when absent or not a string
func (r Response) String(key string) string {
	v, _ := r[key].(string)
	return v
}

// OrgID returns the org_id field
func (r Response) OrgID() string {
	return r.String("org_id")
}

// Message returns the message field
func (r Response) Message() string {
	return r.String("message")
}

// ErrorMessage returns the error field
func (r Response) ErrorMessage() string {
	return r.String("error")
}

// Decode copies the body into one of the typed response structs
func (r Response) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: false,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(r)); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusResponse is the generic body of the update endpoints
type StatusResponse struct {
	Success bool   `mapstructure:"success"`
	Message string `mapstructure:"message"`
	Error   string `mapstructure:"error"`
	OrgID   string `mapstructure:"org_id"`
}

// SearchResponse is the body of the search endpoint
type SearchResponse struct {
	Success bool           `mapstructure:"success"`
	OrgID   string         `mapstructure:"org_id"`
	Mode    string         `mapstructure:"mode"`
	UserID  string         `mapstructure:"user_id"`
	Extra   map[string]any `mapstructure:",remain"`
}

// TokensResponse is the body of the get tokens endpoint
type TokensResponse struct {
	Tokens map[string][]string `mapstructure:"tokens"`
	OrgID  string              `mapstructure:"org_id"`
}

// SchemaResponse is the body of the get schema endpoint
type SchemaResponse struct {
	SearchSchema any    `mapstructure:"search_schema"`
	OrgID        string `mapstructure:"org_id"`
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status string         `mapstructure:"status"`
	Extra  map[string]any `mapstructure:",remain"`
}

// IsHealthy reports whether the service declared itself healthy
func (h *HealthResponse) IsHealthy() bool {
	return h.Status == "healthy"
}
