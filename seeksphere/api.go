package seeksphere

import (
	"context"
)

// API defines the interface for SeekSphere operations
type API interface {
	// HealthCheck reports the service status
	HealthCheck(ctx context.Context) (Response, error)

	// Search runs a query in the given mode (sql_only by default)
	Search(ctx context.Context, req SearchRequest, mode ...SearchMode) (Response, error)

	// UpdateTokens replaces the token mapping
	UpdateTokens(ctx context.Context, req UpdateTokensRequest) (Response, error)

	// UpdateSchema replaces the search schema
	UpdateSchema(ctx context.Context, req UpdateSchemaRequest) (Response, error)

	// GetTokens retrieves the token mapping
	GetTokens(ctx context.Context) (Response, error)

	// GetSchema retrieves the search schema
	GetSchema(ctx context.Context) (Response, error)
}
