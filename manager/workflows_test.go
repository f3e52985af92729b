package manager

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seeksphere/seeksphere-go/filter"
	"github.com/seeksphere/seeksphere-go/seeksphere"
)

func TestBatchUpdateTokens(t *testing.T) {
	api := &mockAPI{
		updateTokens: func(req seeksphere.UpdateTokensRequest) (seeksphere.Response, error) {
			switch {
			case req.Tokens["broken"] != nil:
				return nil, &seeksphere.APIError{StatusCode: 400, Message: "API Error: bad tokens"}
			case req.Tokens["rejected"] != nil:
				return seeksphere.Response{"success": false}, nil
			default:
				return seeksphere.Response{"success": true}, nil
			}
		},
	}
	m := New(api, WithRetry(1, 0), WithConcurrency(2))

	results := m.BatchUpdateTokens(context.Background(), map[string]map[string][]string{
		"user_attributes":    {"user_types": {"premium", "trial"}},
		"product_categories": {"electronics": {"laptops"}},
		"broken_batch":       {"broken": {"x"}},
		"rejected_batch":     {"rejected": {"y"}},
	})

	assert.Equal(t, map[string]bool{
		"user_attributes":    true,
		"product_categories": true,
		"broken_batch":       false,
		"rejected_batch":     false,
	}, results)
	assert.Equal(t, 4, api.count("update_tokens"))
}

func TestBatchUpdateTokensEmpty(t *testing.T) {
	api := &mockAPI{}
	results := newTestManager(api).BatchUpdateTokens(context.Background(), nil)

	assert.Empty(t, results)
	assert.Equal(t, 0, api.count("update_tokens"))
}

func validSchema() map[string]any {
	return map[string]any{
		"search_schema": map[string]any{
			"version": "2.0",
			"tables": map[string]any{
				"users": map[string]any{
					"columns":     []any{"id", "email"},
					"types":       []any{"bigint", "varchar"},
					"primary_key": "id",
				},
				"orders": map[string]any{
					"columns": []string{"id", "user_id", "total"},
					"types":   []string{"bigint", "bigint", "decimal"},
				},
			},
		},
	}
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name      string
		payload   map[string]any
		expectErr []string
	}{
		{
			name:    "valid",
			payload: validSchema(),
		},
		{
			name:    "no tables",
			payload: map[string]any{"search_schema": map[string]any{"version": "1"}},
		},
		{
			name:    "yaml mapping",
			payload: map[string]any{"search_schema": map[any]any{"tables": map[any]any{}}},
		},
		{
			name:      "missing search_schema",
			payload:   map[string]any{},
			expectErr: []string{"must contain 'search_schema'"},
		},
		{
			name:      "search_schema not a mapping",
			payload:   map[string]any{"search_schema": []any{}},
			expectErr: []string{"search_schema must be a dictionary"},
		},
		{
			name:      "tables not a mapping",
			payload:   map[string]any{"search_schema": map[string]any{"tables": "users"}},
			expectErr: []string{"tables must be a dictionary"},
		},
		{
			name: "every table problem is reported",
			payload: map[string]any{"search_schema": map[string]any{"tables": map[string]any{
				"a": "nope",
				"b": map[string]any{"types": []any{}},
				"c": map[string]any{"columns": "id", "types": []any{"int"}},
				"d": map[string]any{"columns": []any{"id", "x"}, "types": []any{"int"}},
			}}},
			expectErr: []string{
				"table definition for 'a' must be a dictionary",
				"table 'b' missing required field: columns",
				"table 'c' columns and types must be lists",
				"table 'd' columns and types length mismatch",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchema(tt.payload)
			if len(tt.expectErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.expectErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestValidateSchemaAggregates(t *testing.T) {
	err := ValidateSchema(map[string]any{"search_schema": map[string]any{"tables": map[string]any{
		"a": 1,
		"b": 2,
	}}})

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
}

func TestValidateAndUpdateSchema(t *testing.T) {
	t.Run("valid schema is sent", func(t *testing.T) {
		var sent any
		api := &mockAPI{
			updateSchema: func(req seeksphere.UpdateSchemaRequest) (seeksphere.Response, error) {
				sent = req.SearchSchema
				return seeksphere.Response{"success": true}, nil
			},
		}

		payload := validSchema()
		resp, err := newTestManager(api).ValidateAndUpdateSchema(context.Background(), payload)
		require.NoError(t, err)
		assert.True(t, resp.Success())
		assert.Equal(t, payload["search_schema"], sent)
	})

	t.Run("invalid schema is not sent", func(t *testing.T) {
		api := &mockAPI{}

		_, err := newTestManager(api).ValidateAndUpdateSchema(context.Background(), map[string]any{"search_schema": "flat"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "invalid schema"))
		assert.Equal(t, 0, api.count("update_schema"))
	})
}

func TestSearchWithFallback(t *testing.T) {
	t.Run("preferred mode succeeds", func(t *testing.T) {
		api := &mockAPI{}

		resp, err := newTestManager(api).SearchWithFallback(context.Background(), "top customers", seeksphere.SearchModeFull)
		require.NoError(t, err)
		assert.Equal(t, "full", resp.String("mode"))
		assert.Equal(t, []seeksphere.SearchMode{seeksphere.SearchModeFull}, api.modes)
	})

	t.Run("falls back to the other mode", func(t *testing.T) {
		api := &mockAPI{
			search: func(req seeksphere.SearchRequest, mode seeksphere.SearchMode) (seeksphere.Response, error) {
				if mode == seeksphere.SearchModeFull {
					return seeksphere.Response{"success": false}, nil
				}
				return seeksphere.Response{"success": true, "mode": string(mode)}, nil
			},
		}

		resp, err := newTestManager(api).SearchWithFallback(context.Background(), "q", seeksphere.SearchModeFull)
		require.NoError(t, err)
		assert.Equal(t, "sql_only", resp.String("mode"))
		assert.Equal(t, []seeksphere.SearchMode{seeksphere.SearchModeFull, seeksphere.SearchModeSQLOnly}, api.modes)
	})

	t.Run("all modes fail", func(t *testing.T) {
		api := &mockAPI{
			search: func(req seeksphere.SearchRequest, mode seeksphere.SearchMode) (seeksphere.Response, error) {
				return nil, &seeksphere.APIError{StatusCode: 400, Message: "API Error: unsupported"}
			},
		}

		_, err := newTestManager(api).SearchWithFallback(context.Background(), "q", seeksphere.SearchModeSQLOnly)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAllModesFailed)
		assert.Contains(t, err.Error(), "mode sql_only")
		assert.Contains(t, err.Error(), "mode full")
		assert.Equal(t, 2, api.count("search"))
	})

	t.Run("validation error stops at once", func(t *testing.T) {
		api := &mockAPI{}

		_, err := newTestManager(api).SearchWithFallback(context.Background(), "", seeksphere.SearchModeFull)
		assert.Equal(t, seeksphere.KindValidation, seeksphere.KindOf(err))
		assert.Equal(t, 1, api.count("search"))
	})
}

func TestMonitorHealth(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		api := &mockAPI{}

		var checks []CheckResult
		result, passed, err := newTestManager(api).MonitorHealth(context.Background(), MonitorOptions{
			Interval: time.Millisecond,
			Checks:   3,
			OnCheck:  func(c CheckResult) { checks = append(checks, c) },
		})
		require.NoError(t, err)
		assert.True(t, passed)
		assert.Equal(t, MonitorResult{Healthy: 3, Total: 3}, result)
		assert.Len(t, checks, 3)
		assert.Equal(t, 3, checks[2].Number)
	})

	t.Run("below threshold", func(t *testing.T) {
		api := &mockAPI{
			health: func(call int) (seeksphere.Response, error) {
				if call%2 == 0 {
					return seeksphere.Response{"status": "degraded"}, nil
				}
				return seeksphere.Response{"status": "healthy"}, nil
			},
		}

		result, passed, err := newTestManager(api).MonitorHealth(context.Background(), MonitorOptions{
			Interval: time.Millisecond,
			Checks:   4,
		})
		require.NoError(t, err)
		assert.False(t, passed)
		assert.Equal(t, 2, result.Healthy)
		assert.InDelta(t, 0.5, result.Ratio(), 0.0001)
		assert.True(t, result.Passed(0.5))
	})

	t.Run("errors count as unhealthy", func(t *testing.T) {
		api := &mockAPI{
			health: func(int) (seeksphere.Response, error) {
				return nil, &seeksphere.APIError{StatusCode: 401, Message: "API Error: HTTP 401: Unauthorized"}
			},
		}

		var last CheckResult
		result, passed, err := newTestManager(api).MonitorHealth(context.Background(), MonitorOptions{
			Interval: time.Millisecond,
			Checks:   2,
			OnCheck:  func(c CheckResult) { last = c },
		})
		require.NoError(t, err)
		assert.False(t, passed)
		assert.Equal(t, 0, result.Healthy)
		assert.Equal(t, seeksphere.KindAPI, seeksphere.KindOf(last.Err))
	})

	t.Run("custom predicate", func(t *testing.T) {
		api := &mockAPI{
			health: func(int) (seeksphere.Response, error) {
				return seeksphere.Response{"status": "ok", "db": true}, nil
			},
		}

		_, passed, err := newTestManager(api).MonitorHealth(context.Background(), MonitorOptions{
			Interval: time.Millisecond,
			Checks:   2,
			Healthy:  filter.MustCompile(`status == "ok" and db`),
		})
		require.NoError(t, err)
		assert.True(t, passed)
	})

	t.Run("no wait after last check", func(t *testing.T) {
		start := time.Now()
		_, _, err := newTestManager(&mockAPI{}).MonitorHealth(context.Background(), MonitorOptions{
			Interval: time.Hour,
			Checks:   1,
		})
		require.NoError(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("cancel stops between checks", func(t *testing.T) {
		api := &mockAPI{}
		ctx, cancel := context.WithCancel(context.Background())

		result, _, err := newTestManager(api).MonitorHealth(ctx, MonitorOptions{
			Interval: time.Hour,
			Checks:   5,
			OnCheck:  func(CheckResult) { cancel() },
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, 1, api.count("health"))
	})
}

func TestMonitorResultRatio(t *testing.T) {
	assert.Equal(t, 0.0, MonitorResult{}.Ratio())
	assert.False(t, MonitorResult{}.Passed(0))
	assert.True(t, MonitorResult{Healthy: 4, Total: 5}.Passed(DefaultHealthyThreshold))
}
