package manager

import (
	"context"
	"sync"

	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// mockAPI implements seeksphere.API for testing
type mockAPI struct {
	mu sync.Mutex

	health       func(call int) (seeksphere.Response, error)
	search       func(req seeksphere.SearchRequest, mode seeksphere.SearchMode) (seeksphere.Response, error)
	updateTokens func(req seeksphere.UpdateTokensRequest) (seeksphere.Response, error)
	updateSchema func(req seeksphere.UpdateSchemaRequest) (seeksphere.Response, error)

	// Track calls for verification
	calls map[string]int
	modes []seeksphere.SearchMode
}

var _ seeksphere.API = (*mockAPI)(nil)

func (m *mockAPI) record(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
	return m.calls[name]
}

func (m *mockAPI) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockAPI) HealthCheck(ctx context.Context) (seeksphere.Response, error) {
	call := m.record("health")
	if m.health == nil {
		return seeksphere.Response{"status": "healthy"}, nil
	}
	return m.health(call)
}

func (m *mockAPI) Search(ctx context.Context, req seeksphere.SearchRequest, mode ...seeksphere.SearchMode) (seeksphere.Response, error) {
	m.record("search")
	selected := seeksphere.DefaultSearchMode
	if len(mode) > 0 {
		selected = mode[0]
	}
	m.mu.Lock()
	m.modes = append(m.modes, selected)
	m.mu.Unlock()

	if req.Query == "" {
		return nil, &seeksphere.ValidationError{Message: "Query string is required"}
	}
	if m.search == nil {
		return seeksphere.Response{"success": true, "mode": string(selected)}, nil
	}
	return m.search(req, selected)
}

func (m *mockAPI) UpdateTokens(ctx context.Context, req seeksphere.UpdateTokensRequest) (seeksphere.Response, error) {
	m.record("update_tokens")
	if m.updateTokens == nil {
		return seeksphere.Response{"success": true}, nil
	}
	return m.updateTokens(req)
}

func (m *mockAPI) UpdateSchema(ctx context.Context, req seeksphere.UpdateSchemaRequest) (seeksphere.Response, error) {
	m.record("update_schema")
	if m.updateSchema == nil {
		return seeksphere.Response{"success": true}, nil
	}
	return m.updateSchema(req)
}

func (m *mockAPI) GetTokens(ctx context.Context) (seeksphere.Response, error) {
	m.record("get_tokens")
	return seeksphere.Response{"tokens": map[string]any{}}, nil
}

func (m *mockAPI) GetSchema(ctx context.Context) (seeksphere.Response, error) {
	m.record("get_schema")
	return seeksphere.Response{"search_schema": map[string]any{}}, nil
}
