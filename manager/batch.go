package manager

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// BatchUpdateTokens sends each named token batch as its own update. A batch
// succeeds when the call returns without error and the body reports success.
// Failures are logged and never stop the remaining batches.
func (m *Manager) BatchUpdateTokens(ctx context.Context, batches map[string]map[string][]string) map[string]bool {
	results := make(map[string]bool, len(batches))
	if len(batches) == 0 {
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	var mu sync.Mutex

	for name, tokens := range batches {
		g.Go(func() error {
			m.logger.Info().Str("batch", name).Int("categories", len(tokens)).Msg("Updating token batch")

			resp, err := m.Call(ctx, OpUpdateTokens, Args{
				Tokens: seeksphere.UpdateTokensRequest{Tokens: tokens},
			})
			ok := err == nil && resp.Success()

			if ok {
				m.logger.Info().Str("batch", name).Msg("Token batch updated")
			} else {
				m.logger.Error().Err(err).Str("batch", name).Msg("Token batch failed to update")
			}

			mu.Lock()
			results[name] = ok
			mu.Unlock()

			// Don't stop on individual failures
			return nil
		})
	}

	_ = g.Wait()

	return results
}
