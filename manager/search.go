package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// ErrAllModesFailed is returned when no search mode produced a successful body
var ErrAllModesFailed = errors.New("search failed with all modes")

// SearchWithFallback searches in the preferred mode and then in the other
// one. The first body reporting success wins. Validation errors are returned
// at once since the other mode cannot fix them.
func (m *Manager) SearchWithFallback(ctx context.Context, query string, preferred seeksphere.SearchMode) (seeksphere.Response, error) {
	var result *multierror.Error

	for _, mode := range []seeksphere.SearchMode{preferred, preferred.Other()} {
		m.logger.Info().Str("mode", string(mode)).Msg("Attempting search")

		resp, err := m.Call(ctx, OpSearch, Args{
			Search: seeksphere.SearchRequest{Query: query},
			Mode:   mode,
		})
		if seeksphere.KindOf(err) == seeksphere.KindValidation {
			return nil, err
		}
		if err == nil && resp.Success() {
			m.logger.Info().Str("mode", string(mode)).Msg("Search succeeded")
			return resp, nil
		}

		if err == nil {
			err = fmt.Errorf("mode %s: response did not report success", mode)
		} else {
			err = fmt.Errorf("mode %s: %w", mode, err)
		}
		result = multierror.Append(result, err)
		m.logger.Warn().Err(err).Str("mode", string(mode)).Msg("Search failed")
	}

	return nil, fmt.Errorf("%w: %w", ErrAllModesFailed, result.ErrorOrNil())
}
