package manager

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// ValidateSchema checks the structure of an update_schema payload before it
// is sent. search_schema must be a mapping. When it has tables, each table
// must be a mapping with columns and types lists of equal length. Every
// problem found is reported.
func ValidateSchema(payload map[string]any) error {
	raw, ok := payload["search_schema"]
	if !ok {
		return fmt.Errorf("schema must contain 'search_schema' key")
	}

	schema, ok := asMap(raw)
	if !ok {
		return fmt.Errorf("search_schema must be a dictionary")
	}

	rawTables, ok := schema["tables"]
	if !ok {
		return nil
	}

	tables, ok := asMap(rawTables)
	if !ok {
		return fmt.Errorf("tables must be a dictionary")
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var result *multierror.Error
	for _, name := range names {
		if err := validateTable(name, tables[name]); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func validateTable(name string, raw any) error {
	def, ok := asMap(raw)
	if !ok {
		return fmt.Errorf("table definition for '%s' must be a dictionary", name)
	}

	var result *multierror.Error
	for _, field := range []string{"columns", "types"} {
		if _, ok := def[field]; !ok {
			result = multierror.Append(result, fmt.Errorf("table '%s' missing required field: %s", name, field))
		}
	}
	if result != nil {
		return result.ErrorOrNil()
	}

	columns, colOK := listLen(def["columns"])
	types, typesOK := listLen(def["types"])
	if !colOK || !typesOK {
		return fmt.Errorf("table '%s' columns and types must be lists", name)
	}
	if columns != types {
		return fmt.Errorf("table '%s' columns and types length mismatch (%d columns, %d types)", name, columns, types)
	}

	return nil
}

func listLen(v any) (int, bool) {
	switch l := v.(type) {
	case []any:
		return len(l), l != nil
	case []string:
		return len(l), l != nil
	default:
		return 0, false
	}
}

// asMap accepts both JSON and YAML decoded mappings
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// ValidateAndUpdateSchema validates payload and then sends it through Call
func (m *Manager) ValidateAndUpdateSchema(ctx context.Context, payload map[string]any) (seeksphere.Response, error) {
	if err := ValidateSchema(payload); err != nil {
		m.logger.Error().Err(err).Msg("Schema validation failed")
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	m.logger.Info().Msg("Schema validation passed")

	req, err := seeksphere.ParseUpdateSchemaRequest(payload)
	if err != nil {
		return nil, err
	}

	return m.Call(ctx, OpUpdateSchema, Args{Schema: req})
}
