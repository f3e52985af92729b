package seeksphere

import (
	"encoding/json"
	"fmt"
	"sort"
)

// The Parse functions accept data decoded from JSON or YAML, where any key or
// value may have an unexpected type, and return typed requests. They report
// the same ValidationError messages as the client methods.

// ParseSearchRequest builds a SearchRequest from a decoded payload
func ParseSearchRequest(raw map[string]any) (SearchRequest, error) {
	query, ok := raw["query"].(string)
	if !ok || query == "" {
		return SearchRequest{}, &ValidationError{Message: msgQueryRequired}
	}
	return SearchRequest{Query: query}, nil
}

// ParseSearchMode accepts only the exact strings "sql_only" and "full"
func ParseSearchMode(raw any) (SearchMode, error) {
	var mode SearchMode
	switch v := raw.(type) {
	case string:
		mode = SearchMode(v)
	case SearchMode:
		mode = v
	default:
		return "", &ValidationError{Message: msgInvalidMode}
	}
	if !mode.Valid() {
		return "", &ValidationError{Message: msgInvalidMode}
	}
	return mode, nil
}

// ParseUpdateTokensRequest builds an UpdateTokensRequest from a decoded payload
func ParseUpdateTokensRequest(raw map[string]any) (UpdateTokensRequest, error) {
	tokens, err := ParseTokens(raw["tokens"])
	if err != nil {
		return UpdateTokensRequest{}, err
	}
	return UpdateTokensRequest{Tokens: tokens}, nil
}

// ParseTokens converts a decoded category → token list mapping.
// Entries are checked in sorted key order, key first, then value, then items.
func ParseTokens(raw any) (map[string][]string, error) {
	switch v := raw.(type) {
	case map[string][]string:
		if v == nil {
			return nil, &ValidationError{Message: msgTokensNotMapping}
		}
		out := make(map[string][]string, len(v))
		for key, list := range v {
			out[key] = append([]string{}, list...)
		}
		return out, nil
	case map[string]any:
		if v == nil {
			return nil, &ValidationError{Message: msgTokensNotMapping}
		}
		entries := make(map[any]any, len(v))
		for key, value := range v {
			entries[key] = value
		}
		return parseTokenEntries(entries)
	case map[any]any:
		if v == nil {
			return nil, &ValidationError{Message: msgTokensNotMapping}
		}
		return parseTokenEntries(v)
	default:
		return nil, &ValidationError{Message: msgTokensNotMapping}
	}
}

func parseTokenEntries(entries map[any]any) (map[string][]string, error) {
	keys := make([]any, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})

	out := make(map[string][]string, len(entries))
	for _, key := range keys {
		name, ok := key.(string)
		if !ok {
			return nil, &ValidationError{Message: msgTokenKey}
		}
		list, err := parseTokenList(entries[key])
		if err != nil {
			return nil, err
		}
		out[name] = list
	}
	return out, nil
}

func parseTokenList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		if v == nil {
			return nil, &ValidationError{Message: msgTokenValue}
		}
		return append([]string{}, v...), nil
	case []any:
		if v == nil {
			return nil, &ValidationError{Message: msgTokenValue}
		}
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &ValidationError{Message: msgTokenItem}
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, &ValidationError{Message: msgTokenValue}
	}
}

// ParseUpdateSchemaRequest requires the search_schema key. An explicit null
// value is kept and sent as null.
func ParseUpdateSchemaRequest(raw map[string]any) (UpdateSchemaRequest, error) {
	schema, ok := raw["search_schema"]
	if !ok {
		return UpdateSchemaRequest{}, &ValidationError{Message: msgSchemaRequired}
	}
	if schema == nil {
		return UpdateSchemaRequest{SearchSchema: json.RawMessage("null")}, nil
	}
	return UpdateSchemaRequest{SearchSchema: schema}, nil
}
