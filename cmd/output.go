package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// readPayload reads a YAML or JSON mapping from path, or from stdin when path is "-"
func readPayload(path string, stdin io.Reader) (map[string]any, error) {
	if path == "" {
		return nil, fmt.Errorf("a payload file is required (use -f, or -f - for stdin)")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// YAML is a superset of JSON, so one decoder covers both
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%s does not contain a mapping", path)
	}

	return payload, nil
}
