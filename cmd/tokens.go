package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/seeksphere/seeksphere-go/manager"
	"github.com/seeksphere/seeksphere-go/seeksphere"
)

var tokensFile string

// tokensCmd groups the token commands
var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage the organization's search tokens",
}

var tokensGetCmd = &cobra.Command{
	Use:     "get",
	Short:   "Print the current token mapping",
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := mgr.Call(cmd.Context(), manager.OpGetTokens, manager.Args{})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

var tokensUpdateCmd = &cobra.Command{
	Use:   "update -f <file>",
	Short: "Replace the token mapping",
	Long: `Replace the token mapping with the contents of a YAML or JSON file.

The file holds either {"tokens": {category: [token, ...]}} or the bare
category mapping.`,
	PreRunE: initializeApp,
	RunE:    runTokensUpdate,
}

var tokensBatchCmd = &cobra.Command{
	Use:   "batch -f <file>",
	Short: "Send several token mappings as separate updates",
	Long: `Send each top-level entry of the file as its own token update.

The file maps a batch name to a category mapping. Every batch is attempted;
the command fails if any of them did not succeed.`,
	PreRunE: initializeApp,
	RunE:    runTokensBatch,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensGetCmd, tokensUpdateCmd, tokensBatchCmd)

	for _, c := range []*cobra.Command{tokensUpdateCmd, tokensBatchCmd} {
		c.Flags().StringVarP(&tokensFile, "file", "f", "", "YAML or JSON file, - for stdin")
		_ = c.MarkFlagRequired("file")
	}
}

func runTokensUpdate(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(tokensFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var req seeksphere.UpdateTokensRequest
	if _, ok := payload["tokens"]; ok {
		req, err = seeksphere.ParseUpdateTokensRequest(payload)
	} else {
		req.Tokens, err = seeksphere.ParseTokens(payload)
	}
	if err != nil {
		return err
	}

	resp, err := mgr.Call(cmd.Context(), manager.OpUpdateTokens, manager.Args{Tokens: req})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

func runTokensBatch(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(tokensFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	batches := make(map[string]map[string][]string, len(payload))
	for name, raw := range payload {
		tokens, err := seeksphere.ParseTokens(raw)
		if err != nil {
			return fmt.Errorf("batch %q: %w", name, err)
		}
		batches[name] = tokens
	}

	results := mgr.BatchUpdateTokens(cmd.Context(), batches)
	if err := printJSON(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	var failed []string
	for name, ok := range results {
		if !ok {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("%d of %d batches failed: %v", len(failed), len(results), failed)
	}
	return nil
}
