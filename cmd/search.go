package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seeksphere/seeksphere-go/filter"
	"github.com/seeksphere/seeksphere-go/manager"
	"github.com/seeksphere/seeksphere-go/seeksphere"
)

var (
	searchMode     string
	searchFallback bool
	searchExpect   string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a natural-language search",
	Long: `Run a search against the organization's data.

--mode selects sql_only (generate the query) or full (generate and execute).
With --fallback the other mode is tried when the first one does not succeed.
--expect takes an expression over the response fields; the command fails when
the response does not match it, e.g. --expect 'success and has("results")'.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE:    runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", string(seeksphere.DefaultSearchMode), "search mode (sql_only or full)")
	searchCmd.Flags().BoolVar(&searchFallback, "fallback", false, "retry in the other mode when the search does not succeed")
	searchCmd.Flags().StringVar(&searchExpect, "expect", "", "expression the response must match")
}

func runSearch(cmd *cobra.Command, args []string) error {
	mode, err := seeksphere.ParseSearchMode(searchMode)
	if err != nil {
		return err
	}

	var expect *filter.Filter
	if searchExpect != "" {
		if expect, err = filter.Compile(searchExpect); err != nil {
			return fmt.Errorf("invalid --expect: %w", err)
		}
	}

	logger.Info().Str("query", args[0]).Str("mode", string(mode)).Msg("Searching")

	var resp seeksphere.Response
	if searchFallback {
		resp, err = mgr.SearchWithFallback(cmd.Context(), args[0], mode)
	} else {
		resp, err = mgr.Call(cmd.Context(), manager.OpSearch, manager.Args{
			Search: seeksphere.SearchRequest{Query: args[0]},
			Mode:   mode,
		})
	}
	if err != nil {
		return err
	}

	if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}

	if expect != nil {
		matched, err := expect.Match(resp)
		if err != nil {
			return err
		}
		if !matched {
			return fmt.Errorf("response does not match %q", expect.Expression())
		}
	}

	return nil
}
