package cmd

import (
	"github.com/spf13/cobra"

	"github.com/seeksphere/seeksphere-go/manager"
	"github.com/seeksphere/seeksphere-go/seeksphere"
)

var (
	schemaFile   string
	schemaStrict bool
)

// schemaCmd groups the schema commands
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the organization's search schema",
}

var schemaGetCmd = &cobra.Command{
	Use:     "get",
	Short:   "Print the current search schema",
	PreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := mgr.Call(cmd.Context(), manager.OpGetSchema, manager.Args{})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

var schemaUpdateCmd = &cobra.Command{
	Use:   "update -f <file>",
	Short: "Replace the search schema",
	Long: `Replace the search schema with the contents of a YAML or JSON file.

The file holds either {"search_schema": ...} or the bare schema. With
--strict the tables section is checked locally first: every table needs
columns and types lists of the same length.`,
	PreRunE: initializeApp,
	RunE:    runSchemaUpdate,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaGetCmd, schemaUpdateCmd)

	schemaUpdateCmd.Flags().StringVarP(&schemaFile, "file", "f", "", "YAML or JSON file, - for stdin")
	schemaUpdateCmd.Flags().BoolVar(&schemaStrict, "strict", false, "validate the table definitions before sending")
	_ = schemaUpdateCmd.MarkFlagRequired("file")
}

func runSchemaUpdate(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(schemaFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if _, ok := payload["search_schema"]; !ok {
		payload = map[string]any{"search_schema": payload}
	}

	var resp seeksphere.Response
	if schemaStrict {
		resp, err = mgr.ValidateAndUpdateSchema(cmd.Context(), payload)
	} else {
		var req seeksphere.UpdateSchemaRequest
		if req, err = seeksphere.ParseUpdateSchemaRequest(payload); err == nil {
			resp, err = mgr.Call(cmd.Context(), manager.OpUpdateSchema, manager.Args{Schema: req})
		}
	}
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}
