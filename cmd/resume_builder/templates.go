package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/rendering"
)

func newTemplatesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the available resume templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := rendering.ListTemplates()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(catalog)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(catalog)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}
