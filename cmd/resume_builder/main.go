// Package main provides the entry point for the resume builder API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "resume_builder",
		Short:         "Resume Builder HTTP API server and tools",
		Long:          "Resume Builder edits structured resumes, renders them in six templates and exports them to HTML, PDF and LaTeX.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to a YAML config file (environment variables override it)")

	root.AddCommand(
		newServeCmd(),
		newRenderCmd(),
		newValidateCmd(),
		newTemplatesCmd(),
		newMigrateCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
