package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/schemas"
)

func newValidateCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate resume content JSON",
		Long: `Validate a resume content JSON file. Valid content is written back normalized, with
every list present and every item id assigned; invalid content is reported per field.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, input, output)
		},
	}

	cmd.Flags().StringVarP(&input, "in", "i", "", "Path to resume content JSON file (required)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Path to write normalized JSON (stdout when empty)")
	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	return cmd
}

func runValidate(cmd *cobra.Command, input, output string) error {
	printer := observability.NewPrinter(cmd.ErrOrStderr())

	content, err := resume.LoadContentFile(input)
	if err != nil {
		var shapeErr *schemas.ValidationError
		if errors.As(err, &shapeErr) {
			printer.PrintFieldErrors(shapeErr.Errors)
		}
		return err
	}
	printer.PrintContentSummary(content)

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		return writeAll(cmd.OutOrStdout(), data)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
