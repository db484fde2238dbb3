package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

type renderOptions struct {
	input       string
	displayFile string
	template    string
	format      string
	title       string
	output      string
	all         bool
	chromePath  string
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render resume content to HTML, PDF or LaTeX",
		Long: `Render a resume content JSON file with a display configuration. With --all every
template is rendered concurrently into the --out directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "Path to resume content JSON file (required)")
	cmd.Flags().StringVarP(&opts.displayFile, "display", "d", "", "Path to display configuration JSON file")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "Template name, overrides the display file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", export.FormatHTML, "Output format: html, pdf or latex")
	cmd.Flags().StringVar(&opts.title, "title", "", "Document title (defaults to the name on the resume)")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "Output file, or directory with --all (stdout when empty)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Render every template")
	cmd.Flags().StringVar(&opts.chromePath, "chrome-path", "", "Chrome executable for pdf output (overrides CHROME_PATH)")

	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	return cmd
}

func runRender(cmd *cobra.Command, opts renderOptions) error {
	format := strings.ToLower(opts.format)
	switch format {
	case export.FormatHTML, export.FormatPDF, export.FormatLaTeX:
	default:
		return fmt.Errorf("unsupported format %q (want html, pdf or latex)", opts.format)
	}
	if opts.all && opts.output == "" {
		return errors.New("--out directory is required with --all")
	}
	if format == export.FormatPDF && !opts.all && opts.output == "" {
		return errors.New("--out is required for pdf output")
	}

	content, err := resume.LoadContentFile(opts.input)
	if err != nil {
		return err
	}
	display, err := resume.LoadDisplayFile(opts.displayFile)
	if err != nil {
		return err
	}
	if opts.template != "" {
		name := types.TemplateName(strings.ToLower(opts.template))
		if !resume.IsKnownTemplate(name) {
			return fmt.Errorf("unknown template %q", opts.template)
		}
		display.Template = name
	}
	title := opts.title
	if title == "" {
		title = content.PersonalInfo.Name
	}

	svc, err := newRenderService(cmd, opts, format)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.ErrOrStderr())
	if opts.all {
		variants, err := svc.RenderAll(cmd.Context(), content, display, title, format)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		var written []string
		for _, v := range variants {
			path := filepath.Join(opts.output, export.Filename(title+"-"+string(v.Template), format))
			if err := os.WriteFile(path, v.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			written = append(written, path)
		}
		printer.PrintWritten(written)
		return nil
	}

	data, err := svc.Render(cmd.Context(), content, display, title, format)
	if err != nil {
		return err
	}
	if opts.output == "" {
		return writeAll(cmd.OutOrStdout(), data)
	}
	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	printer.PrintWritten([]string{opts.output})
	return nil
}

// newRenderService only starts Chrome for pdf output
func newRenderService(cmd *cobra.Command, opts renderOptions, format string) (*export.Service, error) {
	if format != export.FormatPDF {
		return export.NewService(nil, nil, 0, nil), nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	chromePath := cfg.Export.ChromePath
	if opts.chromePath != "" {
		chromePath = opts.chromePath
	}
	return export.NewService(export.NewChromeConverter(chromePath, cfg.Export.Timeout), nil, 0, nil), nil
}

func writeAll(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}
