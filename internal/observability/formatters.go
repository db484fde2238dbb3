// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintContentSummary outputs the name and the number of entries per section
func (p *Printer) PrintContentSummary(content *types.ResumeContent) {
	if content == nil {
		return
	}

	var sb strings.Builder
	name := content.PersonalInfo.Name
	if types.Blank(name) {
		name = "(no name)"
	}
	sb.WriteString(fmt.Sprintf("Name:            %s\n", name))
	sb.WriteString(fmt.Sprintf("Experience:      %d\n", len(content.Experience)))
	sb.WriteString(fmt.Sprintf("Education:       %d\n", len(content.Education)))
	sb.WriteString(fmt.Sprintf("Skills:          %d\n", len(content.Skills)))
	sb.WriteString(fmt.Sprintf("Projects:        %d\n", len(content.Projects)))
	sb.WriteString(fmt.Sprintf("Certifications:  %d\n", len(content.Certifications)))
	sb.WriteString(fmt.Sprintf("References:      %d", len(content.References)))

	p.printBox("RESUME CONTENT", sb.String())
}

// PrintFieldErrors outputs schema validation failures, first maxItemsToShow only
func (p *Printer) PrintFieldErrors(errs []schemas.FieldError) {
	if len(errs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problem(s):\n\n", len(errs)))
	count := min(len(errs), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s: %s\n", errs[i].Field, errs[i].Message))
	}
	if len(errs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(errs)-maxItemsToShow))
	}

	p.printBox("INVALID RESUME CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplates outputs the template catalog
func (p *Printer) PrintTemplates(catalog []rendering.TemplateInfo) {
	if len(catalog) == 0 {
		return
	}

	var sb strings.Builder
	for i, info := range catalog {
		layout := "single column"
		if info.Columns > 1 {
			layout = fmt.Sprintf("%d columns", info.Columns)
		}
		sb.WriteString(fmt.Sprintf("%-13s %s (%s)\n", info.Name, info.DisplayName, layout))
		if info.Description != "" {
			sb.WriteString(fmt.Sprintf("              %s\n", info.Description))
		}
		if i < len(catalog)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TEMPLATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWritten outputs the files a command produced
func (p *Printer) PrintWritten(paths []string) {
	if len(paths) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Wrote %d file(s):\n", len(paths)))
	for _, path := range paths {
		sb.WriteString(fmt.Sprintf("  %s\n", path))
	}

	p.printBox("OUTPUT", strings.TrimSuffix(sb.String(), "\n"))
}
