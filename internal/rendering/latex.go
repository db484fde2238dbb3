package rendering

import (
	"strings"
	"sync"
	"text/template"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

var (
	latexOnce sync.Once
	latexTmpl *template.Template
	latexErr  error
)

// latexData is the value the LaTeX template executes against
type latexData struct {
	Accent   string
	FontSize int
	Header   Header
	Sections []Section
}

var latexFontSizes = map[types.FontSize]int{
	types.FontSizeSmall:  10,
	types.FontSizeMedium: 11,
	types.FontSizeLarge:  12,
}

func parseLaTeXTemplate() (*template.Template, error) {
	latexOnce.Do(func() {
		content, err := templateFS.ReadFile("templates/resume.tex.tmpl")
		if err != nil {
			latexErr = &Error{Stage: StageParse, Layout: "latex", Err: err}
			return
		}
		latexTmpl, err = template.New("resume").
			Delims("<<", ">>").
			Funcs(template.FuncMap{"escape": EscapeLaTeX}).
			Parse(string(content))
		if err != nil {
			latexErr = &Error{Stage: StageParse, Layout: "latex", Err: err}
		}
	})
	return latexTmpl, latexErr
}

// RenderLaTeX renders the same document model as LaTeX source. Layout variants do not
// apply; the accent color and font size carry over. Placeholders are never emitted.
func RenderLaTeX(content *types.ResumeContent, display types.DisplayConfig) (string, error) {
	tmpl, err := parseLaTeXTemplate()
	if err != nil {
		return "", err
	}

	display = resume.ResolveDisplayConfig(display)
	doc := BuildDocument(content, ModeExport)

	data := latexData{
		Accent:   latexHexColor(display.AccentColor),
		FontSize: latexFontSizes[display.FontSize],
		Header:   doc.Header,
		Sections: doc.Sections,
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &Error{Stage: StageExecute, Layout: "latex", Err: err}
	}
	return result.String(), nil
}
