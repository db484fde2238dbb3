package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options controls a render
type Options struct {
	Mode  Mode
	Title string
}

// Output is a rendered document
type Output struct {
	HTML     string
	Template types.TemplateName
	Display  types.DisplayConfig
	Sections []SectionKind
}

// pageData is the value the HTML templates execute against
type pageData struct {
	Title   string
	Mode    string
	Layout  types.TemplateName
	Vars    template.CSS
	Header  Header
	Main    []Section
	Sidebar []Section
}

var fontStacks = map[types.FontFamily]string{
	types.FontInter:        `"Inter", "Helvetica Neue", Arial, sans-serif`,
	types.FontRoboto:       `"Roboto", "Helvetica Neue", Arial, sans-serif`,
	types.FontLato:         `"Lato", "Helvetica Neue", Arial, sans-serif`,
	types.FontMerriweather: `"Merriweather", Georgia, serif`,
	types.FontGeorgia:      `Georgia, "Times New Roman", serif`,
	types.FontMono:         `"JetBrains Mono", "Fira Code", Menlo, Consolas, monospace`,
}

var fontSizes = map[types.FontSize]string{
	types.FontSizeSmall:  "9.5pt",
	types.FontSizeMedium: "10.5pt",
	types.FontSizeLarge:  "11.5pt",
}

var lineHeights = map[types.LineHeight]string{
	types.LineHeightCompact: "1.25",
	types.LineHeightNormal:  "1.45",
	types.LineHeightRelaxed: "1.7",
}

var (
	parseOnce sync.Once
	parsed    map[types.TemplateName]*template.Template
	parseErr  error
)

// loadTemplates parses the shared partials once and clones them for each layout
func loadTemplates() (map[types.TemplateName]*template.Template, error) {
	parseOnce.Do(func() {
		base, err := template.New("base").ParseFS(templateFS, "templates/base.html.tmpl")
		if err != nil {
			parseErr = &Error{Stage: StageParse, Layout: "base", Err: err}
			return
		}

		parsed = make(map[types.TemplateName]*template.Template, len(layouts))
		for name := range layouts {
			clone, err := base.Clone()
			if err != nil {
				parseErr = &Error{Stage: StageParse, Layout: string(name), Err: fmt.Errorf("clone base: %w", err)}
				return
			}
			t, err := clone.ParseFS(templateFS, "templates/"+string(name)+".html.tmpl")
			if err != nil {
				parseErr = &Error{Stage: StageParse, Layout: string(name), Err: err}
				return
			}
			parsed[name] = t
		}
	})
	return parsed, parseErr
}

// Render produces the HTML document for content under a display configuration.
// The display configuration is resolved first, so an unknown template renders with the
// default layout.
func Render(content *types.ResumeContent, display types.DisplayConfig, opts Options) (*Output, error) {
	display = resume.ResolveDisplayConfig(display)

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	tmpl, ok := templates[display.Template]
	if !ok {
		return nil, &Error{Stage: StageExecute, Layout: string(display.Template), Err: fmt.Errorf("layout not loaded")}
	}

	doc := BuildDocument(content, opts.Mode)
	main, sidebar := LayoutFor(display.Template).Columns(doc.Sections)

	data := pageData{
		Title:   documentTitle(opts.Title, doc.Header),
		Mode:    opts.Mode.String(),
		Layout:  display.Template,
		Vars:    cssVariables(display),
		Header:  doc.Header,
		Main:    main,
		Sidebar: sidebar,
	}

	var result strings.Builder
	if err := tmpl.ExecuteTemplate(&result, "document", data); err != nil {
		return nil, &Error{Stage: StageExecute, Layout: string(display.Template), Err: err}
	}

	return &Output{
		HTML:     result.String(),
		Template: display.Template,
		Display:  display,
		Sections: doc.Kinds(),
	}, nil
}

func documentTitle(title string, h Header) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if h.Name != "" && !h.Placeholder {
		return h.Name + " - Resume"
	}
	return "Resume"
}

// cssVariables builds the :root block from resolved (and therefore trusted) values
func cssVariables(d types.DisplayConfig) template.CSS {
	accent := expandHex(d.AccentColor)
	align := "left"
	if d.Alignment == types.AlignJustify {
		align = "justify"
	}
	return template.CSS(fmt.Sprintf(
		":root { --accent: %s; --accent-soft: %s1f; --font: %s; --font-size: %s; --line-height: %s; --text-align: %s; }",
		accent, accent, fontStacks[d.FontFamily], fontSizes[d.FontSize], lineHeights[d.LineHeight], align,
	))
}

// expandHex turns #abc into #aabbcc
func expandHex(c string) string {
	if len(c) != 4 {
		return c
	}
	return string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
}
