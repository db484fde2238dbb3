package rendering

import (
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

// TemplateInfo describes a layout variant for the template picker
type TemplateInfo struct {
	Name        types.TemplateName `json:"name"`
	DisplayName string             `json:"display_name"`
	Description string             `json:"description"`
	Columns     int                `json:"columns"`
}

// Layout is one named arrangement of the document. Layouts only decide placement;
// which sections appear and their order come from the Document.
type Layout interface {
	Info() TemplateInfo
	// Columns splits sections into the main column and an optional sidebar.
	// Reading main then sidebar always yields canonical order.
	Columns(sections []Section) (main, sidebar []Section)
}

type singleColumn struct {
	info TemplateInfo
}

func (l singleColumn) Info() TemplateInfo { return l.info }

func (l singleColumn) Columns(sections []Section) ([]Section, []Section) {
	return sections, nil
}

// twoColumn moves every section from pivot onward (in canonical order) to the sidebar
type twoColumn struct {
	info  TemplateInfo
	pivot SectionKind
}

func (l twoColumn) Info() TemplateInfo { return l.info }

func (l twoColumn) Columns(sections []Section) (main, sidebar []Section) {
	cut := canonicalIndex(l.pivot)
	for _, s := range sections {
		if canonicalIndex(s.Kind) >= cut {
			sidebar = append(sidebar, s)
		} else {
			main = append(main, s)
		}
	}
	return main, sidebar
}

func canonicalIndex(kind SectionKind) int {
	for i, k := range CanonicalOrder {
		if k == kind {
			return i
		}
	}
	return len(CanonicalOrder)
}

var layouts = map[types.TemplateName]Layout{
	types.TemplateModern: singleColumn{TemplateInfo{
		Name:        types.TemplateModern,
		DisplayName: "Modern",
		Description: "Accent header band with a single column body",
		Columns:     1,
	}},
	types.TemplateClassic: singleColumn{TemplateInfo{
		Name:        types.TemplateClassic,
		DisplayName: "Classic",
		Description: "Centered serif header and ruled section headings",
		Columns:     1,
	}},
	types.TemplateMinimal: singleColumn{TemplateInfo{
		Name:        types.TemplateMinimal,
		DisplayName: "Minimal",
		Description: "No color blocks; the accent only marks the name",
		Columns:     1,
	}},
	types.TemplateProfessional: twoColumn{
		info: TemplateInfo{
			Name:        types.TemplateProfessional,
			DisplayName: "Professional",
			Description: "Two columns with certifications, skills and references in a sidebar",
			Columns:     2,
		},
		pivot: SectionCertifications,
	},
	types.TemplateCreative: twoColumn{
		info: TemplateInfo{
			Name:        types.TemplateCreative,
			DisplayName: "Creative",
			Description: "Accent side bar with skills and references beside the main column",
			Columns:     2,
		},
		pivot: SectionSkills,
	},
	types.TemplateCompact: singleColumn{TemplateInfo{
		Name:        types.TemplateCompact,
		DisplayName: "Compact",
		Description: "Dense single column that fits more on a page",
		Columns:     1,
	}},
}

// LayoutFor returns the layout for a template name, falling back to the default
func LayoutFor(name types.TemplateName) Layout {
	if l, ok := layouts[name]; ok {
		return l
	}
	return layouts[resume.DefaultTemplate]
}

// ListTemplates returns the catalog of layout variants in picker order
func ListTemplates() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(resume.Templates))
	for _, name := range resume.Templates {
		out = append(out, layouts[name].Info())
	}
	return out
}
