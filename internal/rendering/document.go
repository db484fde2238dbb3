// Package rendering turns resume content and a display configuration into a styled document.
package rendering

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Mode selects between interactive preview and print output
type Mode int

const (
	// ModePreview may show placeholder labels for blank personal info
	ModePreview Mode = iota
	// ModeExport never renders placeholders or empty headings
	ModeExport
)

// ParseMode maps "preview"/"export" to a Mode, defaulting to preview
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "export") {
		return ModeExport
	}
	return ModePreview
}

func (m Mode) String() string {
	if m == ModeExport {
		return "export"
	}
	return "preview"
}

// SectionKind identifies a document section
type SectionKind string

// Document sections
const (
	SectionSummary        SectionKind = "summary"
	SectionExperience     SectionKind = "experience"
	SectionProjects       SectionKind = "projects"
	SectionEducation      SectionKind = "education"
	SectionCertifications SectionKind = "certifications"
	SectionSkills         SectionKind = "skills"
	SectionReferences     SectionKind = "references"
	SectionAdditional     SectionKind = "additional-information"
)

// CanonicalOrder is the order sections appear in every layout
var CanonicalOrder = []SectionKind{
	SectionSummary,
	SectionExperience,
	SectionProjects,
	SectionEducation,
	SectionCertifications,
	SectionSkills,
	SectionReferences,
	SectionAdditional,
}

var sectionTitles = map[SectionKind]string{
	SectionSummary:        "Summary",
	SectionExperience:     "Experience",
	SectionProjects:       "Projects",
	SectionEducation:      "Education",
	SectionCertifications: "Certifications",
	SectionSkills:         "Skills",
	SectionReferences:     "References",
	SectionAdditional:     "Additional Information",
}

// Title returns the heading shown for the section
func (k SectionKind) Title() string {
	return sectionTitles[k]
}

// PlaceholderName is shown in preview when the name is blank
const PlaceholderName = "Your Name"

// Header is the name and contact block
type Header struct {
	Name        string
	Placeholder bool
	Contact     []ContactItem
}

// ContactItem is one contact detail; Href is empty for plain text
type ContactItem struct {
	Kind string
	Text string
	Href string
}

// Entry is one displayed list item of a section
type Entry struct {
	Title    string
	Subtitle string
	Meta     string
	Link     string
	Bullets  []string
	Body     []TextNode
}

// Section is a non-empty block of the document
type Section struct {
	Kind    SectionKind
	Title   string
	Body    []TextNode
	Entries []Entry
	Tags    []string
}

// Document is the layout-independent model every variant renders
type Document struct {
	Mode     Mode
	Header   Header
	Sections []Section
}

// Kinds returns the kinds of the present sections in order
func (d Document) Kinds() []SectionKind {
	out := make([]SectionKind, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Kind
	}
	return out
}

// Section returns the section of the given kind, if present
func (d Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// BuildDocument maps content to sections in canonical order. A section is present
// only when at least one of its items or its text block has visible text.
func BuildDocument(content *types.ResumeContent, mode Mode) Document {
	if content == nil {
		content = types.NewResumeContent()
	}

	doc := Document{
		Mode:   mode,
		Header: buildHeader(content.PersonalInfo, mode),
	}

	for _, kind := range CanonicalOrder {
		section := Section{Kind: kind, Title: kind.Title()}
		switch kind {
		case SectionSummary:
			section.Body = ParseTextBlock(content.PersonalInfo.Summary)
		case SectionExperience:
			section.Entries = experienceEntries(content.Experience)
		case SectionProjects:
			section.Entries = projectEntries(content.Projects)
		case SectionEducation:
			section.Entries = educationEntries(content.Education)
		case SectionCertifications:
			section.Entries = certificationEntries(content.Certifications)
		case SectionSkills:
			section.Tags = skillNames(content.Skills)
		case SectionReferences:
			section.Entries = referenceEntries(content.References)
		case SectionAdditional:
			section.Body = ParseTextBlock(content.AdditionalInformation)
		}
		if len(section.Body) > 0 || len(section.Entries) > 0 || len(section.Tags) > 0 {
			doc.Sections = append(doc.Sections, section)
		}
	}
	return doc
}

func buildHeader(p types.PersonalInfo, mode Mode) Header {
	h := Header{Name: strings.TrimSpace(p.Name)}
	if h.Name == "" && mode == ModePreview {
		h.Name = PlaceholderName
		h.Placeholder = true
	}

	if email := strings.TrimSpace(p.Email); email != "" {
		h.Contact = append(h.Contact, ContactItem{Kind: "email", Text: email, Href: "mailto:" + email})
	}
	if phone := strings.TrimSpace(p.Phone); phone != "" {
		h.Contact = append(h.Contact, ContactItem{Kind: "phone", Text: phone, Href: "tel:" + strings.ReplaceAll(phone, " ", "")})
	}
	if loc := strings.TrimSpace(p.Location); loc != "" {
		h.Contact = append(h.Contact, ContactItem{Kind: "location", Text: loc})
	}
	if site := strings.TrimSpace(p.Website); site != "" {
		h.Contact = append(h.Contact, ContactItem{Kind: "website", Text: displayURL(site), Href: absoluteURL(site)})
	}
	return h
}

func experienceEntries(items []types.Experience) []Entry {
	var out []Entry
	for _, exp := range items {
		e := Entry{
			Title:    strings.TrimSpace(exp.Role),
			Subtitle: strings.TrimSpace(exp.Company),
			Meta:     dateRange(exp.StartDate, exp.EndDate),
		}
		for _, b := range exp.Bullets {
			if !types.Blank(b.Text) {
				e.Bullets = append(e.Bullets, strings.TrimSpace(b.Text))
			}
		}
		if !e.empty() {
			out = append(out, e)
		}
	}
	return out
}

func projectEntries(items []types.Project) []Entry {
	var out []Entry
	for _, p := range items {
		e := Entry{
			Title: strings.TrimSpace(p.Name),
			Body:  ParseTextBlock(p.Description),
		}
		if link := strings.TrimSpace(p.Link); link != "" {
			e.Link = absoluteURL(link)
			e.Meta = displayURL(link)
		}
		if !e.empty() {
			out = append(out, e)
		}
	}
	return out
}

func educationEntries(items []types.Education) []Entry {
	var out []Entry
	for _, ed := range items {
		e := Entry{
			Title:    strings.TrimSpace(ed.Degree),
			Subtitle: strings.TrimSpace(ed.Institution),
			Meta:     strings.TrimSpace(ed.GraduationDate),
			Body:     ParseTextBlock(ed.Details),
		}
		if !e.empty() {
			out = append(out, e)
		}
	}
	return out
}

func certificationEntries(items []types.Certification) []Entry {
	var out []Entry
	for _, c := range items {
		e := Entry{
			Title:    strings.TrimSpace(c.Name),
			Subtitle: strings.TrimSpace(c.Issuer),
			Meta:     strings.TrimSpace(c.Date),
		}
		if !e.empty() {
			out = append(out, e)
		}
	}
	return out
}

func referenceEntries(items []types.Reference) []Entry {
	var out []Entry
	for _, r := range items {
		e := Entry{
			Title:    strings.TrimSpace(r.Name),
			Subtitle: strings.TrimSpace(r.Relationship),
			Meta:     joinNonBlank(" · ", r.Email, r.Phone),
		}
		if !e.empty() {
			out = append(out, e)
		}
	}
	return out
}

func skillNames(items []types.Skill) []string {
	var out []string
	for _, s := range items {
		if !types.Blank(s.Name) {
			out = append(out, strings.TrimSpace(s.Name))
		}
	}
	return out
}

func (e Entry) empty() bool {
	return e.Title == "" && e.Subtitle == "" && e.Meta == "" && len(e.Bullets) == 0 && len(e.Body) == 0
}

func dateRange(start, end string) string {
	return joinNonBlank(" – ", start, end)
}

func joinNonBlank(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func absoluteURL(s string) string {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return "https://" + s
}

func displayURL(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://"), "http://")
	return strings.TrimSuffix(s, "/")
}
