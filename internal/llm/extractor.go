package llm

import (
	"errors"
	"strings"
	"text/template"
)

// ErrNoFields is returned when an extraction asks for nothing.
var ErrNoFields = errors.New("extraction has no fields")

// Extraction describes a JSON object the model should pull out of free text.
type Extraction struct {
	Instructions string
	Fields       []ExtractionField
}

// ExtractionField is one top-level key of the expected object.
type ExtractionField struct {
	Name string
	// Shape is a JSON sketch of the value; empty means a plain string.
	Shape    string
	Hint     string
	Required bool
}

var extractionPrompt = template.Must(template.New("extraction").Parse(`{{.Instructions}}

Return ONLY valid JSON matching this exact structure:
{
{{- range $i, $f := .Fields}}{{if $i}},{{end}}
  "{{$f.Name}}": {{or $f.Shape "string"}}{{if $f.Required}} (required){{end}}{{with $f.Hint}} // {{.}}{{end}}
{{- end}}
}

IMPORTANT:
- Extract information directly from the text, do not invent or summarize.
- Use an empty string or empty list for anything the text does not contain.
- Return ONLY the JSON object, no markdown, no explanation, no code blocks.

Input text:
"""
{{.Input}}
"""
`))

// Prompt renders the extraction request for input.
func (e Extraction) Prompt(input string) (string, error) {
	if len(e.Fields) == 0 {
		return "", ErrNoFields
	}
	var sb strings.Builder
	err := extractionPrompt.Execute(&sb, struct {
		Extraction
		Input string
	}{e, input})
	return sb.String(), err
}

// ResumeExtraction turns pasted or uploaded resume text into ResumeContent JSON.
func ResumeExtraction() Extraction {
	return Extraction{
		Instructions: `You are an expert resume parser. Copy text verbatim from the resume, do not paraphrase.
Split the raw resume into its sections. Keep dates exactly as written (e.g. "Jan 2020", "Present").`,
		Fields: []ExtractionField{
			{
				Name:     "personalInfo",
				Shape:    `{"name": "", "email": "", "phone": "", "location": "", "website": "", "summary": ""}`,
				Hint:     "Contact block and professional summary",
				Required: true,
			},
			{
				Name:     "experience",
				Shape:    `[{"company": "", "role": "", "startDate": "", "endDate": "", "bullets": [{"text": ""}]}]`,
				Hint:     "Positions in the order they appear, one bullet per accomplishment line",
				Required: true,
			},
			{
				Name:     "education",
				Shape:    `[{"institution": "", "degree": "", "graduationDate": "", "details": ""}]`,
				Required: true,
			},
			{Name: "skills", Shape: `[{"name": ""}]`, Hint: "One entry per skill, not per category", Required: true},
			{Name: "projects", Shape: `[{"name": "", "description": "", "link": ""}]`, Hint: `Description lines that were bullets start with "- "`},
			{Name: "certifications", Shape: `[{"name": "", "issuer": "", "date": ""}]`},
			{Name: "references", Shape: `[{"name": "", "relationship": "", "email": "", "phone": ""}]`},
			{Name: "additionalInformation", Shape: `""`, Hint: "Anything that fits no other section"},
		},
	}
}
