package assist

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// experienceText lists positions one per line with their bullets indented below
func experienceText(items []types.Experience) string {
	var sb strings.Builder
	for _, exp := range items {
		if types.Blank(exp.Role) && types.Blank(exp.Company) {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(strings.TrimSpace(exp.Role))
		if !types.Blank(exp.Company) {
			sb.WriteString(" at ")
			sb.WriteString(strings.TrimSpace(exp.Company))
		}
		if dates := dateRange(exp.StartDate, exp.EndDate); dates != "" {
			sb.WriteString(" (" + dates + ")")
		}
		sb.WriteString("\n")
		for _, b := range exp.Bullets {
			if !types.Blank(b.Text) {
				sb.WriteString("    - " + strings.TrimSpace(b.Text) + "\n")
			}
		}
	}
	if sb.Len() == 0 {
		return "(none)"
	}
	return strings.TrimRight(sb.String(), "\n")
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

func skillNames(skills []types.Skill) string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		if !types.Blank(s.Name) {
			names = append(names, strings.TrimSpace(s.Name))
		}
	}
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

// resumeText flattens content into the plain text sent along with a job description
func resumeText(c *types.ResumeContent) string {
	var sb strings.Builder
	section := func(title, body string) {
		body = strings.TrimSpace(body)
		if body == "" || body == "(none)" {
			return
		}
		sb.WriteString(title + ":\n" + body + "\n\n")
	}

	p := c.PersonalInfo
	section("Name", p.Name)
	section("Summary", p.Summary)
	section("Experience", experienceText(c.Experience))

	var lines []string
	for _, p := range c.Projects {
		if !types.Blank(p.Name) || !types.Blank(p.Description) {
			lines = append(lines, "- "+strings.TrimSpace(p.Name)+": "+strings.TrimSpace(p.Description))
		}
	}
	section("Projects", strings.Join(lines, "\n"))

	lines = lines[:0]
	for _, e := range c.Education {
		if !types.Blank(e.Degree) || !types.Blank(e.Institution) {
			lines = append(lines, "- "+strings.TrimSpace(e.Degree+", "+e.Institution))
		}
	}
	section("Education", strings.Join(lines, "\n"))

	lines = lines[:0]
	for _, cert := range c.Certifications {
		if !types.Blank(cert.Name) {
			lines = append(lines, "- "+strings.TrimSpace(cert.Name))
		}
	}
	section("Certifications", strings.Join(lines, "\n"))
	section("Skills", skillNames(c.Skills))
	section("Additional information", c.AdditionalInformation)

	if sb.Len() == 0 {
		return "(empty resume)"
	}
	return strings.TrimSpace(sb.String())
}

// trimBullet strips whitespace and a leading list marker
func trimBullet(s string) string {
	s = strings.TrimSpace(s)
	for _, marker := range []string{"- ", "* ", "• "} {
		s = strings.TrimPrefix(s, marker)
	}
	return strings.TrimSpace(s)
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = trimBullet(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// newSkills returns suggested names not already in existing, compared case-insensitively
func newSkills(existing, suggested []string) []string {
	seen := make(map[string]bool, len(existing)+len(suggested))
	for _, s := range existing {
		seen[strings.ToLower(strings.TrimSpace(s))] = true
	}
	out := []string{}
	for _, s := range suggested {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
