package rendering

import "strings"

// EscapeLaTeX escapes special LaTeX characters in text.
// Special characters: \ { } $ & % # ^ _ ~ plus the typographic marks the document
// model emits between dates and contact details.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{', '}', '$', '&', '%', '#', '_':
			result.WriteByte('\\')
			result.WriteRune(r)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '–':
			result.WriteString(`--`)
		case '·':
			result.WriteString(`\textperiodcentered{}`)
		case '\n', '\r':
			result.WriteByte(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// latexHexColor converts #rrggbb or #rgb to the RRGGBB form xcolor expects
func latexHexColor(c string) string {
	return strings.ToUpper(strings.TrimPrefix(expandHex(c), "#"))
}
