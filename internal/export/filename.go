package export

import (
	"strings"
	"unicode"
)

// Filename turns a resume title into a safe download name with ext
func Filename(title, ext string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimRight(b.String(), "-")
	if name == "" {
		name = "resume"
	}
	if ext == "latex" {
		ext = "tex"
	}
	return name + "." + ext
}
