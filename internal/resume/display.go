package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// Display defaults
const (
	DefaultTemplate    = types.TemplateModern
	DefaultAccentColor = "#2563eb"
	DefaultFontFamily  = types.FontInter
	DefaultFontSize    = types.FontSizeMedium
	DefaultAlignment   = types.AlignLeft
	DefaultLineHeight  = types.LineHeightNormal
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Templates lists every layout variant in catalog order
var Templates = []types.TemplateName{
	types.TemplateModern,
	types.TemplateClassic,
	types.TemplateMinimal,
	types.TemplateProfessional,
	types.TemplateCreative,
	types.TemplateCompact,
}

var fontFamilies = map[types.FontFamily]bool{
	types.FontInter:        true,
	types.FontRoboto:       true,
	types.FontLato:         true,
	types.FontMerriweather: true,
	types.FontGeorgia:      true,
	types.FontMono:         true,
}

// DefaultDisplayConfig returns the configuration used when nothing is chosen
func DefaultDisplayConfig() types.DisplayConfig {
	return types.DisplayConfig{
		Template:    DefaultTemplate,
		AccentColor: DefaultAccentColor,
		FontFamily:  DefaultFontFamily,
		FontSize:    DefaultFontSize,
		Alignment:   DefaultAlignment,
		LineHeight:  DefaultLineHeight,
	}
}

// IsKnownTemplate reports whether name is one of the layout variants
func IsKnownTemplate(name types.TemplateName) bool {
	for _, t := range Templates {
		if t == name {
			return true
		}
	}
	return false
}

// ValidateDisplayConfig decodes a display configuration leniently. Fields of the wrong
// type, unknown values and malformed JSON all resolve to defaults; it never fails.
func ValidateDisplayConfig(raw []byte) types.DisplayConfig {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return DefaultDisplayConfig()
	}

	str := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}

	return ResolveDisplayConfig(types.DisplayConfig{
		Template:    types.TemplateName(str("template")),
		AccentColor: str("accentColor"),
		FontFamily:  types.FontFamily(str("fontFamily")),
		FontSize:    types.FontSize(str("fontSize")),
		Alignment:   types.Alignment(str("alignment")),
		LineHeight:  types.LineHeight(str("lineHeight")),
	})
}

// DisplayFallbacks names the fields of raw that ValidateDisplayConfig replaces with
// defaults. Absent fields are not listed; a document that is not an object is "(root)".
func DisplayFallbacks(raw []byte) []string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	var ve *schemas.ValidationError
	if errors.As(schemas.Validate(schemas.Display, trimmed), &ve) {
		return ve.Fields()
	}
	return nil
}

// ResolveDisplayConfig replaces every unknown or missing value with its default.
// Names are matched case-insensitively.
func ResolveDisplayConfig(d types.DisplayConfig) types.DisplayConfig {
	out := DefaultDisplayConfig()

	if t := types.TemplateName(normalizeName(string(d.Template))); IsKnownTemplate(t) {
		out.Template = t
	}
	if c := strings.TrimSpace(d.AccentColor); hexColor.MatchString(c) {
		out.AccentColor = strings.ToLower(c)
	}
	if f := types.FontFamily(normalizeName(string(d.FontFamily))); fontFamilies[f] {
		out.FontFamily = f
	}
	switch s := types.FontSize(normalizeName(string(d.FontSize))); s {
	case types.FontSizeSmall, types.FontSizeMedium, types.FontSizeLarge:
		out.FontSize = s
	}
	switch a := types.Alignment(normalizeName(string(d.Alignment))); a {
	case types.AlignLeft, types.AlignJustify:
		out.Alignment = a
	}
	switch l := types.LineHeight(normalizeName(string(d.LineHeight))); l {
	case types.LineHeightCompact, types.LineHeightNormal, types.LineHeightRelaxed:
		out.LineHeight = l
	}
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
