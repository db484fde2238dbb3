package types

// TemplateName identifies one layout variant. The set is closed.
type TemplateName string

// Known layout variants
const (
	TemplateModern       TemplateName = "modern"
	TemplateClassic      TemplateName = "classic"
	TemplateMinimal      TemplateName = "minimal"
	TemplateProfessional TemplateName = "professional"
	TemplateCreative     TemplateName = "creative"
	TemplateCompact      TemplateName = "compact"
)

// FontFamily identifies a supported font stack
type FontFamily string

// Supported font families
const (
	FontInter        FontFamily = "inter"
	FontRoboto       FontFamily = "roboto"
	FontLato         FontFamily = "lato"
	FontMerriweather FontFamily = "merriweather"
	FontGeorgia      FontFamily = "georgia"
	FontMono         FontFamily = "mono"
)

// FontSize is a relative text size variant
type FontSize string

// Font size variants
const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// Alignment is the body text alignment variant
type Alignment string

// Alignment variants
const (
	AlignLeft    Alignment = "left"
	AlignJustify Alignment = "justify"
)

// LineHeight is the body line spacing variant
type LineHeight string

// Line height variants
const (
	LineHeightCompact LineHeight = "compact"
	LineHeightNormal  LineHeight = "normal"
	LineHeightRelaxed LineHeight = "relaxed"
)

// DisplayConfig holds the visual styling applied to ResumeContent at render time
type DisplayConfig struct {
	Template    TemplateName `json:"template"`
	AccentColor string       `json:"accentColor"`
	FontFamily  FontFamily   `json:"fontFamily"`
	FontSize    FontSize     `json:"fontSize,omitempty"`
	Alignment   Alignment    `json:"alignment,omitempty"`
	LineHeight  LineHeight   `json:"lineHeight,omitempty"`
}
