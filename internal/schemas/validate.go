// Package schemas checks resume payloads against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed files/*.schema.json
var schemaFiles embed.FS

// Name identifies an embedded schema.
type Name string

const (
	Content Name = "content"
	Display Name = "display"
)

// rootField labels errors that do not belong to a property.
const rootField = "(root)"

// FieldError is one schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (fe FieldError) String() string {
	return fe.Field + ": " + fe.Message
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, fe)
	}
	return sb.String()
}

// Fields returns the distinct failing field paths in report order.
func (ve *ValidationError) Fields() []string {
	var out []string
	seen := make(map[string]struct{}, len(ve.Errors))
	for _, fe := range ve.Errors {
		if _, dup := seen[fe.Field]; dup {
			continue
		}
		seen[fe.Field] = struct{}{}
		out = append(out, fe.Field)
	}
	return out
}

// SchemaLoadError means an embedded schema is missing or does not compile.
type SchemaLoadError struct {
	Name  Name
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("load schema %q: %v", e.Name, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Each schema compiles once, on first use.
var compiled = map[Name]func() (*gojsonschema.Schema, error){
	Content: sync.OnceValues(func() (*gojsonschema.Schema, error) { return compile(Content) }),
	Display: sync.OnceValues(func() (*gojsonschema.Schema, error) { return compile(Display) }),
}

func compile(name Name) (*gojsonschema.Schema, error) {
	data, err := schemaFiles.ReadFile("files/" + string(name) + ".schema.json")
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Cause: err}
	}
	return s, nil
}

// Load returns a compiled embedded schema.
func Load(name Name) (*gojsonschema.Schema, error) {
	get, ok := compiled[name]
	if !ok {
		return nil, &SchemaLoadError{Name: name, Cause: fmt.Errorf("unknown schema")}
	}
	return get()
}

// Validate checks document against the named schema. Malformed JSON and
// schema violations are both reported as *ValidationError.
func Validate(name Name, document []byte) error {
	s, err := Load(name)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: rootField, Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, re := range result.Errors() {
		field := re.Field()
		if field == "" {
			field = rootField
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: re.Description()})
	}
	return ve
}
