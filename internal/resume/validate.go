package resume

import (
	"encoding/json"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// ValidateContent checks raw JSON against the content schema and decodes it.
// Every top-level field is optional, absent lists become empty and unknown fields are
// ignored. Shape errors are returned as *schemas.ValidationError.
func ValidateContent(raw []byte) (*types.ResumeContent, error) {
	if err := schemas.Validate(schemas.Content, raw); err != nil {
		return nil, err
	}

	content := types.NewResumeContent()
	if err := json.Unmarshal(raw, content); err != nil {
		return nil, &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	NormalizeContent(content)
	return content, nil
}

// ContentOrEmpty validates raw content and falls back to empty content when it does not
// conform. The validation error is returned for logging only; the content is always usable.
func ContentOrEmpty(raw []byte) (*types.ResumeContent, error) {
	content, err := ValidateContent(raw)
	if err != nil {
		empty := types.NewResumeContent()
		return empty, err
	}
	return content, nil
}

// NormalizeContent replaces nil lists with empty ones and assigns missing or duplicate ids.
// Calling it on normalized content is a no-op.
func NormalizeContent(c *types.ResumeContent) {
	if c == nil {
		return
	}
	if c.Experience == nil {
		c.Experience = []types.Experience{}
	}
	for i := range c.Experience {
		if c.Experience[i].Bullets == nil {
			c.Experience[i].Bullets = []types.BulletPoint{}
		}
	}
	if c.Education == nil {
		c.Education = []types.Education{}
	}
	if c.Skills == nil {
		c.Skills = []types.Skill{}
	}
	if c.Projects == nil {
		c.Projects = []types.Project{}
	}
	if c.Certifications == nil {
		c.Certifications = []types.Certification{}
	}
	if c.References == nil {
		c.References = []types.Reference{}
	}
	AssignIDs(c)
}
