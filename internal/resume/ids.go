package resume

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// NewID returns a fresh list-item identifier
func NewID() string {
	return uuid.NewString()
}

// idSet hands out ids unique within one parent list
type idSet map[string]struct{}

// claim returns id if it is non-empty and unused in the list, otherwise a fresh id
func (s idSet) claim(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		id = NewID()
	}
	for {
		if _, taken := s[id]; !taken {
			s[id] = struct{}{}
			return id
		}
		id = NewID()
	}
}

// AssignIDs gives every list item, including experience bullets, an identifier unique
// within its parent list. Existing unique ids are kept; a blank id or one that repeats
// an earlier sibling's is replaced.
func AssignIDs(c *types.ResumeContent) {
	if c == nil {
		return
	}

	exp := idSet{}
	for i := range c.Experience {
		c.Experience[i].ID = exp.claim(c.Experience[i].ID)
		bullets := idSet{}
		for j := range c.Experience[i].Bullets {
			c.Experience[i].Bullets[j].ID = bullets.claim(c.Experience[i].Bullets[j].ID)
		}
	}

	edu := idSet{}
	for i := range c.Education {
		c.Education[i].ID = edu.claim(c.Education[i].ID)
	}

	skills := idSet{}
	for i := range c.Skills {
		c.Skills[i].ID = skills.claim(c.Skills[i].ID)
	}

	projects := idSet{}
	for i := range c.Projects {
		c.Projects[i].ID = projects.claim(c.Projects[i].ID)
	}

	certs := idSet{}
	for i := range c.Certifications {
		c.Certifications[i].ID = certs.claim(c.Certifications[i].ID)
	}

	refs := idSet{}
	for i := range c.References {
		c.References[i].ID = refs.claim(c.References[i].ID)
	}
}

// ReassignIDs replaces every list-item id with a fresh one. Used when content is
// imported from a prefill payload, whose ids are not trusted.
func ReassignIDs(c *types.ResumeContent) {
	if c == nil {
		return
	}
	for i := range c.Experience {
		c.Experience[i].ID = NewID()
		for j := range c.Experience[i].Bullets {
			c.Experience[i].Bullets[j].ID = NewID()
		}
	}
	for i := range c.Education {
		c.Education[i].ID = NewID()
	}
	for i := range c.Skills {
		c.Skills[i].ID = NewID()
	}
	for i := range c.Projects {
		c.Projects[i].ID = NewID()
	}
	for i := range c.Certifications {
		c.Certifications[i].ID = NewID()
	}
	for i := range c.References {
		c.References[i].ID = NewID()
	}
}
