// Package types provides type definitions for structured data used throughout the resume builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PersonalInfo holds the contact block of a resume. Every field is optional.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
}

// BulletPoint is a single line inside an Experience entry
type BulletPoint struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Experience represents one position. Dates are display strings, never parsed.
type Experience struct {
	ID        string        `json:"id"`
	Company   string        `json:"company"`
	Role      string        `json:"role"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Bullets   []BulletPoint `json:"bullets"`
}

// Education represents a degree or course of study
type Education struct {
	ID             string `json:"id"`
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	GraduationDate string `json:"graduationDate"`
	Details        string `json:"details"`
}

// Skill is a single named skill
type Skill struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is a portfolio entry. Description may encode bullet lines with a leading "- ".
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// Certification is a credential with its issuer
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// Reference is a professional contact
type Reference struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// ResumeContent is the structured, user-editable data of a resume.
// List order is insertion order and is significant for display.
type ResumeContent struct {
	PersonalInfo          PersonalInfo    `json:"personalInfo"`
	Experience            []Experience    `json:"experience"`
	Education             []Education     `json:"education"`
	Skills                []Skill         `json:"skills"`
	Projects              []Project       `json:"projects"`
	Certifications        []Certification `json:"certifications"`
	References            []Reference     `json:"references"`
	AdditionalInformation string          `json:"additionalInformation"`
}

// NewResumeContent returns empty content with all lists initialized
func NewResumeContent() *ResumeContent {
	return &ResumeContent{
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []Skill{},
		Projects:       []Project{},
		Certifications: []Certification{},
		References:     []Reference{},
	}
}

// Clone returns a deep copy of the content
func (c *ResumeContent) Clone() *ResumeContent {
	if c == nil {
		return nil
	}
	out := *c
	out.Experience = make([]Experience, len(c.Experience))
	for i, exp := range c.Experience {
		exp.Bullets = append([]BulletPoint{}, exp.Bullets...)
		out.Experience[i] = exp
	}
	out.Education = append([]Education{}, c.Education...)
	out.Skills = append([]Skill{}, c.Skills...)
	out.Projects = append([]Project{}, c.Projects...)
	out.Certifications = append([]Certification{}, c.Certifications...)
	out.References = append([]Reference{}, c.References...)
	return &out
}

// Resume is a saved resume owned by a user
type Resume struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Title     string        `json:"title"`
	Content   ResumeContent `json:"content"`
	Display   DisplayConfig `json:"display"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ResumeSummary is a lightweight view of a resume for listing
type ResumeSummary struct {
	ID        uuid.UUID    `json:"id"`
	Title     string       `json:"title"`
	Template  TemplateName `json:"template"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Blank reports whether s has no visible characters
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
