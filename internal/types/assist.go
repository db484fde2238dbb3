package types

// SummaryRequest is the input of the summary generation assist
type SummaryRequest struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience"`
	Skills       []Skill      `json:"skills"`
}

// SummaryResponse carries a generated professional summary
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// BulletsRequest asks for bullet points for a role at a company
type BulletsRequest struct {
	Role    string `json:"role" validate:"required"`
	Company string `json:"company"`
}

// BulletsResponse carries generated bullet lines in display order
type BulletsResponse struct {
	Bullets []string `json:"bullets"`
}

// RewriteRequest asks for a single bullet to be rewritten
type RewriteRequest struct {
	Text string `json:"text" validate:"required"`
	Role string `json:"role"`
}

// RewriteResponse carries the rewritten bullet
type RewriteResponse struct {
	Text string `json:"text"`
}

// SkillsRequest asks for skill suggestions for a role
type SkillsRequest struct {
	Role   string   `json:"role" validate:"required"`
	Skills []string `json:"skills"`
}

// SkillsResponse carries suggested skill names not already present
type SkillsResponse struct {
	Skills []string `json:"skills"`
}

// TailorRequest asks for suggestions to tailor a resume to a job description
type TailorRequest struct {
	ResumeContent  ResumeContent `json:"resumeContent"`
	JobDescription string        `json:"jobDescription" validate:"required"`
}

// TailorResponse carries free-text tailoring suggestions
type TailorResponse struct {
	Suggestions string `json:"suggestions"`
}

// ExtractRequest carries raw resume text (plain text or HTML) to be structured
type ExtractRequest struct {
	ResumeText string `json:"resumeText" validate:"required"`
}
