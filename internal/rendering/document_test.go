package rendering

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullContent() *types.ResumeContent {
	return &types.ResumeContent{
		PersonalInfo: types.PersonalInfo{
			Name:     "Alex Doe",
			Email:    "alex@example.com",
			Phone:    "+1 555 0100",
			Location: "Berlin",
			Website:  "alexdoe.dev",
			Summary:  "Backend engineer.\n- Go\n- Postgres",
		},
		Experience: []types.Experience{
			{ID: "e1", Company: "Acme", Role: "Engineer", StartDate: "2020", EndDate: "2023", Bullets: []types.BulletPoint{
				{ID: "b1", Text: "Built the billing service"},
				{ID: "b2", Text: "   "},
				{ID: "b3", Text: "Cut latency by 40%"},
			}},
		},
		Projects:       []types.Project{{ID: "p1", Name: "resumectl", Description: "- CLI for resumes", Link: "https://github.com/alex/resumectl"}},
		Education:      []types.Education{{ID: "ed1", Institution: "TU Berlin", Degree: "BSc Computer Science", GraduationDate: "2019"}},
		Certifications: []types.Certification{{ID: "c1", Name: "CKA", Issuer: "CNCF", Date: "2022"}},
		Skills:         []types.Skill{{ID: "s1", Name: "Go"}, {ID: "s2", Name: " "}, {ID: "s3", Name: "SQL"}},
		References:     []types.Reference{{ID: "r1", Name: "Sam Lee", Relationship: "Manager", Email: "sam@example.com"}},
		AdditionalInformation: "Fluent in German",
	}
}

func TestBuildDocument_CanonicalOrder(t *testing.T) {
	doc := BuildDocument(fullContent(), ModeExport)
	assert.Equal(t, CanonicalOrder, doc.Kinds())
}

func TestBuildDocument_EmptyContent(t *testing.T) {
	doc := BuildDocument(types.NewResumeContent(), ModeExport)
	assert.Empty(t, doc.Sections)
	assert.Equal(t, "", doc.Header.Name)

	doc = BuildDocument(nil, ModePreview)
	assert.Empty(t, doc.Sections)
	assert.Equal(t, PlaceholderName, doc.Header.Name)
	assert.True(t, doc.Header.Placeholder)
}

func TestBuildDocument_SectionPresence(t *testing.T) {
	tests := []struct {
		name    string
		content types.ResumeContent
		present []SectionKind
	}{
		{
			name:    "blank summary omitted",
			content: types.ResumeContent{PersonalInfo: types.PersonalInfo{Summary: "  \n "}},
			present: nil,
		},
		{
			name:    "skills with only blank names omitted",
			content: types.ResumeContent{Skills: []types.Skill{{ID: "1", Name: ""}, {ID: "2", Name: "  "}}},
			present: nil,
		},
		{
			name:    "experience with only blank bullets omitted",
			content: types.ResumeContent{Experience: []types.Experience{{ID: "1", Bullets: []types.BulletPoint{{ID: "b", Text: " "}}}}},
			present: nil,
		},
		{
			name:    "experience with a company only is kept",
			content: types.ResumeContent{Experience: []types.Experience{{ID: "1", Company: "Acme"}}},
			present: []SectionKind{SectionExperience},
		},
		{
			name: "additional information and references",
			content: types.ResumeContent{
				References:            []types.Reference{{ID: "1", Phone: "555"}},
				AdditionalInformation: "- Volunteer",
			},
			present: []SectionKind{SectionReferences, SectionAdditional},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := BuildDocument(&tt.content, ModeExport)
			if tt.present == nil {
				assert.Empty(t, doc.Kinds())
				return
			}
			assert.Equal(t, tt.present, doc.Kinds())
		})
	}
}

func TestBuildDocument_BlankBulletsDroppedFromOutputOnly(t *testing.T) {
	content := fullContent()
	doc := BuildDocument(content, ModeExport)

	exp, ok := doc.Section(SectionExperience)
	require.True(t, ok)
	require.Len(t, exp.Entries, 1)
	assert.Equal(t, []string{"Built the billing service", "Cut latency by 40%"}, exp.Entries[0].Bullets)
	assert.Equal(t, "2020 – 2023", exp.Entries[0].Meta)

	assert.Len(t, content.Experience[0].Bullets, 3)
}

func TestBuildDocument_Header(t *testing.T) {
	doc := BuildDocument(fullContent(), ModePreview)

	assert.Equal(t, "Alex Doe", doc.Header.Name)
	assert.False(t, doc.Header.Placeholder)
	require.Len(t, doc.Header.Contact, 4)
	assert.Equal(t, "mailto:alex@example.com", doc.Header.Contact[0].Href)
	assert.Equal(t, "tel:+15550100", doc.Header.Contact[1].Href)
	assert.Empty(t, doc.Header.Contact[2].Href, "location is plain text")
	assert.Equal(t, "https://alexdoe.dev", doc.Header.Contact[3].Href)
	assert.Equal(t, "alexdoe.dev", doc.Header.Contact[3].Text)
}

func TestBuildDocument_SkillsAndSummary(t *testing.T) {
	doc := BuildDocument(fullContent(), ModeExport)

	skills, ok := doc.Section(SectionSkills)
	require.True(t, ok)
	assert.Equal(t, []string{"Go", "SQL"}, skills.Tags)

	summary, ok := doc.Section(SectionSummary)
	require.True(t, ok)
	assert.Equal(t, []TextNode{
		{Kind: NodeParagraph, Text: "Backend engineer."},
		{Kind: NodeList, Items: []string{"Go", "Postgres"}},
	}, summary.Body)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeExport, ParseMode("export"))
	assert.Equal(t, ModeExport, ParseMode(" EXPORT "))
	assert.Equal(t, ModePreview, ParseMode("preview"))
	assert.Equal(t, ModePreview, ParseMode(""))
	assert.Equal(t, "export", ModeExport.String())
}
