package assist

import (
	"context"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlainText_HTML(t *testing.T) {
	html := `<html><head><style>h1{color:red}</style></head><body>
<h1>Alex   Doe</h1><p>Engineer<br>Berlin</p>
<script>alert(1)</script>
<ul><li>Built X</li><li>Led <b>Y</b></li></ul>
</body></html>`

	text, err := PlainText(html)
	require.NoError(t, err)
	assert.Equal(t, "Alex Doe\n\nEngineer\nBerlin\n\n- Built X\n\n- Led Y", text)
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color")
}

func TestPlainText_PlainInput(t *testing.T) {
	text, err := PlainText("  Alex\tDoe \r\n\r\n\r\n Go, SQL  \n")
	require.NoError(t, err)
	assert.Equal(t, "Alex Doe\n\nGo, SQL", text)

	text, err = PlainText("Salary < 100k and > 50k")
	require.NoError(t, err)
	assert.Equal(t, "Salary < 100k and > 50k", text)
}

func TestExtractResume(t *testing.T) {
	client := new(mockClient)
	client.On("GenerateJSON", mock.Anything, promptContaining("expert resume parser", `"experience"`, "Alex Doe\n\n- Built X"), llm.TierStandard).
		Return("```json\n"+`{"personalInfo": {"name": "Alex Doe"}, "experience": [{"company": "Acme", "bullets": [{"text": "Built X"}]}], "skills": [{"name": "Go"}, {"name": "SQL"}]}`+"\n```", nil)

	content, err := NewService(client, nil).ExtractResume(context.Background(), types.ExtractRequest{
		ResumeText: "<h1>Alex Doe</h1><ul><li>Built X</li></ul>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alex Doe", content.PersonalInfo.Name)
	require.Len(t, content.Experience, 1)
	assert.NotEmpty(t, content.Experience[0].ID)
	assert.NotEmpty(t, content.Experience[0].Bullets[0].ID)
	assert.NotEqual(t, content.Skills[0].ID, content.Skills[1].ID)
	assert.NotNil(t, content.References)
	client.AssertExpectations(t)
}

func TestExtractResume_NonConformingFallsBackToEmpty(t *testing.T) {
	client := new(mockClient)
	client.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return(`{"experience": "lots"}`, nil)

	content, err := NewService(client, nil).ExtractResume(context.Background(), types.ExtractRequest{ResumeText: "Alex"})
	require.NoError(t, err)
	assert.Equal(t, types.NewResumeContent(), content)
}

func TestExtractResume_Errors(t *testing.T) {
	client := new(mockClient)
	svc := NewService(client, nil)

	_, err := svc.ExtractResume(context.Background(), types.ExtractRequest{ResumeText: "<p>  </p>"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	client.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return("no json here", nil)
	_, err = svc.ExtractResume(context.Background(), types.ExtractRequest{ResumeText: "Alex"})
	var assistErr *Error
	require.ErrorAs(t, err, &assistErr)
	assert.Equal(t, OpExtract, assistErr.Op)
}

func TestExtractResume_PromptFailure(t *testing.T) {
	client := new(mockClient)
	svc := NewService(client, nil)
	svc.extraction = func() llm.Extraction { return llm.Extraction{} }

	_, err := svc.ExtractResume(context.Background(), types.ExtractRequest{ResumeText: "Alex"})
	var assistErr *Error
	require.ErrorAs(t, err, &assistErr)
	assert.Equal(t, OpExtract, assistErr.Op)
	assert.Equal(t, "prompt unavailable", assistErr.Message)
	assert.ErrorIs(t, err, llm.ErrNoFields)
	client.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractResume_TruncatesLongInput(t *testing.T) {
	client := new(mockClient)
	client.On("GenerateJSON", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) < maxExtractChars+5000 && !strings.Contains(prompt, "TAIL")
	}), mock.Anything).Return(`{}`, nil)

	long := strings.Repeat("é", maxExtractChars) + "TAIL"
	_, err := NewService(client, nil).ExtractResume(context.Background(), types.ExtractRequest{ResumeText: long})
	require.NoError(t, err)
	client.AssertExpectations(t)
}
