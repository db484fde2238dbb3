package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

type fakeConverter struct {
	html []string
	err  error
}

func (f *fakeConverter) HTMLToPDF(_ context.Context, html string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.html = append(f.html, html)
	return []byte("%PDF-1.7 fake"), nil
}

type fakeUploader struct {
	objects   map[string][]byte
	uploadErr error
}

func (f *fakeUploader) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

func (f *fakeUploader) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	return "https://files.example/" + key + "?exp=" + expiry.String(), nil
}

func sampleDocument() Document {
	content := types.NewResumeContent()
	content.PersonalInfo.Name = "Jane Doe"
	content.Skills = []types.Skill{{ID: "s1", Name: "Go"}}
	return Document{
		UserID:   uuid.New(),
		ResumeID: uuid.New(),
		Title:    "Jane Doe - Resume",
		Content:  content,
		Display:  resume.DefaultDisplayConfig(),
	}
}

func TestPDF_WithoutUploader(t *testing.T) {
	conv := &fakeConverter{}
	svc := NewService(conv, nil, 0, nil)

	res, err := svc.PDF(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.7 fake"), res.PDF)
	assert.Equal(t, "jane-doe-resume.pdf", res.Filename)
	assert.Empty(t, res.URL)
	require.Len(t, conv.html, 1)
	assert.Contains(t, conv.html[0], "Jane Doe")
	assert.NotContains(t, conv.html[0], "Your Name")
}

func TestPDF_Uploads(t *testing.T) {
	up := &fakeUploader{}
	svc := NewService(&fakeConverter{}, up, time.Minute, nil)
	doc := sampleDocument()

	res, err := svc.PDF(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, up.objects, 1)
	assert.True(t, strings.HasPrefix(res.Key, "exports/"+doc.UserID.String()+"/"+doc.ResumeID.String()+"/"))
	assert.Contains(t, res.URL, res.Key)
	assert.Equal(t, up.objects[res.Key], res.PDF)
}

func TestPDF_UploadFailureStillReturnsBytes(t *testing.T) {
	svc := NewService(&fakeConverter{}, &fakeUploader{uploadErr: errors.New("bucket gone")}, time.Minute, nil)

	res, err := svc.PDF(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.NotEmpty(t, res.PDF)
	assert.Empty(t, res.URL)
}

func TestPDF_Errors(t *testing.T) {
	_, err := NewService(nil, nil, 0, nil).PDF(context.Background(), sampleDocument())
	assert.ErrorIs(t, err, ErrNoConverter)

	cause := errors.New("chrome crashed")
	_, err = NewService(&fakeConverter{err: cause}, nil, 0, nil).PDF(context.Background(), sampleDocument())
	var exportErr *Error
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "convert", exportErr.Op)
	assert.ErrorIs(t, err, cause)
}

func TestRenderAll(t *testing.T) {
	svc := NewService(nil, nil, 0, nil)
	doc := sampleDocument()

	variants, err := svc.RenderAll(context.Background(), doc.Content, doc.Display, doc.Title, FormatHTML)
	require.NoError(t, err)

	catalog := rendering.ListTemplates()
	require.Len(t, variants, len(catalog))
	for i, v := range variants {
		assert.Equal(t, catalog[i].Name, v.Template)
		assert.Contains(t, string(v.Data), "Jane Doe")
	}
}

func TestRenderAll_PDFNeedsConverter(t *testing.T) {
	doc := sampleDocument()
	_, err := NewService(nil, nil, 0, nil).RenderAll(context.Background(), doc.Content, doc.Display, doc.Title, FormatPDF)
	assert.ErrorIs(t, err, ErrNoConverter)
}

func TestRender_Formats(t *testing.T) {
	svc := NewService(&fakeConverter{}, nil, 0, nil)
	doc := sampleDocument()

	tex, err := svc.Render(context.Background(), doc.Content, doc.Display, doc.Title, FormatLaTeX)
	require.NoError(t, err)
	assert.Contains(t, string(tex), `\documentclass`)

	pdf, err := svc.Render(context.Background(), doc.Content, doc.Display, doc.Title, FormatPDF)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	_, err = svc.Render(context.Background(), doc.Content, doc.Display, doc.Title, "docx")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title, ext, want string
	}{
		{"Jane Doe - Resume", "pdf", "jane-doe-resume.pdf"},
		{"  ", "pdf", "resume.pdf"},
		{"Backend / Go!", "html", "backend-go.html"},
		{"Résumé 2024", "latex", "résumé-2024.tex"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.title, tt.ext), tt.title)
	}
}
