package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ResumeRequest is the body of create and update. Content is checked against the
// content schema; display falls back to defaults field by field.
type ResumeRequest struct {
	Title   string          `json:"title" validate:"max=200"`
	Content json.RawMessage `json:"content"`
	Display json.RawMessage `json:"display,omitempty"`
}

// ExportResponse is returned when the PDF was uploaded to object storage
type ExportResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

func (s *Server) resumeDocument(req *ResumeRequest) (string, *types.ResumeContent, types.DisplayConfig, error) {
	raw := req.Content
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage(`{}`)
	}
	content, err := resume.ValidateContent(raw)
	if err != nil {
		return "", nil, types.DisplayConfig{}, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = editor.DefaultTitle
	}
	return title, content, s.displayConfig(req.Display), nil
}

// handleListResumes lists the user's resumes, most recently updated first
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = min(n, maxListLimit)
	}

	list, err := s.resumes.ListResumes(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []types.ResumeSummary{}
	}
	jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req ResumeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	title, content, display, err := s.resumeDocument(&req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.resumes.CreateResume(r.Context(), userID, title, content, display)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// loadResume fetches the {id} resume of the authenticated user, writing errors itself
func (s *Server) loadResume(w http.ResponseWriter, r *http.Request) (*types.Resume, bool) {
	userID, ok := s.userID(w, r)
	if !ok {
		return nil, false
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}

	res, err := s.resumes.GetResume(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	if res == nil {
		s.writeError(w, r, editor.ErrResumeNotFound)
		return nil, false
	}
	return res, true
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req ResumeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	title, content, display, err := s.resumeDocument(&req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.resumes.UpdateResume(r.Context(), userID, id, title, content, display)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if updated == nil {
		s.writeError(w, r, editor.ErrResumeNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	deleted, err := s.resumes.DeleteResume(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, r, editor.ErrResumeNotFound)
		return
	}

	// An open editor bound to the deleted resume would save into nothing
	if e, open := s.editors.Get(userID); open {
		if snap := e.Snapshot(); snap.ResumeID != nil && *snap.ResumeID == id {
			s.editors.Close(userID)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePreviewResume renders a saved resume as HTML; ?mode=export hides placeholders
func (s *Server) handlePreviewResume(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	mode := rendering.ParseMode(r.URL.Query().Get("mode"))
	out, err := rendering.Render(&res.Content, res.Display, rendering.Options{Mode: mode, Title: res.Title})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	htmlResponse(w, out.HTML)
}

// handleExportResume returns the PDF, or a download link when object storage is configured
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	res, ok := s.loadResume(w, r)
	if !ok {
		return
	}

	result, err := s.export.PDF(r.Context(), export.Document{
		UserID:   res.UserID,
		ResumeID: res.ID,
		Title:    res.Title,
		Content:  &res.Content,
		Display:  res.Display,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if result.URL != "" {
		jsonResponse(w, http.StatusOK, ExportResponse{URL: result.URL, Filename: result.Filename})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.PDF); err != nil {
		s.logger.Debug("pdf write aborted", zap.Error(err))
	}
}

func htmlResponse(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// parseUUIDField parses an optional id from a request body
func parseUUIDField(field, value string) (*uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, &ErrValidation{Field: field, Message: "must be a UUID"}
	}
	return &id, nil
}
