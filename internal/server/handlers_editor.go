package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// OpenEditorRequest opens the editor, optionally on a saved resume
type OpenEditorRequest struct {
	ResumeID string `json:"resume_id,omitempty"`
}

// SaveEditorRequest saves the editor; blank fields keep the current values
type SaveEditorRequest struct {
	Title   string               `json:"title,omitempty" validate:"max=200"`
	Display *types.DisplayConfig `json:"display,omitempty"`
}

// EditorResponse is the editor state, plus a warning when the draft could not be kept
type EditorResponse struct {
	editor.Snapshot
	Warning string `json:"warning,omitempty"`
}

const draftWarning = "your changes could not be saved locally and may be lost if you leave"

const prefillShadowedWarning = "an unsaved draft exists and will be restored instead; start a new resume to use the import"

// PrefillResponse is returned when an import is stored behind an existing draft
type PrefillResponse struct {
	Pending bool   `json:"pending"`
	Warning string `json:"warning,omitempty"`
}

// handleOpenEditor starts a fresh editor session for the user. Without a resume id the
// content comes from the draft, then a pending prefill, then defaults.
func (s *Server) handleOpenEditor(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req OpenEditorRequest
	if r.ContentLength != 0 {
		if err := s.decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	resumeID, err := parseUUIDField("resume_id", req.ResumeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e, snap := s.editors.Open(r.Context(), userID)
	if resumeID != nil {
		snap, err = e.LoadRemote(r.Context(), *resumeID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	jsonResponse(w, http.StatusOK, EditorResponse{Snapshot: snap})
}

func (s *Server) handleGetEditor(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	e := s.editors.GetOrOpen(r.Context(), userID)
	jsonResponse(w, http.StatusOK, EditorResponse{Snapshot: e.Snapshot()})
}

// decodeChanges accepts a single change object or an array of changes
func (s *Server) decodeChanges(w http.ResponseWriter, r *http.Request) ([]editor.Change, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, &ErrValidation{Field: "body", Message: "at least one change is required"}
	}

	var changes []editor.Change
	if body[0] == '[' {
		err = json.Unmarshal(body, &changes)
	} else {
		var ch editor.Change
		err = json.Unmarshal(body, &ch)
		changes = []editor.Change{ch}
	}
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if len(changes) == 0 {
		return nil, &ErrValidation{Field: "body", Message: "at least one change is required"}
	}
	return changes, nil
}

// handleApplyChanges applies edits in order and stops at the first rejected one.
// A failed draft write keeps the edit and is reported as a warning.
func (s *Server) handleApplyChanges(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	changes, err := s.decodeChanges(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e := s.editors.GetOrOpen(r.Context(), userID)
	s.applyChanges(w, r, e, changes)
}

func (s *Server) applyChanges(w http.ResponseWriter, r *http.Request, e *editor.Editor, changes []editor.Change) {
	resp, err := s.apply(r, e, changes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) apply(r *http.Request, e *editor.Editor, changes []editor.Change) (EditorResponse, error) {
	var resp EditorResponse
	for _, ch := range changes {
		snap, err := e.Apply(r.Context(), ch)
		if err != nil {
			var draftErr *editor.DraftError
			if !errors.As(err, &draftErr) {
				return resp, err
			}
			resp.Warning = draftWarning
		}
		resp.Snapshot = snap
	}
	return resp, nil
}

func (s *Server) handleSaveEditor(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req SaveEditorRequest
	if r.ContentLength != 0 {
		if err := s.decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	e := s.editors.GetOrOpen(r.Context(), userID)
	snap, err := e.Save(r.Context(), req.Title, req.Display)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, EditorResponse{Snapshot: snap})
}

// handleResetEditor starts a new resume. The reset happens even when clearing the
// draft fails.
func (s *Server) handleResetEditor(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	e := s.editors.GetOrOpen(r.Context(), userID)
	snap, err := e.Reset(r.Context())
	resp := EditorResponse{Snapshot: snap}
	if err != nil {
		s.logger.Warn("editor reset left stale draft", zap.String("user_id", userID.String()), zap.Error(err))
		resp.Warning = draftWarning
	}
	jsonResponse(w, http.StatusOK, resp)
}

// handlePrefill stores an import payload that the next editor open will apply. When a
// local draft exists the draft wins, so the response is 202 with a warning instead of 204.
func (s *Server) handlePrefill(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e := s.editors.GetOrOpen(r.Context(), userID)
	shadowed, err := e.SetPrefill(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if shadowed {
		jsonResponse(w, http.StatusAccepted, PrefillResponse{Pending: true, Warning: prefillShadowedWarning})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePreviewEditor renders the editor state; ?mode=export hides placeholders
func (s *Server) handlePreviewEditor(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	e := s.editors.GetOrOpen(r.Context(), userID)
	out, err := e.Preview(rendering.ParseMode(r.URL.Query().Get("mode")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	htmlResponse(w, out.HTML)
}
