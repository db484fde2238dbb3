package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

// RenderRequest renders content that is not stored anywhere
type RenderRequest struct {
	Content json.RawMessage `json:"content"`
	Display json.RawMessage `json:"display,omitempty"`
	Mode    string          `json:"mode,omitempty" validate:"omitempty,oneof=preview export"`
	Format  string          `json:"format,omitempty" validate:"omitempty,oneof=html latex"`
	Title   string          `json:"title,omitempty"`
}

// handleListTemplates returns the template catalog
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, rendering.ListTemplates())
}

// handleRender renders posted content. Content that does not conform renders as an
// empty resume, matching what the editor shows for a broken draft.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	content, err := resume.ContentOrEmpty(req.Content)
	if err != nil {
		s.logger.Debug("rendering empty content", zap.Error(err))
	}
	display := s.displayConfig(req.Display)

	if req.Format == export.FormatLaTeX {
		tex, err := rendering.RenderLaTeX(content, display)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/x-tex; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(tex))
		return
	}

	out, err := rendering.Render(content, display, rendering.Options{
		Mode:  rendering.ParseMode(req.Mode),
		Title: req.Title,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	htmlResponse(w, out.HTML)
}

// displayConfig resolves a posted display configuration. Values that fall back to
// defaults are logged, never rejected.
func (s *Server) displayConfig(raw json.RawMessage) types.DisplayConfig {
	if fields := resume.DisplayFallbacks(raw); len(fields) > 0 {
		s.logger.Warn("display settings replaced by defaults", zap.Strings("fields", fields))
	}
	return resume.ValidateDisplayConfig(raw)
}
