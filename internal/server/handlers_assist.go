package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/types"
)

var errAssistDisabled = fmt.Errorf("no language model configured: %w", llm.ErrUnavailable)

// AssistResponse carries an assist result. Editor is set when ?apply=true spliced the
// result into the user's editor.
type AssistResponse struct {
	Result any             `json:"result"`
	Editor *EditorResponse `json:"editor,omitempty"`
}

// splicer turns an assist result into editor changes
type splicer[Resp any] func(r *http.Request, e *editor.Editor, resp Resp) ([]editor.Change, error)

// runAssist decodes the request, runs the operation and optionally applies the result
func runAssist[Req, Resp any](s *Server, w http.ResponseWriter, r *http.Request, op string,
	call func(context.Context, Req) (Resp, error), splice splicer[Resp]) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	if s.assist == nil {
		s.writeError(w, r, &assist.Error{Op: op, Message: "the AI assistant is not configured", Cause: errAssistDisabled})
		return
	}

	var req Req
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	apply, _ := strconv.ParseBool(r.URL.Query().Get("apply"))

	result, err := call(r.Context(), req)
	metrics.ObserveAssist(op, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := AssistResponse{Result: result}
	if apply && splice != nil {
		e := s.editors.GetOrOpen(r.Context(), userID)
		changes, err := splice(r, e, result)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		state, err := s.apply(r, e, changes)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if len(changes) == 0 {
			state.Snapshot = e.Snapshot()
		}
		resp.Editor = &state
	}
	jsonResponse(w, http.StatusOK, resp)
}

// requireQuery returns a required query parameter used when applying a result
func requireQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", &ErrValidation{Field: name, Message: "is required when apply=true"}
	}
	return v, nil
}

func (s *Server) handleAssistSummary(w http.ResponseWriter, r *http.Request) {
	runAssist(s, w, r, assist.OpSummary, s.assist.GenerateSummary,
		func(_ *http.Request, _ *editor.Editor, resp *types.SummaryResponse) ([]editor.Change, error) {
			return []editor.Change{assist.ApplySummary(resp)}, nil
		})
}

func (s *Server) handleAssistBullets(w http.ResponseWriter, r *http.Request) {
	runAssist(s, w, r, assist.OpBullets, s.assist.GenerateBullets,
		func(r *http.Request, _ *editor.Editor, resp *types.BulletsResponse) ([]editor.Change, error) {
			expID, err := requireQuery(r, "experience_id")
			if err != nil {
				return nil, err
			}
			return assist.ApplyBullets(expID, resp), nil
		})
}

func (s *Server) handleAssistRewrite(w http.ResponseWriter, r *http.Request) {
	runAssist(s, w, r, assist.OpRewrite, s.assist.RewriteBullet,
		func(r *http.Request, _ *editor.Editor, resp *types.RewriteResponse) ([]editor.Change, error) {
			expID, err := requireQuery(r, "experience_id")
			if err != nil {
				return nil, err
			}
			bulletID, err := requireQuery(r, "bullet_id")
			if err != nil {
				return nil, err
			}
			return []editor.Change{assist.ApplyRewrite(expID, bulletID, resp)}, nil
		})
}

func (s *Server) handleAssistSkills(w http.ResponseWriter, r *http.Request) {
	runAssist(s, w, r, assist.OpSkills, s.assist.SuggestSkills,
		func(_ *http.Request, e *editor.Editor, resp *types.SkillsResponse) ([]editor.Change, error) {
			return assist.ApplySkills(e.Snapshot().Content, resp)
		})
}

// handleAssistTailor only returns suggestions; there is nothing to splice
func (s *Server) handleAssistTailor(w http.ResponseWriter, r *http.Request) {
	runAssist[types.TailorRequest, *types.TailorResponse](s, w, r, assist.OpTailor, s.assist.TailorResume, nil)
}

func (s *Server) handleAssistExtract(w http.ResponseWriter, r *http.Request) {
	runAssist(s, w, r, assist.OpExtract, s.assist.ExtractResume,
		func(_ *http.Request, _ *editor.Editor, content *types.ResumeContent) ([]editor.Change, error) {
			return []editor.Change{assist.ApplyExtracted(content)}, nil
		})
}
