// Package assist generates and rewrites resume text with a language model.
//
// Each operation is a single request and response. Results are returned to the caller
// and never applied to an editor directly; see ApplySummary, ApplyBullets and ApplySkills.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// Operation names used in errors and logs
const (
	OpSummary = "summary"
	OpBullets = "bullets"
	OpRewrite = "rewrite"
	OpSkills  = "skills"
	OpTailor  = "tailor"
	OpExtract = "extract"
)

// Service runs assist operations against an llm.Client
type Service struct {
	client     llm.Client
	logger     *zap.Logger
	extraction func() llm.Extraction
}

// NewService creates a Service. The client is usually an *llm.BreakerClient.
func NewService(client llm.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger, extraction: llm.ResumeExtraction}
}

// GenerateSummary writes a professional summary from the personal info, experience and skills
func (s *Service) GenerateSummary(ctx context.Context, req types.SummaryRequest) (*types.SummaryResponse, error) {
	if types.Blank(req.PersonalInfo.Name) && len(req.Experience) == 0 && len(req.Skills) == 0 {
		return nil, invalid(OpSummary, "add a name, experience or skills before generating a summary")
	}

	var out types.SummaryResponse
	err := s.generateJSON(ctx, OpSummary, prompts.KeySummary, llm.TierStandard, map[string]string{
		"Name":       req.PersonalInfo.Name,
		"Summary":    req.PersonalInfo.Summary,
		"Experience": experienceText(req.Experience),
		"Skills":     skillNames(req.Skills),
	}, &out)
	if err != nil {
		return nil, err
	}

	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		return nil, badResponse(OpSummary, errors.New("empty summary"))
	}
	return &out, nil
}

// GenerateBullets suggests bullet points for a role
func (s *Service) GenerateBullets(ctx context.Context, req types.BulletsRequest) (*types.BulletsResponse, error) {
	if types.Blank(req.Role) {
		return nil, invalid(OpBullets, "role is required")
	}

	var out types.BulletsResponse
	err := s.generateJSON(ctx, OpBullets, prompts.KeyBullets, llm.TierLite, map[string]string{
		"Role":    strings.TrimSpace(req.Role),
		"Company": strings.TrimSpace(req.Company),
	}, &out)
	if err != nil {
		return nil, err
	}

	out.Bullets = cleanLines(out.Bullets)
	if len(out.Bullets) == 0 {
		return nil, badResponse(OpBullets, errors.New("no bullets"))
	}
	return &out, nil
}

// RewriteBullet rewrites one bullet point
func (s *Service) RewriteBullet(ctx context.Context, req types.RewriteRequest) (*types.RewriteResponse, error) {
	if types.Blank(req.Text) {
		return nil, invalid(OpRewrite, "text is required")
	}

	var out types.RewriteResponse
	err := s.generateJSON(ctx, OpRewrite, prompts.KeyRewrite, llm.TierLite, map[string]string{
		"Role": strings.TrimSpace(req.Role),
		"Text": strings.TrimSpace(req.Text),
	}, &out)
	if err != nil {
		return nil, err
	}

	out.Text = trimBullet(out.Text)
	if out.Text == "" {
		return nil, badResponse(OpRewrite, errors.New("empty text"))
	}
	return &out, nil
}

// SuggestSkills suggests skills for a role that are not already listed
func (s *Service) SuggestSkills(ctx context.Context, req types.SkillsRequest) (*types.SkillsResponse, error) {
	if types.Blank(req.Role) {
		return nil, invalid(OpSkills, "role is required")
	}

	var out types.SkillsResponse
	err := s.generateJSON(ctx, OpSkills, prompts.KeySkills, llm.TierLite, map[string]string{
		"Role":   strings.TrimSpace(req.Role),
		"Skills": strings.Join(req.Skills, ", "),
	}, &out)
	if err != nil {
		return nil, err
	}

	out.Skills = newSkills(req.Skills, out.Skills)
	return &out, nil
}

// TailorResume returns free-text suggestions for fitting a resume to a job description
func (s *Service) TailorResume(ctx context.Context, req types.TailorRequest) (*types.TailorResponse, error) {
	if types.Blank(req.JobDescription) {
		return nil, invalid(OpTailor, "job description is required")
	}

	prompt, err := prompts.Render(prompts.AssistFile, prompts.KeyTailor, map[string]string{
		"JobDescription": strings.TrimSpace(req.JobDescription),
		"Resume":         resumeText(&req.ResumeContent),
	})
	if err != nil {
		return nil, &Error{Op: OpTailor, Message: "prompt unavailable", Cause: err}
	}

	text, err := s.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		s.logFailure(OpTailor, err)
		return nil, callFailed(OpTailor, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, badResponse(OpTailor, errors.New("empty suggestions"))
	}
	return &types.TailorResponse{Suggestions: text}, nil
}

// generateJSON renders a prompt, calls the model and decodes its JSON answer into out
func (s *Service) generateJSON(ctx context.Context, op, key string, tier llm.ModelTier, data map[string]string, out any) error {
	prompt, err := prompts.Render(prompts.AssistFile, key, data)
	if err != nil {
		return &Error{Op: op, Message: "prompt unavailable", Cause: err}
	}

	resp, err := s.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		s.logFailure(op, err)
		return callFailed(op, err)
	}

	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), out); err != nil {
		s.logger.Warn("assist response is not valid JSON", zap.String("op", op), zap.Error(err))
		return badResponse(op, err)
	}
	return nil
}

func (s *Service) logFailure(op string, err error) {
	s.logger.Warn("assist call failed",
		zap.String("op", op),
		zap.Bool("unavailable", errors.Is(err, llm.ErrUnavailable)),
		zap.Error(err))
}
