package assist

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
	"go.uber.org/zap"
)

// maxExtractChars bounds the resume text sent to the model
const maxExtractChars = 30000

var (
	htmlTag      = regexp.MustCompile(`(?i)<\s*(html|body|div|p|ul|ol|li|h[1-6]|br|table|span|section)\b`)
	spaceRun     = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blockTags    = "p, div, section, article, header, footer, h1, h2, h3, h4, h5, h6, tr, ul, ol, table"
	droppedNodes = "script, style, noscript, head, svg"
)

// ExtractResume structures raw resume text (plain text or HTML) into ResumeContent.
// The model output is validated like any other content, so ids are always assigned and
// a malformed answer yields empty content rather than an error.
func (s *Service) ExtractResume(ctx context.Context, req types.ExtractRequest) (*types.ResumeContent, error) {
	text, err := PlainText(req.ResumeText)
	if err != nil {
		return nil, &Error{Op: OpExtract, Message: "could not read the resume text", Cause: errors.Join(ErrInvalidRequest, err)}
	}
	if text == "" {
		return nil, invalid(OpExtract, "resume text is required")
	}
	if len(text) > maxExtractChars {
		cut := maxExtractChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	extraction := s.extraction()
	if instructions, err := prompts.Get(prompts.AssistFile, prompts.KeyExtract); err == nil {
		extraction.Instructions = instructions
	}
	prompt, err := extraction.Prompt(text)
	if err != nil {
		return nil, &Error{Op: OpExtract, Message: "prompt unavailable", Cause: err}
	}

	resp, err := s.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		s.logFailure(OpExtract, err)
		return nil, callFailed(OpExtract, err)
	}

	raw := []byte(llm.CleanJSONBlock(resp))
	if !json.Valid(raw) {
		return nil, badResponse(OpExtract, errors.New("response is not JSON"))
	}

	content, err := resume.ContentOrEmpty(raw)
	if err != nil {
		s.logger.Warn("extracted content does not conform, using empty content", zap.Error(err))
	}
	return content, nil
}

// PlainText returns the readable text of input. HTML is flattened with one line per
// block element and "- " before list items; plain text only has its whitespace tidied.
func PlainText(input string) (string, error) {
	if !htmlTag.MatchString(input) {
		return tidyLines(input), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", err
	}
	doc.Find(droppedNodes).Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		li.PrependHtml("\n- ")
		li.AppendHtml("\n")
	})
	doc.Find(blockTags).Each(func(_ int, block *goquery.Selection) {
		block.PrependHtml("\n")
		block.AppendHtml("\n")
	})
	doc.Find("td, th").AppendHtml(" ")

	return tidyLines(doc.Find("body").Text()), nil
}

// tidyLines collapses runs of spaces, trims every line and drops repeated blank lines
func tidyLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
