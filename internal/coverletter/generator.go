// Package coverletter produces a structured cover letter from a job and
// a tailored resume through the LLM client. A strict JSON decode of the
// model response is attempted first, with a plain-text paragraph split as
// fallback so a malformed-but-usable response still yields a letter.
package coverletter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/laudatorai/internal/llm"
	"github.com/jonathan/laudatorai/internal/types"
)

// Generator drives the LLM to produce cover letter content.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a cover letter generator backed by an LLM client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate builds the prompt, calls the model, and parses the response.
// A model call error surfaces as *Error; malformed but non-empty output
// is recovered through ParseResponse.
func (g *Generator) Generate(ctx context.Context, job *types.NormalizedJob, resume *types.ParsedResume, info types.PersonalInfo) (*types.CoverLetterContent, error) {
	if job == nil {
		return nil, &Error{Message: "no normalized job content"}
	}
	if resume == nil {
		return nil, &Error{Message: "no parsed resume content"}
	}

	prompt := buildPrompt(job, resume, info)

	response, err := g.client.CompleteJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &Error{Message: "model call", Cause: err}
	}
	if strings.TrimSpace(response) == "" {
		return nil, &Error{Message: "model returned empty response"}
	}

	return ParseResponse(response, info), nil
}

// ParseResponse turns a model response into structured content. Strict
// JSON decode first; otherwise the text is split on blank lines with the
// first paragraph as opening and the last as closing.
func ParseResponse(response string, info types.PersonalInfo) *types.CoverLetterContent {
	cleaned := llm.CleanJSONBlock(response)

	var content types.CoverLetterContent
	if err := json.Unmarshal([]byte(cleaned), &content); err == nil {
		fillDefaults(&content, info)
		return &content
	}

	return splitPlainText(response, info)
}

func fillDefaults(content *types.CoverLetterContent, info types.PersonalInfo) {
	if content.Greeting == "" {
		content.Greeting = "Dear Hiring Manager,"
	}
	if content.Signature == "" {
		content.Signature = "Sincerely,\n" + info.Name
	}
	content.Signature = strings.ReplaceAll(content.Signature, "[Name]", info.Name)
}

func splitPlainText(text string, info types.PersonalInfo) *types.CoverLetterContent {
	var paragraphs []string
	for _, p := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	content := &types.CoverLetterContent{
		Greeting:  "Dear Hiring Manager,",
		Signature: "Sincerely,\n" + info.Name,
	}
	switch {
	case len(paragraphs) == 0:
	case len(paragraphs) == 1:
		content.Opening = paragraphs[0]
	case len(paragraphs) == 2:
		content.Opening = paragraphs[0]
		content.Closing = paragraphs[1]
	default:
		content.Opening = paragraphs[0]
		content.Body = strings.Join(paragraphs[1:len(paragraphs)-1], "\n\n")
		content.Closing = paragraphs[len(paragraphs)-1]
	}
	return content
}
