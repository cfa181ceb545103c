package tailoring

import (
	"fmt"
	"strings"
)

const experienceRewritePrompt = `Rewrite the following resume experience description so it naturally mentions the skill "%s".

Rules:
- Only rephrase what is already stated. Do not invent projects, employers, metrics, dates, or accomplishments that are not in the original text.
- Mention "%s" only in connection with work the original text already describes.
- Keep the same tone and roughly the same length.
- Return only the rewritten description, no preamble and no markdown.

Position: %s at %s

Original description:
%s`

func buildRewritePrompt(keyword, title, company, description string) string {
	if company == "" {
		company = "the same company"
	}
	return fmt.Sprintf(experienceRewritePrompt, keyword, keyword, title, company, strings.TrimSpace(description))
}
