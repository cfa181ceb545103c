package llm

import "strings"

// CleanJSONBlock strips a markdown code fence from a model response.
// Models often wrap JSON in ```json fences even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if tag, rest, ok := strings.Cut(text, "\n"); ok && looksLikeLanguageTag(tag) {
		text = rest
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// A language tag is a short first line with no spaces and no JSON content.
func looksLikeLanguageTag(line string) bool {
	return len(line) < 20 && !strings.ContainsAny(line, " {")
}
