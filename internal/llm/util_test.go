package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"bare fence", "```\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"other language tag", "```javascript\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"plain JSON untouched", `{"key": "value"}`, `{"key": "value"}`},
		{"surrounding whitespace", "  \n{\"key\": \"value\"}\n  ", `{"key": "value"}`},
		{"multiline object in fence", "```\n{\n\"key\": \"value\"\n}\n```", "{\n\"key\": \"value\"\n}"},
		{"fence on one line", "```{\"key\": 1}```", `{"key": 1}`},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestLooksLikeLanguageTag(t *testing.T) {
	assert.True(t, looksLikeLanguageTag("json"))
	assert.True(t, looksLikeLanguageTag(""))
	assert.False(t, looksLikeLanguageTag(`{"key": "value"}`))
	assert.False(t, looksLikeLanguageTag("some prose line"))
}
