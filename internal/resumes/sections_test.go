package resumes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com
(555) 123-4567
42 Elm Street, Springfield

Summary
Backend engineer with a decade of
distributed systems work.

Experience
Senior Engineer - Acme Corp
Built payment services in Go.
Scaled them to millions of users.
Engineer at Initech
Maintained billing pipeline.

Education
State University

Skills
Go, PostgreSQL, Kubernetes

Certifications
CKA

Projects
Side Project
• CLI tool for tracking expenses

Languages
English, Spanish
`

func TestExtractSections_FullResume(t *testing.T) {
	parsed := ExtractSections(sampleResume)

	assert.Equal(t, "jane.doe@example.com", parsed.Contact.Email)
	assert.Equal(t, "(555) 123-4567", parsed.Contact.Phone)
	assert.Contains(t, parsed.Contact.Address, "Elm Street")

	assert.Contains(t, parsed.Summary, "Backend engineer")
	assert.Contains(t, parsed.Summary, "distributed systems")

	require.Len(t, parsed.Experience, 2)
	assert.Equal(t, "Senior Engineer - Acme Corp", parsed.Experience[0].Title)
	assert.Contains(t, parsed.Experience[0].Description, "payment services")
	assert.Contains(t, parsed.Experience[0].Description, "millions of users")
	assert.Equal(t, "Engineer at Initech", parsed.Experience[1].Title)

	require.Len(t, parsed.Education, 1)
	assert.Equal(t, "State University", parsed.Education[0].Institution)

	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, parsed.Skills)
	assert.Equal(t, []string{"CKA"}, parsed.Certifications)

	require.Len(t, parsed.Projects, 1)
	assert.Equal(t, "Side Project", parsed.Projects[0].Title)
	assert.Contains(t, parsed.Projects[0].Description, "CLI tool")

	assert.Equal(t, []string{"English", "Spanish"}, parsed.Languages)
	assert.Equal(t, sampleResume, parsed.RawText)
}

func TestExtractSections_Empty(t *testing.T) {
	parsed := ExtractSections("")
	assert.Empty(t, parsed.Experience)
	assert.Empty(t, parsed.Skills)
	assert.Empty(t, parsed.Summary)
}

func TestExtractSections_PhoneOnlyBeforeSections(t *testing.T) {
	text := "Experience\nManager - Shop\n2015 - 2019 ran operations for 1000000 customers\n"
	parsed := ExtractSections(text)
	assert.Empty(t, parsed.Contact.Phone)
}

func TestDetectHeading(t *testing.T) {
	assert.Equal(t, "experience", detectHeading("Work History"))
	assert.Equal(t, "summary", detectHeading("Professional Profile"))
	assert.Equal(t, "", detectHeading("Shipped a feature"))
	// long prose lines never count as headings
	assert.Equal(t, "", detectHeading("I have twelve years of professional experience in retail"))
}
