package rendering

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laudatorai/internal/types"
)

var testInfo = types.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"}

func testResumeContent() *types.ParsedResume {
	return &types.ParsedResume{
		Contact: types.ContactInfo{Name: "Jane Doe", Email: "jane@example.com"},
		Summary: "Seasoned backend engineer.",
		Experience: []types.ExperienceEntry{
			{Title: "Engineer", Company: "Initech", Duration: "2019-2024", Description: "Built Go services."},
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "BSc Computer Science"},
		},
		Skills:         []string{"Go", "Postgres"},
		Certifications: []string{"CKA"},
		Projects: []types.ProjectEntry{
			{Title: "laudator", Description: "Pipeline tooling."},
		},
	}
}

// documentXML pulls word/document.xml out of the docx zip so content can
// be compared without the archive metadata.
func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	t.Fatal("word/document.xml not found")
	return ""
}

func TestResumeDOCX_ContainsAllSections(t *testing.T) {
	data, err := ResumeDOCX(testResumeContent(), testInfo)
	require.NoError(t, err)

	xml := documentXML(t, data)
	for _, expected := range []string{
		"Jane Doe", "jane@example.com",
		"Summary", "Seasoned backend engineer.",
		"Experience", "Engineer - Initech (2019-2024)", "Built Go services.",
		"Education", "BSc Computer Science, State University",
		"Skills", "Go, Postgres",
		"Certifications", "CKA",
		"Projects", "laudator",
	} {
		assert.Contains(t, xml, expected)
	}
}

func TestResumeDOCX_Deterministic(t *testing.T) {
	first, err := ResumeDOCX(testResumeContent(), testInfo)
	require.NoError(t, err)
	second, err := ResumeDOCX(testResumeContent(), testInfo)
	require.NoError(t, err)

	assert.Equal(t, documentXML(t, first), documentXML(t, second))
}

func TestResumeDOCX_SkipsEmptySections(t *testing.T) {
	content := &types.ParsedResume{
		Contact: types.ContactInfo{Name: "Jane Doe"},
		Skills:  []string{"Go"},
	}
	data, err := ResumeDOCX(content, types.PersonalInfo{})
	require.NoError(t, err)

	xml := documentXML(t, data)
	assert.Contains(t, xml, "Skills")
	assert.NotContains(t, xml, "Experience")
	assert.NotContains(t, xml, "Certifications")
}

func TestResumeDOCX_MissingName(t *testing.T) {
	_, err := ResumeDOCX(&types.ParsedResume{}, types.PersonalInfo{})
	require.Error(t, err)

	var re *RenderError
	assert.ErrorAs(t, err, &re)
}

func TestCoverLetterDOCX(t *testing.T) {
	content := &types.CoverLetterContent{
		Greeting:  "Dear Hiring Manager,",
		Opening:   "I am excited to apply.",
		Body:      "First body paragraph.\n\nSecond body paragraph.",
		Closing:   "Thank you for your consideration.",
		Signature: "Sincerely,\nJane Doe",
	}
	job := &types.NormalizedJob{Title: "Senior Engineer", Company: "Acme"}
	date := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

	data, err := CoverLetterDOCX(content, job, testInfo, date)
	require.NoError(t, err)

	xml := documentXML(t, data)
	for _, expected := range []string{
		"Jane Doe", "March 14, 2025",
		"Acme", "Re: Senior Engineer",
		"Dear Hiring Manager,",
		"First body paragraph.", "Second body paragraph.",
		"Thank you for your consideration.",
		"Sincerely,",
	} {
		assert.Contains(t, xml, expected)
	}
}

func TestCoverLetterDOCX_NilContent(t *testing.T) {
	_, err := CoverLetterDOCX(nil, nil, testInfo, time.Now())
	assert.Error(t, err)
}
