package types

import (
	"time"

	"github.com/google/uuid"
)

// Resume status values
const (
	ResumeStatusPending = "pending"
	ResumeStatusParsed  = "parsed"
	ResumeStatusFailed  = "failed"
)

// Resume represents an uploaded resume file. Uploads with identical bytes
// resolve to the same record via ContentHash.
type Resume struct {
	ID           uuid.UUID     `json:"id"`
	Filename     string        `json:"filename"`
	ContentHash  string        `json:"content_hash"`
	StoragePath  string        `json:"storage_path"`
	Parsed       *ParsedResume `json:"parsed_content,omitempty"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ContactInfo holds contact details detected in a resume.
type ContactInfo struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ExperienceEntry is one position in the experience section.
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is one entry in the education section.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
}

// ProjectEntry is one entry in the projects section.
type ProjectEntry struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ParsedResume is the structured content extracted from a resume file.
// The same shape is used for tailored output.
type ParsedResume struct {
	Contact        ContactInfo       `json:"contact"`
	Summary        string            `json:"summary,omitempty"`
	Experience     []ExperienceEntry `json:"experience,omitempty"`
	Education      []EducationEntry  `json:"education,omitempty"`
	Skills         []string          `json:"skills,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	Projects       []ProjectEntry    `json:"projects,omitempty"`
	Languages      []string          `json:"languages,omitempty"`
	RawText        string            `json:"raw_text,omitempty"`
}

// Clone returns a deep copy so tailoring can rewrite content in place
// without mutating the stored parse result.
func (p *ParsedResume) Clone() *ParsedResume {
	if p == nil {
		return nil
	}
	out := *p
	out.Experience = append([]ExperienceEntry(nil), p.Experience...)
	out.Education = append([]EducationEntry(nil), p.Education...)
	out.Skills = append([]string(nil), p.Skills...)
	out.Certifications = append([]string(nil), p.Certifications...)
	out.Projects = append([]ProjectEntry(nil), p.Projects...)
	out.Languages = append([]string(nil), p.Languages...)
	return &out
}
