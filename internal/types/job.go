// Package types defines the shared domain types for the application pipeline.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Job status values
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job represents an ingested job posting.
type Job struct {
	ID           uuid.UUID      `json:"id"`
	URL          string         `json:"url"`
	Title        string         `json:"title"`
	Company      string         `json:"company"`
	Location     string         `json:"location,omitempty"`
	Description  string         `json:"description,omitempty"`
	Requirements []string       `json:"requirements,omitempty"`
	Normalized   *NormalizedJob `json:"normalized,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	RawContent   string         `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NormalizedJob holds the structured fields extracted from a raw posting.
// Fields that could not be found are left empty; partial normalization is
// not an error.
type NormalizedJob struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location,omitempty"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	SalaryRange      string   `json:"salary_range,omitempty"`
	EmploymentType   string   `json:"employment_type,omitempty"`
	ExperienceLevel  string   `json:"experience_level,omitempty"`
	Education        string   `json:"education,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	Department       string   `json:"department,omitempty"`
}
