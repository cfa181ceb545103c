package types

import (
	"time"

	"github.com/google/uuid"
)

// Application status values
const (
	ApplicationStatusPending    = "pending"
	ApplicationStatusProcessing = "processing"
	ApplicationStatusCompleted  = "completed"
	ApplicationStatusFailed     = "failed"
	ApplicationStatusCancelled  = "cancelled"
)

// Application links a Job and a Resume and collects the generated artifacts.
// Once status reaches completed or failed it is terminal.
type Application struct {
	ID                    uuid.UUID           `json:"id"`
	JobID                 uuid.UUID           `json:"job_id"`
	ResumeID              uuid.UUID           `json:"resume_id"`
	TailoredResumePath    string              `json:"tailored_resume_path,omitempty"`
	TailoredResumePDFPath string              `json:"tailored_resume_pdf_path,omitempty"`
	CoverLetterPath       string              `json:"cover_letter_path,omitempty"`
	CoverLetterPDFPath    string              `json:"cover_letter_pdf_path,omitempty"`
	TailoredContent       *ParsedResume       `json:"tailored_content,omitempty"`
	CoverLetter           *CoverLetterContent `json:"cover_letter,omitempty"`
	Status                string              `json:"status"`
	Notes                 string              `json:"notes,omitempty"`
	ErrorMessage          string              `json:"error_message,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// HasResumeDocuments reports whether both tailored resume artifacts exist.
func (a *Application) HasResumeDocuments() bool {
	return a.TailoredResumePath != "" && a.TailoredResumePDFPath != ""
}

// HasCoverLetterDocuments reports whether both cover letter artifacts exist.
func (a *Application) HasCoverLetterDocuments() bool {
	return a.CoverLetterPath != "" && a.CoverLetterPDFPath != ""
}

// CoverLetterContent is the structured cover letter produced by the
// generator.
type CoverLetterContent struct {
	Greeting  string `json:"greeting"`
	Opening   string `json:"opening"`
	Body      string `json:"body"`
	Closing   string `json:"closing"`
	Signature string `json:"signature"`
}

// PersonalInfo is the user-supplied candidate identity used for cover
// letters and document headers.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}
