package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/laudatorai/internal/types"
)

const applicationColumns = `id, job_id, resume_id, tailored_resume_path,
	tailored_resume_pdf_path, cover_letter_path, cover_letter_pdf_path,
	tailored_content, cover_letter, status, notes, error_message, created_at, updated_at`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	var tailoredJSON, coverJSON []byte

	err := row.Scan(&a.ID, &a.JobID, &a.ResumeID, &a.TailoredResumePath,
		&a.TailoredResumePDFPath, &a.CoverLetterPath, &a.CoverLetterPDFPath,
		&tailoredJSON, &coverJSON, &a.Status, &a.Notes, &a.ErrorMessage,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if tailoredJSON != nil {
		_ = json.Unmarshal(tailoredJSON, &a.TailoredContent)
	}
	if coverJSON != nil {
		_ = json.Unmarshal(coverJSON, &a.CoverLetter)
	}
	return &a, nil
}

// CreateApplication links a job and a resume.
func (db *DB) CreateApplication(ctx context.Context, jobID, resumeID uuid.UUID, notes string) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, resume_id, notes, status)
		 VALUES ($1, $2, $3, $4) RETURNING `+applicationColumns,
		jobID, resumeID, notes, types.ApplicationStatusPending)
	app, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// GetApplication retrieves an application by ID. Returns nil when not found.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ApplicationFilters holds optional filters for listing applications.
type ApplicationFilters struct {
	JobID    uuid.UUID
	ResumeID uuid.UUID
	Status   string
	Limit    int
}

// ListApplications retrieves applications with optional filters.
func (db *DB) ListApplications(ctx context.Context, filters ApplicationFilters) ([]types.Application, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.JobID != uuid.Nil {
		query += fmt.Sprintf(" AND job_id = $%d", argNum)
		args = append(args, filters.JobID)
		argNum++
	}
	if filters.ResumeID != uuid.Nil {
		query += fmt.Sprintf(" AND resume_id = $%d", argNum)
		args = append(args, filters.ResumeID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

// UpdateApplicationStatus sets the status and optional error message.
// Terminal states are preserved: a completed, failed, or cancelled
// application never changes status again.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status, errorMessage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $1, error_message = $2, updated_at = NOW()
		 WHERE id = $3 AND status NOT IN ($4, $5, $6)`,
		status, errorMessage, id,
		types.ApplicationStatusCompleted, types.ApplicationStatusFailed, types.ApplicationStatusCancelled)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

// SaveTailoredContent stores the tailoring result on the application.
func (db *DB) SaveTailoredContent(ctx context.Context, id uuid.UUID, content *types.ParsedResume) error {
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal tailored content: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE applications SET tailored_content = $1, updated_at = NOW() WHERE id = $2`,
		contentJSON, id)
	if err != nil {
		return fmt.Errorf("failed to save tailored content: %w", err)
	}
	return nil
}

// SaveCoverLetterContent stores the generated cover letter on the application.
func (db *DB) SaveCoverLetterContent(ctx context.Context, id uuid.UUID, content *types.CoverLetterContent) error {
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal cover letter: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE applications SET cover_letter = $1, updated_at = NOW() WHERE id = $2`,
		contentJSON, id)
	if err != nil {
		return fmt.Errorf("failed to save cover letter: %w", err)
	}
	return nil
}

// SaveResumeDocumentPaths records the rendered resume artifact locations.
func (db *DB) SaveResumeDocumentPaths(ctx context.Context, id uuid.UUID, docxPath, pdfPath string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE applications SET tailored_resume_path = $1, tailored_resume_pdf_path = $2, updated_at = NOW()
		 WHERE id = $3`,
		docxPath, pdfPath, id)
	if err != nil {
		return fmt.Errorf("failed to save resume document paths: %w", err)
	}
	return nil
}

// SaveCoverLetterDocumentPaths records the rendered cover letter locations.
func (db *DB) SaveCoverLetterDocumentPaths(ctx context.Context, id uuid.UUID, docxPath, pdfPath string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE applications SET cover_letter_path = $1, cover_letter_pdf_path = $2, updated_at = NOW()
		 WHERE id = $3`,
		docxPath, pdfPath, id)
	if err != nil {
		return fmt.Errorf("failed to save cover letter document paths: %w", err)
	}
	return nil
}

// DeleteApplication removes an application record.
func (db *DB) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}
