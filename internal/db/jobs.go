package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/laudatorai/internal/types"
)

const jobColumns = `id, url, title, company, location, description, requirements,
	normalized, raw_content, status, error_message, created_at, updated_at`

func scanJob(row pgx.Row) (*types.Job, error) {
	var j types.Job
	var requirementsJSON, normalizedJSON []byte

	err := row.Scan(&j.ID, &j.URL, &j.Title, &j.Company, &j.Location, &j.Description,
		&requirementsJSON, &normalizedJSON, &j.RawContent, &j.Status, &j.ErrorMessage,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if requirementsJSON != nil {
		_ = json.Unmarshal(requirementsJSON, &j.Requirements)
	}
	if normalizedJSON != nil {
		_ = json.Unmarshal(normalizedJSON, &j.Normalized)
	}
	return &j, nil
}

// CreateJob inserts a pending job for a posting URL.
func (db *DB) CreateJob(ctx context.Context, url string) (*types.Job, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (url, status) VALUES ($1, $2) RETURNING `+jobColumns,
		url, types.JobStatusPending)
	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// GetJobByURL retrieves a job by its posting URL. Returns nil when not
// found. URLs are unique, so a pipeline request for a known posting
// reuses the existing record.
func (db *DB) GetJobByURL(ctx context.Context, url string) (*types.Job, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE url = $1`, url)
	job, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job by url: %w", err)
	}
	return job, nil
}

// GetJob retrieves a job by ID. Returns nil when not found.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs retrieves recent jobs, optionally filtered by status.
func (db *DB) ListJobs(ctx context.Context, status string, limit int) ([]types.Job, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []any{}
	argNum := 1

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, status)
		argNum++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// UpdateJobContent stores the extraction result and marks the job completed.
func (db *DB) UpdateJobContent(ctx context.Context, id uuid.UUID, normalized *types.NormalizedJob, rawContent string) error {
	normalizedJSON, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("failed to marshal normalized job: %w", err)
	}
	requirementsJSON, err := json.Marshal(normalized.Requirements)
	if err != nil {
		return fmt.Errorf("failed to marshal requirements: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE jobs SET title = $1, company = $2, location = $3, description = $4,
		        requirements = $5, normalized = $6, raw_content = $7,
		        status = $8, error_message = '', updated_at = NOW()
		 WHERE id = $9`,
		normalized.Title, normalized.Company, normalized.Location, normalized.Description,
		requirementsJSON, normalizedJSON, rawContent, types.JobStatusCompleted, id)
	if err != nil {
		return fmt.Errorf("failed to update job content: %w", err)
	}
	return nil
}

// UpdateJobStatus sets the job status and optional error message.
func (db *DB) UpdateJobStatus(ctx context.Context, id uuid.UUID, status, errorMessage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, error_message = $2, updated_at = NOW() WHERE id = $3`,
		status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}

// DeleteJob removes a job and cascades to its applications.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}
