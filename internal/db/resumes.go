package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/laudatorai/internal/types"
)

const resumeColumns = `id, filename, content_hash, storage_path, parsed_content,
	status, error_message, created_at, updated_at`

func scanResume(row pgx.Row) (*types.Resume, error) {
	var r types.Resume
	var parsedJSON []byte

	err := row.Scan(&r.ID, &r.Filename, &r.ContentHash, &r.StoragePath, &parsedJSON,
		&r.Status, &r.ErrorMessage, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parsedJSON != nil {
		_ = json.Unmarshal(parsedJSON, &r.Parsed)
	}
	return &r, nil
}

// CreateResume inserts a pending resume record.
func (db *DB) CreateResume(ctx context.Context, filename, contentHash, storagePath string) (*types.Resume, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (filename, content_hash, storage_path, status)
		 VALUES ($1, $2, $3, $4) RETURNING `+resumeColumns,
		filename, contentHash, storagePath, types.ResumeStatusPending)
	resume, err := scanResume(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return resume, nil
}

// GetResume retrieves a resume by ID. Returns nil when not found.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
	resume, err := scanResume(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return resume, nil
}

// GetResumeByHash finds a resume by content hash, used for upload dedup.
func (db *DB) GetResumeByHash(ctx context.Context, contentHash string) (*types.Resume, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE content_hash = $1`, contentHash)
	resume, err := scanResume(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume by hash: %w", err)
	}
	return resume, nil
}

// ListResumes retrieves recent resumes.
func (db *DB) ListResumes(ctx context.Context, limit int) ([]types.Resume, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []types.Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *resume)
	}
	return resumes, nil
}

// UpdateResumeParsed stores the parse result and marks the resume parsed.
func (db *DB) UpdateResumeParsed(ctx context.Context, id uuid.UUID, parsed *types.ParsedResume) error {
	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("failed to marshal parsed resume: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE resumes SET parsed_content = $1, status = $2, error_message = '', updated_at = NOW()
		 WHERE id = $3`,
		parsedJSON, types.ResumeStatusParsed, id)
	if err != nil {
		return fmt.Errorf("failed to update parsed resume: %w", err)
	}
	return nil
}

// UpdateResumeStatus sets the resume status and optional error message.
func (db *DB) UpdateResumeStatus(ctx context.Context, id uuid.UUID, status, errorMessage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE resumes SET status = $1, error_message = $2, updated_at = NOW() WHERE id = $3`,
		status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update resume status: %w", err)
	}
	return nil
}

// DeleteResume removes a resume and cascades to its applications.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", id)
	}
	return nil
}
