// Package db provides PostgreSQL access for jobs, resumes, applications,
// and processing task rows.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			requirements JSONB,
			normalized JSONB,
			raw_content TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			filename TEXT NOT NULL,
			content_hash TEXT NOT NULL UNIQUE,
			storage_path TEXT NOT NULL,
			parsed_content JSONB,
			status TEXT NOT NULL DEFAULT 'pending',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
			resume_id UUID NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
			tailored_resume_path TEXT NOT NULL DEFAULT '',
			tailored_resume_pdf_path TEXT NOT NULL DEFAULT '',
			cover_letter_path TEXT NOT NULL DEFAULT '',
			cover_letter_pdf_path TEXT NOT NULL DEFAULT '',
			tailored_content JSONB,
			cover_letter JSONB,
			status TEXT NOT NULL DEFAULT 'pending',
			notes TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS processing_tasks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			task_type TEXT NOT NULL,
			queue TEXT NOT NULL,
			entity_id UUID NOT NULL,
			application_id UUID,
			payload JSONB,
			status TEXT NOT NULL DEFAULT 'queued',
			result JSONB,
			error_message TEXT NOT NULL DEFAULT '',
			retry_count INT NOT NULL DEFAULT 0,
			heartbeat_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status_queue ON processing_tasks (status, queue)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_active_stage
			ON processing_tasks (application_id, task_type)
			WHERE status IN ('queued', 'running')
			AND task_type IN ('tailor_resume', 'generate_cover_letter')`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_application ON processing_tasks (application_id)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_job ON applications (job_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
