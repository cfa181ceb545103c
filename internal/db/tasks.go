package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/laudatorai/internal/types"
)

// ErrDuplicateTask is returned when an active task of the same type
// already exists for the application. A partial unique index enforces
// this for the tailoring and cover letter stages, so two workers racing
// to start them cannot double-submit.
var ErrDuplicateTask = errors.New("an active task of this type already exists for the application")

const taskColumns = `id, task_type, queue, entity_id, application_id, payload,
	status, result, error_message, retry_count, heartbeat_at, created_at, updated_at`

func scanTask(row pgx.Row) (*types.ProcessingTask, error) {
	var t types.ProcessingTask
	var applicationID *uuid.UUID

	err := row.Scan(&t.ID, &t.Type, &t.Queue, &t.EntityID, &applicationID, &t.Payload,
		&t.Status, &t.Result, &t.ErrorMessage, &t.RetryCount, &t.HeartbeatAt,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if applicationID != nil {
		t.ApplicationID = *applicationID
	}
	return &t, nil
}

func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

// CreateTask inserts a queued task row.
func (db *DB) CreateTask(ctx context.Context, taskType types.TaskType, queue types.Queue, entityID, applicationID uuid.UUID, payload any, retryCount int) (*types.ProcessingTask, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO processing_tasks (task_type, queue, entity_id, application_id, payload, status, retry_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+taskColumns,
		taskType, queue, entityID, nullableUUID(applicationID), payloadJSON,
		types.TaskStatusQueued, retryCount)
	task, err := scanTask(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateTask
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask retrieves a task by ID. Returns nil when not found.
func (db *DB) GetTask(ctx context.Context, id uuid.UUID) (*types.ProcessingTask, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM processing_tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// MarkTaskRunning flips a queued task to running and stamps the heartbeat.
// Returns false when the task was already picked up or cancelled.
func (db *DB) MarkTaskRunning(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE processing_tasks SET status = $1, heartbeat_at = NOW(), updated_at = NOW()
		 WHERE id = $2 AND status = $3`,
		types.TaskStatusRunning, id, types.TaskStatusQueued)
	if err != nil {
		return false, fmt.Errorf("failed to mark task running: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// Heartbeat refreshes the lease on a running task.
func (db *DB) Heartbeat(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE processing_tasks SET heartbeat_at = NOW() WHERE id = $1 AND status = $2`,
		id, types.TaskStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to heartbeat task: %w", err)
	}
	return nil
}

// MarkTaskSucceeded records a successful result.
func (db *DB) MarkTaskSucceeded(ctx context.Context, id uuid.UUID, result any) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal task result: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE processing_tasks SET status = $1, result = $2, updated_at = NOW() WHERE id = $3`,
		types.TaskStatusSucceeded, resultJSON, id)
	if err != nil {
		return fmt.Errorf("failed to mark task succeeded: %w", err)
	}
	return nil
}

// MarkTaskFailed records a failure. The row is kept for inspection; a
// retry shows up as a fresh queued row.
func (db *DB) MarkTaskFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE processing_tasks SET status = $1, error_message = $2, updated_at = NOW() WHERE id = $3`,
		types.TaskStatusFailed, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark task failed: %w", err)
	}
	return nil
}

// ListQueuedTasks returns queued tasks for a queue, oldest first. Used to
// reload work after a restart.
func (db *DB) ListQueuedTasks(ctx context.Context, queue types.Queue) ([]types.ProcessingTask, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM processing_tasks WHERE status = $1 AND queue = $2
		 ORDER BY created_at ASC`,
		types.TaskStatusQueued, queue)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListStaleRunningTasks returns running tasks whose heartbeat is older
// than the lease timeout.
func (db *DB) ListStaleRunningTasks(ctx context.Context, leaseTimeout time.Duration) ([]types.ProcessingTask, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM processing_tasks
		 WHERE status = $1 AND heartbeat_at < NOW() - $2::interval`,
		types.TaskStatusRunning, leaseTimeout.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list stale tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListTasksForApplication returns every task row attached to an application.
func (db *DB) ListTasksForApplication(ctx context.Context, applicationID uuid.UUID) ([]types.ProcessingTask, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM processing_tasks WHERE application_id = $1
		 ORDER BY created_at ASC`,
		applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for application: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// LatestTaskForEntity returns the newest task of a type for an entity, or
// nil when none exists.
func (db *DB) LatestTaskForEntity(ctx context.Context, taskType types.TaskType, entityID uuid.UUID) (*types.ProcessingTask, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM processing_tasks
		 WHERE task_type = $1 AND entity_id = $2
		 ORDER BY created_at DESC LIMIT 1`,
		taskType, entityID)
	task, err := scanTask(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest task: %w", err)
	}
	return task, nil
}

// CancelQueuedTasksForApplication marks not-yet-started tasks of an
// application as failed so workers skip them. Returns the number affected.
func (db *DB) CancelQueuedTasksForApplication(ctx context.Context, applicationID uuid.UUID, reason string) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE processing_tasks SET status = $1, error_message = $2, updated_at = NOW()
		 WHERE application_id = $3 AND status = $4`,
		types.TaskStatusFailed, reason, applicationID, types.TaskStatusQueued)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel queued tasks: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteOldTerminalTasks removes succeeded and failed task rows older than
// the retention window. Returns the number deleted.
func (db *DB) DeleteOldTerminalTasks(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM processing_tasks
		 WHERE status IN ($1, $2) AND updated_at < NOW() - $3::interval`,
		types.TaskStatusSucceeded, types.TaskStatusFailed, olderThan.String())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old tasks: %w", err)
	}
	return result.RowsAffected(), nil
}

func collectTasks(rows pgx.Rows) ([]types.ProcessingTask, error) {
	var tasks []types.ProcessingTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}
