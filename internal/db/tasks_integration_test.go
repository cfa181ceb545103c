//go:build integration
// +build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laudatorai/internal/types"
)

func TestTaskLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	entityID := uuid.New()
	payload := types.ExtractJobPayload{JobID: entityID, URL: "https://example.com/jobs/1"}

	task, err := db.CreateTask(ctx, types.TaskExtractJob, types.QueueJobProcessing, entityID, uuid.Nil, payload, 0)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusQueued, task.Status)
	assert.Equal(t, uuid.Nil, task.ApplicationID)

	queued, err := db.ListQueuedTasks(ctx, types.QueueJobProcessing)
	require.NoError(t, err)
	assert.NotEmpty(t, queued)

	ok, err := db.MarkTaskRunning(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// a second claim on the same row must lose
	ok, err = db.MarkTaskRunning(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Heartbeat(ctx, task.ID))

	require.NoError(t, db.MarkTaskSucceeded(ctx, task.ID, map[string]string{"status": "ok"}))
	got, err := db.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskStatusSucceeded, got.Status)

	latest, err := db.LatestTaskForEntity(ctx, types.TaskExtractJob, entityID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, task.ID, latest.ID)
}

func TestStaleTaskRecovery_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	task, err := db.CreateTask(ctx, types.TaskParseResume, types.QueueResumeProcessing, uuid.New(), uuid.Nil, nil, 0)
	require.NoError(t, err)

	ok, err := db.MarkTaskRunning(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// a fresh heartbeat is not stale
	stale, err := db.ListStaleRunningTasks(ctx, time.Hour)
	require.NoError(t, err)
	for _, s := range stale {
		assert.NotEqual(t, task.ID, s.ID)
	}

	stale, err = db.ListStaleRunningTasks(ctx, time.Nanosecond)
	require.NoError(t, err)
	found := false
	for _, s := range stale {
		if s.ID == task.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDuplicateStageTask_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job, err := db.CreateJob(ctx, "https://example.com/jobs/"+uuid.NewString())
	require.NoError(t, err)
	resume, err := db.CreateResume(ctx, "r.pdf", uuid.NewString(), "resumes/x.pdf")
	require.NoError(t, err)
	app, err := db.CreateApplication(ctx, job.ID, resume.ID, "")
	require.NoError(t, err)

	task, err := db.CreateTask(ctx, types.TaskTailorResume, types.QueueApplicationProcessing, app.ID, app.ID, nil, 0)
	require.NoError(t, err)

	// a second active tailoring task for the same application is rejected
	_, err = db.CreateTask(ctx, types.TaskTailorResume, types.QueueApplicationProcessing, app.ID, app.ID, nil, 0)
	require.ErrorIs(t, err, ErrDuplicateTask)

	// other stage types are unaffected
	_, err = db.CreateTask(ctx, types.TaskGenerateCoverLetter, types.QueueApplicationProcessing, app.ID, app.ID, nil, 0)
	require.NoError(t, err)

	// both render kinds may be active at once
	_, err = db.CreateTask(ctx, types.TaskRenderDocument, types.QueueApplicationProcessing, app.ID, app.ID,
		types.RenderDocumentPayload{ApplicationID: app.ID, Kind: types.DocumentKindResume}, 0)
	require.NoError(t, err)
	_, err = db.CreateTask(ctx, types.TaskRenderDocument, types.QueueApplicationProcessing, app.ID, app.ID,
		types.RenderDocumentPayload{ApplicationID: app.ID, Kind: types.DocumentKindCoverLetter}, 0)
	require.NoError(t, err)

	// once the first attempt is terminal, a retry row is allowed again
	require.NoError(t, db.MarkTaskFailed(ctx, task.ID, "model unavailable"))
	_, err = db.CreateTask(ctx, types.TaskTailorResume, types.QueueApplicationProcessing, app.ID, app.ID, nil, 1)
	require.NoError(t, err)
}

func TestCancelQueuedTasks_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job, err := db.CreateJob(ctx, "https://example.com/jobs/"+uuid.NewString())
	require.NoError(t, err)
	resume, err := db.CreateResume(ctx, "r.pdf", uuid.NewString(), "resumes/x.pdf")
	require.NoError(t, err)
	app, err := db.CreateApplication(ctx, job.ID, resume.ID, "")
	require.NoError(t, err)

	_, err = db.CreateTask(ctx, types.TaskTailorResume, types.QueueApplicationProcessing, app.ID, app.ID, nil, 0)
	require.NoError(t, err)

	n, err := db.CancelQueuedTasksForApplication(ctx, app.ID, "cancelled")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	tasks, err := db.ListTasksForApplication(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, types.TaskStatusFailed, tasks[0].Status)
	assert.Equal(t, "cancelled", tasks[0].ErrorMessage)
}
