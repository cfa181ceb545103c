//go:build integration
// +build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laudatorai/internal/types"
)

func TestJobLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job, err := db.CreateJob(ctx, "https://example.com/jobs/"+uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusPending, job.Status)

	normalized := &types.NormalizedJob{
		Title:        "Engineer",
		Company:      "Acme",
		Description:  "Build things",
		Requirements: []string{"Go"},
		Skills:       []string{"go"},
	}
	require.NoError(t, db.UpdateJobContent(ctx, job.ID, normalized, "<html>raw</html>"))

	got, err := db.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.JobStatusCompleted, got.Status)
	assert.Equal(t, "Engineer", got.Title)
	require.NotNil(t, got.Normalized)
	assert.Equal(t, []string{"go"}, got.Normalized.Skills)

	jobs, err := db.ListJobs(ctx, types.JobStatusCompleted, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, jobs)

	require.NoError(t, db.UpdateJobStatus(ctx, job.ID, types.JobStatusFailed, "boom"))
	got, err = db.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "boom", got.ErrorMessage)

	require.NoError(t, db.DeleteJob(ctx, job.ID))
	got, err = db.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
