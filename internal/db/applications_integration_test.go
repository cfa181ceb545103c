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

func TestResumeDedup_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	hash := uuid.NewString()
	resume, err := db.CreateResume(ctx, "resume.pdf", hash, "resumes/"+hash+".pdf")
	require.NoError(t, err)

	existing, err := db.GetResumeByHash(ctx, hash)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, resume.ID, existing.ID)

	missing, err := db.GetResumeByHash(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	parsed := &types.ParsedResume{
		Contact: types.ContactInfo{Name: "Jane Doe", Email: "jane@example.com"},
		Skills:  []string{"Go", "SQL"},
	}
	require.NoError(t, db.UpdateResumeParsed(ctx, resume.ID, parsed))

	got, err := db.GetResume(ctx, resume.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Parsed)
	assert.Equal(t, "Jane Doe", got.Parsed.Contact.Name)
	assert.Equal(t, types.ResumeStatusParsed, got.Status)
}

func TestApplicationStatusGuard_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job, err := db.CreateJob(ctx, "https://example.com/jobs/"+uuid.NewString())
	require.NoError(t, err)
	resume, err := db.CreateResume(ctx, "guard.pdf", uuid.NewString(), "resumes/guard.pdf")
	require.NoError(t, err)

	app, err := db.CreateApplication(ctx, job.ID, resume.ID, "a note")
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusPending, app.Status)
	assert.Equal(t, "a note", app.Notes)

	require.NoError(t, db.UpdateApplicationStatus(ctx, app.ID, types.ApplicationStatusCompleted, ""))

	// terminal status never changes again
	require.NoError(t, db.UpdateApplicationStatus(ctx, app.ID, types.ApplicationStatusProcessing, ""))
	got, err := db.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusCompleted, got.Status)
}

func TestApplicationDocumentPaths_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job, err := db.CreateJob(ctx, "https://example.com/jobs/"+uuid.NewString())
	require.NoError(t, err)
	resume, err := db.CreateResume(ctx, "docs.pdf", uuid.NewString(), "resumes/docs.pdf")
	require.NoError(t, err)
	app, err := db.CreateApplication(ctx, job.ID, resume.ID, "")
	require.NoError(t, err)

	require.NoError(t, db.SaveResumeDocumentPaths(ctx, app.ID, "out/r.docx", "out/r.pdf"))
	require.NoError(t, db.SaveCoverLetterDocumentPaths(ctx, app.ID, "out/c.docx", "out/c.pdf"))

	got, err := db.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, got.HasResumeDocuments())
	assert.True(t, got.HasCoverLetterDocuments())

	filtered, err := db.ListApplications(ctx, ApplicationFilters{JobID: job.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, app.ID, filtered[0].ID)
}
