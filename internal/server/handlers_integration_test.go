//go:build integration
// +build integration

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laudatorai/internal/db"
	"github.com/jonathan/laudatorai/internal/observability"
	"github.com/jonathan/laudatorai/internal/orchestrator"
	"github.com/jonathan/laudatorai/internal/types"
)

// memStore is an in-memory ObjectStore for handler tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, key, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", key)
	}
	return data, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://store.example.com/signed/" + key, nil
}

func setupServer(t *testing.T) (*Server, *db.DB, *memStore) {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx))
	t.Cleanup(database.Close)

	log := observability.NewLogger("error")
	orch := orchestrator.New(database, log, orchestrator.Options{})
	store := newMemStore()

	s := New(database, orch, store, log, Options{
		Candidate: types.PersonalInfo{Name: "Jane Doe", Email: "jane@example.com"},
	})
	t.Cleanup(s.rateLimiter.Stop)
	return s, database, store
}

func uploadPDF(t *testing.T, s *Server, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload(t, "file", "resume.pdf", content)
	req := httptest.NewRequest(http.MethodPost, "/resumes", body)
	req.Header.Set("Content-Type", contentType)
	return doRequest(s, req)
}

func TestUploadResume_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	s, _, store := setupServer(t)
	content := []byte("%PDF-1.4 " + uuid.NewString())

	rec := uploadPDF(t, s, content)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "resume.pdf", created.Filename)

	// stored under a content-addressed key
	_, err := store.Get(context.Background(), created.StoragePath)
	require.NoError(t, err)

	// identical content dedups to the same record
	rec = uploadPDF(t, s, content)
	require.Equal(t, http.StatusOK, rec.Code)
	var again types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, created.ID, again.ID)
}

func TestJobLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	s, _, _ := setupServer(t)
	jobURL := "https://example.com/jobs/" + uuid.NewString()

	body := fmt.Sprintf(`{"url":%q}`, jobURL)
	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var job types.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	// same URL returns the existing record
	rec = doRequest(s, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	var again types.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, job.ID, again.ID)

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, httptest.NewRequest(http.MethodPost, "/jobs/"+job.ID.String()+"/process", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = doRequest(s, httptest.NewRequest(http.MethodDelete, "/jobs/"+job.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitPipelineAndStatus_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	s, database, _ := setupServer(t)
	ctx := context.Background()

	resume, err := database.CreateResume(ctx, "r.pdf", uuid.NewString(), "resumes/r.pdf")
	require.NoError(t, err)

	body := fmt.Sprintf(`{"job_url":"https://example.com/jobs/%s","resume_id":%q}`, uuid.NewString(), resume.ID)
	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/pipeline", strings.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var submitted struct {
		ApplicationID string `json:"application_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/applications/"+submitted.ApplicationID+"/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status orchestrator.ApplicationStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, types.ApplicationStatusPending, status.Status)

	// no workers are running, so submitted stages sit queued
	assert.Equal(t, types.TaskStatusQueued, status.Stages[types.TaskExtractJob])
	assert.Equal(t, types.TaskStatusQueued, status.Stages[types.TaskParseResume])
}

func TestCancelApplication_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	s, database, _ := setupServer(t)
	ctx := context.Background()

	resume, err := database.CreateResume(ctx, "r.pdf", uuid.NewString(), "resumes/r.pdf")
	require.NoError(t, err)
	job, err := database.CreateJob(ctx, "https://example.com/jobs/"+uuid.NewString())
	require.NoError(t, err)
	app, err := database.CreateApplication(ctx, job.ID, resume.ID, "")
	require.NoError(t, err)

	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/applications/"+app.ID.String()+"/cancel", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := database.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusCancelled, got.Status)

	// terminal applications cannot be cancelled
	require.NoError(t, database.UpdateApplicationStatus(ctx, app.ID, types.ApplicationStatusCompleted, ""))
	rec = doRequest(s, httptest.NewRequest(http.MethodPost, "/applications/"+app.ID.String()+"/cancel", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteResume_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	s, _, store := setupServer(t)

	rec := uploadPDF(t, s, []byte("%PDF-1.4 "+uuid.NewString()))
	require.Equal(t, http.StatusCreated, rec.Code)
	var resume types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resume))

	rec = doRequest(s, httptest.NewRequest(http.MethodDelete, "/resumes/"+resume.ID.String(), nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err := store.Get(context.Background(), resume.StoragePath)
	assert.Error(t, err, "stored file should be gone")

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/resumes/"+resume.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
