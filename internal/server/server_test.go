package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laudatorai/internal/observability"
)

// testServer builds a server without datastore backing. Only routes
// that reject the request before touching the database are exercised.
func testServer(t *testing.T) *Server {
	t.Helper()
	s := New(nil, nil, nil, observability.NewLogger("error"), Options{})
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestCORSPreflight(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, httptest.NewRequest(http.MethodOptions, "/pipeline", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubmitPipeline_RejectsBadRequests(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing url", `{"resume_id":"6e7f4f0e-9f5c-4d1e-8c43-111111111111"}`},
		{"relative url", `{"job_url":"/jobs/1","resume_id":"6e7f4f0e-9f5c-4d1e-8c43-111111111111"}`},
		{"bad resume id", `{"job_url":"https://example.com/jobs/1","resume_id":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/pipeline", strings.NewReader(tt.body))
			rec := doRequest(s, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPathParams_RejectBadUUIDs(t *testing.T) {
	s := testServer(t)

	for _, path := range []string{
		"/jobs/not-a-uuid",
		"/resumes/not-a-uuid",
		"/applications/not-a-uuid",
		"/applications/not-a-uuid/status",
	} {
		rec := doRequest(s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

func TestCreateJob_RejectsBadURL(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{"url":"example.com"}`))
	rec := doRequest(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadResume_RejectsUnsupportedFormat(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartUpload(t, "file", "resume.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/resumes", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestUploadResume_RequiresFileField(t *testing.T) {
	s := testServer(t)

	body, contentType := multipartUpload(t, "attachment", "resume.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/resumes", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
