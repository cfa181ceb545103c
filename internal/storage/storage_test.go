package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *BucketClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBucketClient(srv.URL, "test-bucket", "secret-key")
}

func TestPut(t *testing.T) {
	var gotPath, gotAuth, gotType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	})

	err := client.Put(context.Background(), "resumes/abc.pdf", "application/pdf", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/test-bucket/resumes/abc.pdf", gotPath)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "application/pdf", gotType)
}

func TestPut_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := client.Put(context.Background(), "k", "text/plain", []byte("x"))
	require.Error(t, err)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "put", storeErr.Op)
	assert.Equal(t, http.StatusForbidden, storeErr.Status)
}

func TestGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("file-bytes"))
	})

	data, err := client.Get(context.Background(), "resumes/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("file-bytes"), data)
}

func TestGet_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Get(context.Background(), "missing")
	require.Error(t, err)

	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, http.StatusNotFound, storeErr.Status)
}

func TestDelete_MissingObjectIsOK(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, client.Delete(context.Background(), "gone"))
}

func TestSignedURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/object/sign/test-bucket/doc.pdf", r.URL.Path)

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3600, body["expiresIn"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"signedURL": "/object/sign/test-bucket/doc.pdf?token=tok",
		})
	})

	url, err := client.SignedURL(context.Background(), "doc.pdf", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "/storage/v1/object/sign/test-bucket/doc.pdf?token=tok")
}

func TestContentKey(t *testing.T) {
	key1 := ContentKey("resumes", "a.pdf", []byte("same"))
	key2 := ContentKey("resumes", "b.pdf", []byte("same"))
	key3 := ContentKey("resumes", "a.pdf", []byte("different"))

	// identical bytes share one object regardless of filename
	assert.Equal(t, key1, key2)
	assert.NotEqual(t, key1, key3)
	assert.Contains(t, key1, "resumes/")
	assert.Contains(t, key1, ".pdf")
}

func TestContentHash(t *testing.T) {
	assert.Len(t, ContentHash([]byte("x")), 64)
	assert.Equal(t, ContentHash([]byte("x")), ContentHash([]byte("x")))
	assert.NotEqual(t, ContentHash([]byte("x")), ContentHash([]byte("y")))
}
