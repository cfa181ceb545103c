// Package storage provides object storage for resume files and rendered
// documents over a Supabase-style bucket HTTP API.
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"
)

// ObjectStore is the storage collaborator used by the pipeline. Keys are
// bucket-relative paths.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// SignedURL returns a time-limited download URL for the object.
	SignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Error represents a storage operation failure.
type Error struct {
	Op     string
	Key    string
	Status int
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage %s failed for %s: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("storage %s failed for %s: status %d", e.Op, e.Key, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// BucketClient talks to the bucket HTTP API.
type BucketClient struct {
	baseURL    string
	bucket     string
	apiKey     string
	httpClient *http.Client
}

// NewBucketClient creates a client for the given bucket.
func NewBucketClient(baseURL, bucket, apiKey string) *BucketClient {
	return &BucketClient{
		baseURL:    baseURL,
		bucket:     bucket,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *BucketClient) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, key)
}

func (c *BucketClient) do(ctx context.Context, op, method, url, contentType string, body []byte, key string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &Error{Op: op, Key: key, Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Key: key, Cause: err}
	}
	return resp, nil
}

// Put uploads an object, overwriting any existing content at the key.
func (c *BucketClient) Put(ctx context.Context, key string, contentType string, data []byte) error {
	resp, err := c.do(ctx, "put", http.MethodPost, c.objectURL(key), contentType, data, key)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &Error{Op: "put", Key: key, Status: resp.StatusCode}
	}
	return nil
}

// Get downloads an object.
func (c *BucketClient) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.do(ctx, "get", http.MethodGet, c.objectURL(key), "", nil, key)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "get", Key: key, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "get", Key: key, Cause: err}
	}
	return data, nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (c *BucketClient) Delete(ctx context.Context, key string) error {
	resp, err := c.do(ctx, "delete", http.MethodDelete, c.objectURL(key), "", nil, key)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return &Error{Op: "delete", Key: key, Status: resp.StatusCode}
	}
	return nil
}

// SignedURL asks the bucket API for a time-limited download URL.
func (c *BucketClient) SignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", c.baseURL, c.bucket, key)
	body, err := json.Marshal(map[string]int{"expiresIn": int(expires.Seconds())})
	if err != nil {
		return "", &Error{Op: "sign", Key: key, Cause: err}
	}

	resp, err := c.do(ctx, "sign", http.MethodPost, url, "application/json", body, key)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Op: "sign", Key: key, Status: resp.StatusCode}
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", &Error{Op: "sign", Key: key, Cause: err}
	}
	return c.baseURL + "/storage/v1" + signed.SignedURL, nil
}

// ContentKey builds a content-addressed object key so identical uploads
// share one object.
func ContentKey(prefix, filename string, data []byte) string {
	sum := sha256.Sum256(data)
	return path.Join(prefix, hex.EncodeToString(sum[:])+path.Ext(filename))
}

// ContentHash returns the hex SHA-256 of the data, used for upload dedup.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
