package extraction

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `
<html>
	<body>
		<h1 class="job-title">Senior Backend Engineer</h1>
		<span class="company-name">Acme Corp</span>
		<div class="job-location">Remote - US</div>
		<div class="job-description">
			<p>Build distributed systems in Go.</p>
			<p>Requirements: 5 years experience with Go and Kubernetes</p>
		</div>
	</body>
</html>`

func stubBrowser(html string, err error) BrowserFunc {
	return func(ctx context.Context, url string, timeout time.Duration) (string, error) {
		return html, err
	}
}

func TestExtract_BrowserStrategy(t *testing.T) {
	e := NewExtractor().WithBrowserFunc(stubBrowser(postingHTML, nil))

	posting, err := e.Extract(context.Background(), "https://example.com/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", posting.Title)
	assert.Equal(t, "Acme Corp", posting.Company)
	assert.Equal(t, "Remote - US", posting.Location)
	assert.Contains(t, posting.Description, "distributed systems")
}

func TestExtract_StaticFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	e := NewExtractor().WithBrowserFunc(stubBrowser("", errors.New("no chrome")))

	posting, err := e.Extract(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", posting.Title)
}

func TestExtract_AllStrategiesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	e := NewExtractor().WithBrowserFunc(stubBrowser("", errors.New("no chrome")))

	_, err := e.Extract(context.Background(), server.URL)
	require.Error(t, err)

	var exErr *Error
	assert.ErrorAs(t, err, &exErr)
	assert.Contains(t, err.Error(), "all scrape strategies failed")
}

func TestParsePosting_NoContent(t *testing.T) {
	_, err := ParsePosting("https://example.com", "<html><body></body></html>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable content")
}

func TestParsePosting_FallbackTitleSelector(t *testing.T) {
	html := `<html><body><h1>Plain Heading</h1><main>Enough text here.</main></body></html>`
	posting, err := ParsePosting("https://example.com", html)
	require.NoError(t, err)
	assert.Equal(t, "Plain Heading", posting.Title)
	assert.Empty(t, posting.Company)
}
