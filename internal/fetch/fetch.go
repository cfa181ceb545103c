// Package fetch retrieves job posting pages and reduces them to text.
// Extraction renders through the headless browser first, since most job
// boards are JavaScript-heavy, and uses the static HTTP fetch here as
// the fallback.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout bounds a single HTTP fetch.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the scraper to job boards.
	DefaultUserAgent = "Mozilla/5.0 (compatible; LaudatorAI/1.0)"
)

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func fetchErr(url, message string, cause error) *Error {
	return &Error{URL: url, Message: message, Cause: cause}
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Client overrides the default HTTP client, mainly for tests.
	Client *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent}
}

func (o *Options) httpClient() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: o.Timeout}
}

// URL retrieves the HTML content of a posting URL. A non-200 response
// returns both the partial result and an error, so callers can inspect
// the status.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fetchErr(urlStr, "invalid URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fetchErr(urlStr, "failed to create request", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.httpClient().Do(req)
	if err != nil {
		return nil, fetchErr(urlStr, "HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fetchErr(urlStr, "failed to read response body", err)
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, fetchErr(urlStr, fmt.Sprintf("HTTP status %d", resp.StatusCode), nil)
	}
	return result, nil
}

// boilerplate elements stripped from every page before extraction.
const boilerplateSelector = "nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// ExtractMainText reduces posting HTML to its main body text. Noise
// elements are stripped first; the first matching content selector wins,
// with the whole body as the last resort.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplateSelector).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	content := doc.Find("body")
	for _, selector := range contentSelectors {
		if match := doc.Find(selector); match.Length() > 0 {
			content = match.First()
			break
		}
	}

	return cleanWhitespace(content.Text()), nil
}

// SelectFirstText returns the trimmed text of the first element matching
// any of the selectors, or "" when none match.
func SelectFirstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if match := doc.Find(selector); match.Length() > 0 {
			if text := strings.TrimSpace(match.First().Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// JobPostingSelectors returns generic description selectors used when
// the board platform is unknown.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace trims each line and drops blank ones.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
