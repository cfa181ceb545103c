// Package extraction turns a job posting URL into structured job content.
// It layers field extraction and rule-based normalization on top of the
// fetch package.
package extraction

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/laudatorai/internal/fetch"
)

// BrowserTimeout bounds a single headless browser render.
const BrowserTimeout = 30 * time.Second

// ScrapedPosting is the raw field-level scrape result before normalization.
type ScrapedPosting struct {
	URL         string
	Title       string
	Company     string
	Location    string
	Description string
	RawHTML     string
}

// BrowserFunc renders a URL in a headless browser and returns the HTML.
// It matches fetch.WithBrowser and is injectable for tests.
type BrowserFunc func(ctx context.Context, url string, timeout time.Duration) (string, error)

// Extractor scrapes job postings. The browser strategy runs first because
// most job boards render client side; a static fetch is the fallback.
type Extractor struct {
	opts    *fetch.Options
	browser BrowserFunc
}

// NewExtractor creates an Extractor with default fetch options.
func NewExtractor() *Extractor {
	return &Extractor{
		opts:    fetch.DefaultOptions(),
		browser: fetch.WithBrowser,
	}
}

// WithFetchOptions overrides the static fetch options.
func (e *Extractor) WithFetchOptions(opts *fetch.Options) *Extractor {
	e.opts = opts
	return e
}

// WithBrowserFunc overrides the browser renderer.
func (e *Extractor) WithBrowserFunc(fn BrowserFunc) *Extractor {
	e.browser = fn
	return e
}

// Extract scrapes the posting at url. It tries the browser first, falls
// back to a static fetch, and fails only when neither strategy yields
// usable content.
func (e *Extractor) Extract(ctx context.Context, url string) (*ScrapedPosting, error) {
	html, browserErr := e.browser(ctx, url, BrowserTimeout)
	if browserErr != nil || strings.TrimSpace(html) == "" {
		result, err := fetch.URL(ctx, url, e.opts)
		if err != nil {
			if browserErr != nil {
				return nil, &Error{URL: url, Message: "all scrape strategies failed", Cause: err}
			}
			return nil, &Error{URL: url, Message: "static fetch failed", Cause: err}
		}
		html = result.HTML
	}

	posting, err := ParsePosting(url, html)
	if err != nil {
		return nil, err
	}
	return posting, nil
}

// ParsePosting extracts posting fields from rendered HTML.
func ParsePosting(url, html string) (*ScrapedPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: url, Message: "failed to parse HTML", Cause: err}
	}

	posting := &ScrapedPosting{
		URL:     url,
		RawHTML: html,
		Title:   fetch.SelectFirstText(doc, titleSelectors()),
		Company: fetch.SelectFirstText(doc, companySelectors()),
		Location: fetch.SelectFirstText(doc, []string{
			"[class*='location']",
			".job-location",
			".location",
			"[data-testid='location']",
		}),
	}

	platform := fetch.DetectPlatform(url)
	description, err := fetch.ExtractMainText(html,
		fetch.PlatformContentSelectors(platform),
		fetch.PlatformNoiseSelectors(platform)...)
	if err != nil {
		return nil, &Error{URL: url, Message: "failed to extract description", Cause: err}
	}
	posting.Description = description

	if posting.Title == "" && posting.Description == "" {
		return nil, &Error{URL: url, Message: "no usable content found"}
	}
	return posting, nil
}

func titleSelectors() []string {
	return []string{
		"h1[class*='title']",
		"h1[class*='job']",
		"h1[class*='position']",
		".job-title",
		".position-title",
		"[data-testid='job-title']",
		"h1",
	}
}

func companySelectors() []string {
	return []string{
		".company-name",
		".employer-name",
		"[data-testid='company-name']",
		"[class*='company']",
		"[class*='employer']",
	}
}
