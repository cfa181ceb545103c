package rendering

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/laudatorai/internal/types"
)

// Documents holds the rendered artifact pair for one document kind.
type Documents struct {
	DOCX []byte
	PDF  []byte
}

// Renderer produces DOCX and PDF artifacts from structured content.
type Renderer struct {
	pdf PDFRenderer
	now func() time.Time
}

// NewRenderer creates a renderer using the given PDF backend.
func NewRenderer(pdf PDFRenderer) *Renderer {
	return &Renderer{pdf: pdf, now: time.Now}
}

// WithClock fixes the date stamped on cover letters.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// RenderResume builds the resume DOCX and its PDF counterpart. The two
// artifacts build from the same content, so they render concurrently.
func (r *Renderer) RenderResume(ctx context.Context, content *types.ParsedResume, info types.PersonalInfo) (*Documents, error) {
	docs := &Documents{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docxBytes, err := ResumeDOCX(content, info)
		docs.DOCX = docxBytes
		return err
	})
	g.Go(func() error {
		html, err := ResumeHTML(content, info)
		if err != nil {
			return err
		}
		pdfBytes, err := r.pdf.RenderPDF(gctx, html)
		docs.PDF = pdfBytes
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// RenderCoverLetter builds the cover letter DOCX and its PDF counterpart.
func (r *Renderer) RenderCoverLetter(ctx context.Context, content *types.CoverLetterContent, job *types.NormalizedJob, info types.PersonalInfo) (*Documents, error) {
	date := r.now()

	docs := &Documents{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docxBytes, err := CoverLetterDOCX(content, job, info, date)
		docs.DOCX = docxBytes
		return err
	})
	g.Go(func() error {
		html, err := CoverLetterHTML(content, job, info, date)
		if err != nil {
			return err
		}
		pdfBytes, err := r.pdf.RenderPDF(gctx, html)
		docs.PDF = pdfBytes
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
