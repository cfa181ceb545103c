package rendering

import (
	"context"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFRenderer converts an HTML page into PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromePDF renders PDFs through a headless Chrome instance.
type ChromePDF struct {
	// ExecPath overrides the browser binary location when set.
	ExecPath string
}

// NewChromePDF creates a Chrome-backed PDF renderer. The browser path is
// taken from CHROME_PATH when present.
func NewChromePDF() *ChromePDF {
	return &ChromePDF{ExecPath: os.Getenv("CHROME_PATH")}
}

// RenderPDF writes the HTML to a temp file, loads it in headless Chrome,
// and prints it as A4 PDF. The caller controls the timeout via ctx.
func (r *ChromePDF) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	tmpDir, err := os.MkdirTemp("", "render-")
	if err != nil {
		return nil, &RenderError{Message: "failed to create temp dir", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &RenderError{Message: "failed to write html", Cause: err}
	}

	var pdfBuf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 paper in inches
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "failed to print pdf", Cause: err}
	}
	return pdfBuf, nil
}
