// Package export turns rendered resumes into PDF documents and optionally stores them
// in object storage.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Converter turns a self-contained HTML document into a PDF
type Converter interface {
	HTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeConverter prints HTML through headless Chrome. Each call starts its own browser.
type ChromeConverter struct {
	execPath string
	timeout  time.Duration
}

// NewChromeConverter creates a converter. An empty execPath lets chromedp find Chrome.
func NewChromeConverter(execPath string, timeout time.Duration) *ChromeConverter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeConverter{execPath: execPath, timeout: timeout}
}

// HTMLToPDF loads html into a blank page and prints it with the document's @page size
func (c *ChromeConverter) HTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, c.timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// Letter fallback: 8.5in x 11in
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}
