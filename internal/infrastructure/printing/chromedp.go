package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// footerMarginMM is the smallest bottom margin that still fits a page footer
const footerMarginMM = 10

// ChromedpConfig configures the Chrome backed renderer.
type ChromedpConfig struct {
	// DefaultTimeout bounds a render when the request sets none (30s if zero)
	DefaultTimeout time.Duration
	// RemoteURL is the DevTools websocket of a running Chrome; empty launches
	// a local headless browser
	RemoteURL string
	// NoSandbox is required when Chrome runs as root inside a container
	NoSandbox bool
	// Scale is the page zoom (1.0 if zero)
	Scale  float64
	Logger *zap.Logger
}

// ChromedpRenderer prints HTML to A4 PDF in a fresh tab per request.
type ChromedpRenderer struct {
	timeout  time.Duration
	scale    float64
	logger   *zap.Logger
	browser  context.Context
	shutdown context.CancelFunc
}

// NewChromedpRenderer prepares the browser allocator. Chrome itself is only
// started by the first Render.
func NewChromedpRenderer(cfg ChromedpConfig) *ChromedpRenderer {
	r := &ChromedpRenderer{
		timeout: cfg.DefaultTimeout,
		scale:   cfg.Scale,
		logger:  cfg.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = 30 * time.Second
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.browser, r.shutdown = allocator(cfg)
	return r
}

func allocator(cfg ChromedpConfig) (context.Context, context.CancelFunc) {
	if cfg.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	}
	flags := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	}
	if cfg.NoSandbox {
		flags = append(flags, chromedp.NoSandbox)
	}
	return chromedp.NewExecAllocator(context.Background(),
		append(chromedp.DefaultExecAllocatorOptions[:], flags...)...)
}

// Render prints req to PDF. Failures are *RenderError values.
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tab, closeTab := chromedp.NewContext(r.browser, chromedp.WithLogf(r.logger.Sugar().Debugf))
	defer closeTab()
	defer context.AfterFunc(ctx, closeTab)()

	started := time.Now()
	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		loadDocument(wrapDocument(req)),
		printTo(r.pdfParams(req), &pdf),
	)
	if err != nil {
		return nil, renderFailure(ctx, err, timeout)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	res := &RenderResult{PDFData: pdf, PageCount: estimatePageCount(pdf), RenderDuration: time.Since(started)}
	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", res.PageCount),
		zap.Duration("duration", res.RenderDuration))
	return res, nil
}

// Close stops the browser.
func (r *ChromedpRenderer) Close() error {
	if r.shutdown != nil {
		r.shutdown()
	}
	return nil
}

func loadDocument(doc string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
	})
}

func printTo(params *page.PrintToPDFParams, out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := params.Do(ctx)
		*out = data
		return err
	})
}

// pdfParams lays req out on an A4 sheet. Sizes are in inches.
func (r *ChromedpRenderer) pdfParams(req *RenderRequest) *page.PrintToPDFParams {
	bottom := req.Margins.Bottom
	if req.FooterHTML != "" {
		bottom = max(bottom, footerMarginMM)
	}
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(mmToInches(a4WidthMM)).
		WithPaperHeight(mmToInches(a4HeightMM)).
		WithMarginTop(mmToInches(float64(req.Margins.Top))).
		WithMarginRight(mmToInches(float64(req.Margins.Right))).
		WithMarginBottom(mmToInches(float64(bottom))).
		WithMarginLeft(mmToInches(float64(req.Margins.Left))).
		WithScale(r.scale).
		WithLandscape(req.Landscape).
		WithDisplayHeaderFooter(req.FooterHTML != "").
		WithHeaderTemplate("<span></span>").
		WithFooterTemplate(req.FooterHTML)
}

func renderFailure(ctx context.Context, err error, timeout time.Duration) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}
	return NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
}

// wrapDocument turns an HTML fragment into a UTF-8 page. Complete documents
// are returned unchanged.
func wrapDocument(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}
	title := ""
	if req.Title != "" {
		title = "<title>" + html.EscapeString(req.Title) + "</title>"
	}
	return `<!DOCTYPE html><html><head><meta charset="UTF-8">` + title + "</head><body>" + req.HTML + "</body></html>"
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
