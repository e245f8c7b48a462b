// Package urlfetch retrieves job-posting pages and distills their HTML down
// to clean body lines. Static HTTP is tried first; pages that ship an empty
// client-side shell are re-fetched through a headless browser.
package urlfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	fetchTimeout = 10 * time.Second
	browserUA    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Responses shorter than this are assumed to be an unrendered shell.
	minRenderedLength = 500

	fetchRatePerSecond = 2
	fetchBurst         = 2
)

// spaIndicators mark single-page-app shells that ship no server-rendered body.
var spaIndicators = []string{
	`<div id="app"></div>`,
	`<div id="root"></div>`,
	`<div id="__next"></div>`,
	`<body></body>`,
	"You need to enable JavaScript to run this app",
}

// renderCheckKeywords: a JD page that rendered server-side carries at least
// one of these in its HTML.
var renderCheckKeywords = []string{
	"자격요건", "우대사항", "담당업무", "주요업무", "지원자격", "복리후생", "채용절차", "전형절차", "기술스택",
	"Requirements", "Responsibilities", "Qualifications", "Preferred", "Description", "Benefits", "About the role",
}

// Renderer loads a page through a real browser so client-side content is
// present in the returned HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Fetcher retrieves JD pages. It rate-limits outbound requests and falls back
// to the configured Renderer when the static response looks unrendered.
type Fetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	renderer Renderer
	logger   *slog.Logger
}

// NewFetcher returns a Fetcher. renderer may be nil, in which case shell
// pages are returned as-is.
func NewFetcher(renderer Renderer, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Fetcher{
		client:   &http.Client{Timeout: fetchTimeout},
		limiter:  rate.NewLimiter(rate.Limit(fetchRatePerSecond), fetchBurst),
		renderer: renderer,
		logger:   logger,
	}
}

// Fetch returns the page HTML for url. A static failure is retried through
// the renderer; a shell page is re-fetched through the renderer, and the
// render error propagates so the caller can fail the request as retryable.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := f.fetchStatic(ctx, url)
	if err != nil {
		if f.renderer == nil {
			return "", err
		}

		f.logger.Warn("static fetch failed, retrying in browser", "url", url, "error", err)

		rendered, rerr := f.renderer.Render(ctx, url)
		if rerr != nil {
			return "", fmt.Errorf("render %s after static failure: %w", url, rerr)
		}

		return rendered, nil
	}

	if !NeedsRendering(html) {
		return html, nil
	}

	if f.renderer == nil {
		f.logger.Warn("page likely needs JS rendering but no renderer is configured", "url", url)
		return html, nil
	}

	f.logger.Info("static response looks unrendered, retrying in browser", "url", url)

	rendered, err := f.renderer.Render(ctx, url)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	return rendered, nil
}

func (f *Fetcher) fetchStatic(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", browserUA)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}

	return string(body), nil
}

// NeedsRendering reports whether html looks like an unrendered client-side
// shell rather than a server-rendered JD page.
func NeedsRendering(html string) bool {
	if html == "" {
		return true
	}

	if len(html) < minRenderedLength {
		return true
	}

	for _, indicator := range spaIndicators {
		if strings.Contains(html, indicator) {
			return true
		}
	}

	for _, keyword := range renderCheckKeywords {
		if strings.Contains(html, keyword) {
			return false
		}
	}

	// No JD vocabulary anywhere in the document. The body may still be an
	// image, but from a text standpoint rendering is worth one attempt.
	return true
}
