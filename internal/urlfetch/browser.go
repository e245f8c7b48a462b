package urlfetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	browserLoadTimeout = 60 * time.Second
	networkIdleWait    = 10 * time.Second

	scrollStepWait = 300 * time.Millisecond
	expandWait     = time.Second
	settleWait     = 500 * time.Millisecond
)

// expandClickScript clicks "더보기"-style buttons so collapsed JD bodies end
// up in the final HTML. Evaluates to the number of elements clicked.
const expandClickScript = `() => {
	const patterns = [
		'상세 정보 더 보기', '상세정보 더보기', '상세정보 더 보기', '더보기', '더 보기',
		'자세히 보기', '자세히보기', '펼치기', '전체보기', '전체 보기',
		'내용 더보기', '내용 더 보기',
		'Show more', 'View more', 'Read more', 'See more', 'Expand',
		'Load more', 'See full description', 'View full description'
	];
	let clicked = 0;
	const elements = document.querySelectorAll('button, a, span, div, [role="button"]');
	for (const el of elements) {
		const text = (el.textContent || '').trim();
		for (const pattern of patterns) {
			if (text === pattern || text.includes(pattern)) {
				const rect = el.getBoundingClientRect();
				if (rect.width > 0 && rect.height > 0) {
					try { el.click(); clicked++; } catch (e) {}
					break;
				}
			}
		}
	}
	return clicked;
}`

// BrowserRenderer renders pages in headless Chromium. Each Render call uses a
// fresh browser so a crashed page cannot poison later fetches.
type BrowserRenderer struct {
	headless bool
	timeout  time.Duration
	logger   *slog.Logger
}

// NewBrowserRenderer returns a headless renderer with the default load timeout.
func NewBrowserRenderer(logger *slog.Logger) *BrowserRenderer {
	if logger == nil {
		logger = slog.Default()
	}

	return &BrowserRenderer{headless: true, timeout: browserLoadTimeout, logger: logger}
}

// Render loads url, waits for the network to settle, scrolls for lazy-loaded
// content, expands collapsed sections, and returns the resulting HTML.
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	controlURL, err := launcher.New().Headless(b.headless).Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect browser: %w", err)
	}

	defer func() {
		if err := browser.Close(); err != nil {
			b.logger.Debug("browser close failed", "error", err)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	page = page.Timeout(b.timeout)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: browserUA}); err != nil {
		b.logger.Debug("set user agent failed", "error", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1920, Height: 1080}); err != nil {
		b.logger.Debug("set viewport failed", "error", err)
	}

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate to %s: %w", url, err)
	}

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait for %s to load: %w", url, err)
	}

	// Best effort only. Pages with analytics beacons never go fully idle.
	if err := page.Timeout(networkIdleWait).WaitIdle(networkIdleWait); err != nil {
		b.logger.Debug("network idle wait timed out", "url", url)
	}

	b.scroll(page)
	b.expand(page, url)

	time.Sleep(settleWait)

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read HTML of %s: %w", url, err)
	}

	b.logger.Info("browser render complete", "url", url, "length", len(html))

	return html, nil
}

// scroll walks the page down and back up so lazy-loaded blocks and
// top-anchored expand buttons are both reachable.
func (b *BrowserRenderer) scroll(page *rod.Page) {
	steps := []string{
		`() => window.scrollTo(0, document.body.scrollHeight / 2)`,
		`() => window.scrollTo(0, document.body.scrollHeight)`,
		`() => window.scrollTo(0, 0)`,
	}

	for _, js := range steps {
		if _, err := page.Eval(js); err != nil {
			b.logger.Debug("scroll failed", "error", err)
			return
		}

		time.Sleep(scrollStepWait)
	}
}

// expand clicks collapsed-section buttons. Failures are logged and ignored;
// the partially expanded page is still usable.
func (b *BrowserRenderer) expand(page *rod.Page, url string) {
	obj, err := page.Eval(expandClickScript)
	if err != nil {
		b.logger.Debug("expand click failed", "url", url, "error", err)
		return
	}

	if clicked := obj.Value.Int(); clicked > 0 {
		b.logger.Info("expanded collapsed sections", "url", url, "clicked", clicked)
		time.Sleep(expandWait)
	}
}
