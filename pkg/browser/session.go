package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"campaignscraper/pkg/config"
	errs "campaignscraper/pkg/errors"
	"campaignscraper/pkg/logger"
)

// stealthScript overrides navigator properties that headless Chrome leaks.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {
	get: () => undefined,
});

Object.defineProperty(navigator, 'plugins', {
	get: () => [1, 2, 3, 4, 5],
});

Object.defineProperty(navigator, 'languages', {
	get: () => ['en-US', 'en'],
});

window.chrome = {
	runtime: {},
};
`

// extraHeaders are sent with every request to look like a regular browser.
var extraHeaders = network.Headers{
	"Accept-Language":           "en-US,en;q=0.9",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Upgrade-Insecure-Requests": "1",
}

// Session is a chromedp-backed Driver. One Session owns one browser tab;
// sessions are never shared across account runs.
type Session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	cfg         config.BrowserConfig
	log         logger.Logger

	closeOnce sync.Once
}

// NewSession launches a browser with anti-detection flags applied and
// returns a ready Driver. The caller must Close the session on every path.
func NewSession(cfg config.BrowserConfig, log logger.Logger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {
		// chromedp's own chatter goes through the structured logger instead
	}))

	s := &Session{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		cfg:         cfg,
		log:         log,
	}

	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(cfg.ViewportWidth), int64(cfg.ViewportHeight)),
		network.Enable(),
		network.SetExtraHTTPHeaders(extraHeaders),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize browser session: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"headless": cfg.Headless,
		"viewport": fmt.Sprintf("%dx%d", cfg.ViewportWidth, cfg.ViewportHeight),
	}).Debug("browser session started")

	return s, nil
}

// run executes chromedp actions under the session tab, bounded by the
// navigation timeout and the caller's context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.cfg.NavigationTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate loads the URL and waits for the document body. A timeout maps to
// a navigation error, which callers treat as recoverable.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.log.WithField("url", url).Debug("navigating")

	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errs.Newf(errs.ErrorTypeNavigation, "navigation to %s timed out", url)
		}
		if ctx.Err() != nil {
			return err
		}
		return errs.Newf(errs.ErrorTypeNavigation, "navigation to %s failed: %v", url, err)
	}
	return nil
}

// QueryAll captures the outer HTML of all elements matched by the first
// selector that yields any.
func (s *Session) QueryAll(ctx context.Context, selectors []string) ([]RawElement, error) {
	for _, sel := range selectors {
		js := fmt.Sprintf(
			`Array.from(document.querySelectorAll(%q)).map(function(e) { return e.outerHTML; })`,
			sel,
		)

		var parts []string
		if err := s.run(ctx, chromedp.Evaluate(js, &parts)); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.log.WithError(err).WithField("selector", sel).Debug("selector query failed")
			continue
		}

		if len(parts) > 0 {
			elements := make([]RawElement, len(parts))
			for i, html := range parts {
				elements[i] = RawElement{HTML: html, Index: i}
			}
			return elements, nil
		}
	}

	return nil, nil
}

// Evaluate runs a JavaScript expression in the page.
func (s *Session) Evaluate(ctx context.Context, js string, out interface{}) error {
	return s.run(ctx, chromedp.Evaluate(js, out))
}

// ScrollToBottom scrolls the window to the end of the document.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

// BodyText returns the visible text of the page body.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	var text string
	err := s.run(ctx, chromedp.Text("body", &text, chromedp.ByQuery))
	return text, err
}

// Location returns the current page URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	err := s.run(ctx, chromedp.Location(&url))
	return url, err
}

// Close releases the tab and the allocator. Idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancelTab()
		s.cancelAlloc()
		if s.log != nil {
			s.log.Debug("browser session closed")
		}
	})
	return nil
}
