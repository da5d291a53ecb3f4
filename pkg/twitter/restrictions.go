package twitter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campaignscraper/pkg/browser"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/retry"
)

// AccessState classifies what is standing between the session and the
// profile content.
type AccessState string

const (
	AccessUnknown                   AccessState = "unknown"
	AccessClear                     AccessState = "clear"
	AccessBlockedBrowserUnsupported AccessState = "blocked_browser_unsupported"
	AccessBlockedLoginWall          AccessState = "blocked_login_wall"
	AccessBlockedRateLimited        AccessState = "blocked_rate_limited"
)

// Page text markers for each restriction.
const (
	markerBrowserUnsupported = "browser is no longer supported"
	markerLoginWall          = "Sign in"
	markerRateLimited        = "Rate limit exceeded"
)

// rateLimitCooldown is how long to back off when the page reports a rate
// limit before giving up on the account.
const rateLimitCooldown = 60 * time.Second

// AccessHandler inspects a freshly navigated profile page and works around
// bot-detection responses where it can. Its failures are advisory: the
// caller decides whether to proceed, the handler never aborts a run itself.
type AccessHandler struct {
	driver    browser.Driver
	selectors browser.Selectors
	log       logger.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewAccessHandler creates a handler over the given driver.
func NewAccessHandler(driver browser.Driver, selectors browser.Selectors, log logger.Logger) *AccessHandler {
	return &AccessHandler{
		driver:    driver,
		selectors: selectors,
		log:       log,
		sleep:     retry.Wait,
	}
}

// alternateURLs are fallback entry points tried when the primary page
// refuses the headless browser.
func alternateURLs(username string) []string {
	return []string{
		fmt.Sprintf("https://nitter.net/%s", username),
		fmt.Sprintf("https://mobile.twitter.com/%s", username),
	}
}

// Handle inspects the current page and returns the resulting access state.
// proceed is false when the account should be skipped this run. A dismissed
// login wall reports its state but still proceeds.
func (h *AccessHandler) Handle(ctx context.Context, username string) (AccessState, bool) {
	body, err := h.driver.BodyText(ctx)
	if err != nil {
		h.log.WithError(err).Warn("could not read page body, proceeding anyway")
		return AccessUnknown, true
	}

	switch {
	case strings.Contains(body, markerBrowserUnsupported):
		return h.tryAlternates(ctx, username)

	case strings.Contains(body, markerRateLimited):
		h.log.Warn("rate limit page detected, cooling down")
		if err := h.sleep(ctx, rateLimitCooldown); err != nil {
			return AccessBlockedRateLimited, false
		}
		return AccessBlockedRateLimited, false

	case strings.Contains(body, markerLoginWall):
		h.log.Info("login wall detected, dismissing overlay to view public content")
		h.dismissOverlay(ctx)
		return AccessBlockedLoginWall, true

	default:
		return AccessClear, true
	}
}

// tryAlternates walks the fallback entry URLs, settling on the first one
// that does not show the unsupported-browser marker.
func (h *AccessHandler) tryAlternates(ctx context.Context, username string) (AccessState, bool) {
	h.log.Warn("unsupported-browser page detected, trying alternate entry points")

	for _, url := range alternateURLs(username) {
		if err := h.driver.Navigate(ctx, url); err != nil {
			h.log.WithError(err).WithField("url", url).Debug("alternate entry failed")
			continue
		}

		body, err := h.driver.BodyText(ctx)
		if err != nil {
			continue
		}
		if !strings.Contains(body, markerBrowserUnsupported) {
			h.log.WithField("url", url).Info("alternate entry point accepted")
			return AccessClear, true
		}
	}

	return AccessBlockedBrowserUnsupported, false
}

// dismissOverlay clicks the first close button it can find. Best effort.
func (h *AccessHandler) dismissOverlay(ctx context.Context) {
	for _, sel := range h.selectors.DismissOverlay {
		js := fmt.Sprintf(
			`(function() { var b = document.querySelector(%q); if (b) { b.click(); return true; } return false; })()`,
			sel,
		)
		var clicked bool
		if err := h.driver.Evaluate(ctx, js, &clicked); err == nil && clicked {
			return
		}
	}
}
