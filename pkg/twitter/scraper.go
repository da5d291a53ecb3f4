package twitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campaignscraper/pkg/browser"
	"campaignscraper/pkg/config"
	errs "campaignscraper/pkg/errors"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
	"campaignscraper/pkg/retry"
)

// Scraper runs one account's scrape: navigate to the profile, work through
// access restrictions, then extract posts until a stop condition.
type Scraper struct {
	driver    browser.Driver
	selectors browser.Selectors
	cfg       config.ScrapeConfig
	log       logger.Logger

	access *AccessHandler
	loop   *ExtractionLoop
	nav    *retry.Retrier
}

// NewScraper wires the scraping components over one browser driver.
func NewScraper(driver browser.Driver, selectors browser.Selectors, cfg config.ScrapeConfig, log logger.Logger) *Scraper {
	parser := NewParser(selectors, log)
	filter := NewFilter(cfg)

	// Navigation timeouts are usually a slow page, worth one more attempt.
	nav := retry.NewRetrier(&retry.Config{
		MaxAttempts: 2,
		Backoff:     &retry.ConstantBackoff{Delay: 2 * time.Second},
		RetryIf: func(err error) bool {
			var e *errs.Error
			return errors.As(err, &e) && e.Type == errs.ErrorTypeNavigation
		},
		Logger: log,
	})

	return &Scraper{
		driver:    driver,
		selectors: selectors,
		cfg:       cfg,
		log:       log,
		access:    NewAccessHandler(driver, selectors, log),
		loop:      NewExtractionLoop(driver, parser, filter, selectors, cfg, log),
		nav:       nav,
	}
}

// ProfileURL builds the canonical profile URL for a username, with or
// without a leading @.
func ProfileURL(username string) string {
	return fmt.Sprintf("https://x.com/%s", strings.TrimPrefix(username, "@"))
}

// Scrape collects posts for one account. A blocked account returns an empty
// result with StopNoProgress rather than an error; the caller treats it as
// a warning, not a failure.
func (s *Scraper) Scrape(ctx context.Context, username string) ([]*models.PostRecord, StopReason, error) {
	username = strings.TrimPrefix(username, "@")
	url := ProfileURL(username)

	log := s.log.WithField("username", username)
	log.WithField("url", url).Info("starting profile scrape")

	navigate := func() error { return s.driver.Navigate(ctx, url) }
	if err := s.nav.WithContext(ctx).Do(navigate); err != nil {
		return nil, StopNoProgress, err
	}

	// Let the timeline settle before inspecting the page.
	if err := retry.Wait(ctx, s.cfg.LoadDelay); err != nil {
		return nil, StopCancelled, err
	}

	state, proceed := s.access.Handle(ctx, username)
	if !proceed {
		log.WithField("state", string(state)).Warn("account blocked, skipping")
		return nil, StopNoProgress, nil
	}

	// Alternates may have moved us off the primary host.
	if loc, err := s.driver.Location(ctx); err == nil && loc != url {
		log.WithField("location", loc).Debug("scraping from alternate entry point")
	}

	records, reason, err := s.loop.Run(ctx, username)
	if err != nil {
		return records, reason, err
	}

	log.WithFields(map[string]interface{}{
		"collected": len(records),
		"reason":    string(reason),
	}).Info("profile scrape finished")

	return records, reason, nil
}
