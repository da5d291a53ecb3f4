package twitter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignscraper/pkg/browser"
	"campaignscraper/pkg/config"
	errs "campaignscraper/pkg/errors"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/retry"
)

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://x.com/UKLabour", ProfileURL("UKLabour"))
	assert.Equal(t, "https://x.com/UKLabour", ProfileURL("@UKLabour"))
}

func TestScrapeHappyPath(t *testing.T) {
	driver := &fakeDriver{
		bodies: []string{"profile page"},
		pages: [][]browser.RawElement{
			elementsOf(
				postHTML("first post", "2026-03-01T10:00:00Z"),
				postHTML("second post", "2026-03-01T11:00:00Z"),
			),
		},
	}

	cfg := config.ScrapeConfig{
		MaxPosts:          2,
		MaxScrollAttempts: 3,
		IncludeRetweets:   true,
	}
	s := NewScraper(driver, browser.DefaultSelectors(), cfg, logger.NewNopLogger())
	s.loop.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	records, reason, err := s.Scrape(context.Background(), "@some_party")
	require.NoError(t, err)

	assert.Equal(t, StopLimitReached, reason)
	assert.Len(t, records, 2)
	require.NotEmpty(t, driver.navigations)
	assert.Equal(t, "https://x.com/some_party", driver.navigations[0])
}

func TestScrapeRetriesNavigationTimeout(t *testing.T) {
	driver := &fakeDriver{
		bodies: []string{"profile page"},
		navigateErrs: []error{
			errs.New(errs.ErrorTypeNavigation, "navigation timed out"),
		},
		pages: [][]browser.RawElement{
			elementsOf(postHTML("finally loaded", "2026-03-01T10:00:00Z")),
		},
	}

	cfg := config.ScrapeConfig{MaxPosts: 1, MaxScrollAttempts: 3, IncludeRetweets: true}
	s := NewScraper(driver, browser.DefaultSelectors(), cfg, logger.NewNopLogger())
	s.nav = retry.NewRetrier(&retry.Config{
		MaxAttempts: 2,
		Backoff:     &retry.ConstantBackoff{Delay: 0},
		RetryIf: func(err error) bool {
			var e *errs.Error
			return errors.As(err, &e) && e.Type == errs.ErrorTypeNavigation
		},
		Logger: logger.NewNopLogger(),
	})

	records, reason, err := s.Scrape(context.Background(), "some_party")
	require.NoError(t, err)

	assert.Equal(t, StopLimitReached, reason)
	assert.Len(t, records, 1)
	assert.Len(t, driver.navigations, 2)
}

func TestScrapeBlockedAccountIsNotAnError(t *testing.T) {
	driver := &fakeDriver{bodies: []string{
		"This browser is no longer supported",
		"This browser is no longer supported",
		"This browser is no longer supported",
	}}

	cfg := config.ScrapeConfig{MaxPosts: 10, MaxScrollAttempts: 3}
	s := NewScraper(driver, browser.DefaultSelectors(), cfg, logger.NewNopLogger())

	records, reason, err := s.Scrape(context.Background(), "some_party")
	require.NoError(t, err)

	assert.Equal(t, StopNoProgress, reason)
	assert.Empty(t, records)
}
