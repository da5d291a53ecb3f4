package twitter

import (
	"context"
	"time"

	"campaignscraper/pkg/browser"
	"campaignscraper/pkg/config"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
	"campaignscraper/pkg/retry"
)

// StopReason says why an extraction loop terminated.
type StopReason string

const (
	// StopLimitReached means the post limit was hit.
	StopLimitReached StopReason = "limit_reached"
	// StopNoProgress means scrolling stopped yielding new posts.
	StopNoProgress StopReason = "no_progress"
	// StopCancelled means the run context was cancelled.
	StopCancelled StopReason = "cancelled"
)

// ExtractionLoop drives the scan/scroll cycle over a profile page until the
// post limit is reached or scrolling stops producing new posts.
type ExtractionLoop struct {
	driver    browser.Driver
	parser    *Parser
	filter    *Filter
	selectors browser.Selectors
	cfg       config.ScrapeConfig
	log       logger.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExtractionLoop builds a loop over the given driver.
func NewExtractionLoop(driver browser.Driver, parser *Parser, filter *Filter, selectors browser.Selectors, cfg config.ScrapeConfig, log logger.Logger) *ExtractionLoop {
	return &ExtractionLoop{
		driver:    driver,
		parser:    parser,
		filter:    filter,
		selectors: selectors,
		cfg:       cfg,
		log:       log,
		sleep:     retry.Wait,
	}
}

// Run collects posts until MaxPosts is reached or MaxScrollAttempts
// consecutive iterations yield nothing new. A zero-element iteration counts
// as a no-progress scroll, not an error. Every stalled iteration still ends
// with a scroll; the attempt budget is checked at the top of the next pass,
// so k stalled iterations issue exactly k scrolls.
func (l *ExtractionLoop) Run(ctx context.Context, username string) ([]*models.PostRecord, StopReason, error) {
	var collected []*models.PostRecord
	seen := NewSeenSet()
	scrollAttempts := 0
	lastCount := 0

	for {
		if err := ctx.Err(); err != nil {
			return collected, StopCancelled, err
		}

		if scrollAttempts >= l.cfg.MaxScrollAttempts {
			l.log.WithFields(map[string]interface{}{
				"collected":       len(collected),
				"scroll_attempts": scrollAttempts,
			}).Info("no new posts after scrolling, stopping")
			return collected, StopNoProgress, nil
		}

		elements, err := l.driver.QueryAll(ctx, l.selectors.Posts)
		if err != nil {
			if ctx.Err() != nil {
				return collected, StopCancelled, err
			}
			l.log.WithError(err).Warn("post query failed, counting as no-progress scroll")
		}

		for _, el := range elements {
			if len(collected) >= l.cfg.MaxPosts {
				break
			}

			rec, ok := l.parser.Parse(el, username)
			if !ok {
				continue
			}

			if !l.filter.ShouldKeep(rec, seen) {
				continue
			}
			seen.Add(rec.Content)
			collected = append(collected, rec)
		}

		if len(collected) >= l.cfg.MaxPosts {
			l.log.WithField("collected", len(collected)).Info("post limit reached")
			return collected, StopLimitReached, nil
		}

		if len(collected) == lastCount {
			scrollAttempts++
		} else {
			scrollAttempts = 0
		}
		lastCount = len(collected)

		if err := l.driver.ScrollToBottom(ctx); err != nil {
			if ctx.Err() != nil {
				return collected, StopCancelled, err
			}
			l.log.WithError(err).Debug("scroll failed")
		}

		if err := l.sleep(ctx, l.cfg.ScrollDelay); err != nil {
			return collected, StopCancelled, err
		}
	}
}
