package pipeline

import (
	"context"
	"fmt"
	"time"

	"campaignscraper/pkg/api"
	"campaignscraper/pkg/browser"
	"campaignscraper/pkg/config"
	"campaignscraper/pkg/export"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
	"campaignscraper/pkg/ratelimit"
	"campaignscraper/pkg/twitter"
)

// APIClient is the slice of the ingestion client the runner needs.
type APIClient interface {
	BulkSubmitter
	Health(ctx context.Context) error
	GetParty(ctx context.Context, id int) (*api.Party, error)
}

// DriverFactory opens a fresh browser session. Tests inject a fake.
type DriverFactory func(cfg config.BrowserConfig, log logger.Logger) (browser.Driver, error)

// Runner executes one account's pipeline end to end: verify the API, open
// a browser, scrape, transform, submit, export.
type Runner struct {
	cfg       *config.Config
	client    APIClient
	newDriver DriverFactory
	exporter  *export.Manager
	selectors browser.Selectors
	log       logger.Logger

	// DryRun skips submission; scraping and export still run.
	DryRun bool

	now func() time.Time
}

// NewRunner builds a runner. exporter may be nil to skip artifact writing.
func NewRunner(cfg *config.Config, client APIClient, newDriver DriverFactory, exporter *export.Manager, log logger.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		client:    client,
		newDriver: newDriver,
		exporter:  exporter,
		selectors: browser.DefaultSelectors(),
		log:       log,
		now:       time.Now,
	}
}

// shouldSubmit reports whether this run ships records to the API.
func (r *Runner) shouldSubmit() bool {
	return !r.DryRun && r.cfg.API.PartyID > 0
}

// Run executes the pipeline for one account and returns the run report
// along with the scraped records. The browser session is closed on every
// path.
func (r *Runner) Run(ctx context.Context, account models.AccountSpec) (*models.PipelineResult, []*models.PostRecord) {
	start := r.now()
	log := r.log.WithField("username", account.Username)

	result := &models.PipelineResult{
		Status:   models.StatusSuccess,
		Username: account.Username,
		PartyID:  r.cfg.API.PartyID,
	}
	defer func() {
		result.ExecutionTime = r.now().Sub(start)
	}()

	fail := func(stage string, err error) {
		log.WithError(err).Error("pipeline run failed")
		result.Status = models.StatusError
		result.Errors = append(result.Errors, models.ErrorDetail{
			Stage:   stage,
			Message: err.Error(),
		})
	}

	// Verify the API before spending any browser time.
	if r.shouldSubmit() {
		if err := r.client.Health(ctx); err != nil {
			fail("pipeline", fmt.Errorf("cannot connect to API: %w", err))
			return result, nil
		}

		party, err := r.client.GetParty(ctx, r.cfg.API.PartyID)
		if err != nil {
			fail("pipeline", err)
			return result, nil
		}
		if !party.Active {
			fail("pipeline", fmt.Errorf("party %d (%s) is not active", party.ID, party.Name))
			return result, nil
		}
		log.WithField("party", party.Name).Info("party verified")
	}

	records, err := r.scrape(ctx, account.Username)
	result.Scraped = len(records)
	if err != nil {
		if ctx.Err() != nil {
			fail("scrape", err)
			return result, records
		}
		// Non-fatal: keep whatever was collected before the failure.
		log.WithError(err).Warn("scrape ended with error, keeping partial results")
		result.Errors = append(result.Errors, models.ErrorDetail{
			Stage:   "scrape",
			Message: err.Error(),
		})
	}

	if r.exporter != nil && len(records) > 0 {
		if _, err := r.exporter.WriteAccount(account.Username, records); err != nil {
			log.WithError(err).Warn("export failed")
			result.Errors = append(result.Errors, models.ErrorDetail{
				Stage:   "export",
				Message: err.Error(),
			})
		}
	}

	if len(records) == 0 {
		log.Warn("no posts scraped, pipeline completed with no data")
		result.Status = models.StatusWarning
		return result, records
	}

	if r.shouldSubmit() {
		transformer := NewTransformer(account.Username, start)
		msgs := transformer.TransformAll(records)

		limiter := ratelimit.PerMinute(r.cfg.API.RequestsPerMinute)
		submitter := NewSubmitter(r.client, limiter, r.cfg.API, log)

		sub := submitter.Submit(ctx, r.cfg.API.PartyID, msgs)
		result.Submitted = sub.Imported
		result.Skipped = sub.Skipped
		result.Errors = append(result.Errors, sub.Errors...)
	} else {
		log.Info("submission skipped")
	}

	result.Status = models.FinalizeStatus(result.Scraped, result.Submitted, result.Errors)

	log.WithFields(map[string]interface{}{
		"status":    string(result.Status),
		"scraped":   result.Scraped,
		"submitted": result.Submitted,
		"skipped":   result.Skipped,
		"errors":    len(result.Errors),
	}).Info("pipeline run finished")

	return result, records
}

// scrape opens a fresh browser session for the account and collects posts.
// The session closes on every path, including cancellation.
func (r *Runner) scrape(ctx context.Context, username string) ([]*models.PostRecord, error) {
	driver, err := r.newDriver(r.cfg.Browser, r.log)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer driver.Close()

	scraper := twitter.NewScraper(driver, r.selectors, r.cfg.Scrape, r.log)
	records, _, err := scraper.Scrape(ctx, username)
	return records, err
}
