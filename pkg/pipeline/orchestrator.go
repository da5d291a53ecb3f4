package pipeline

import (
	"context"
	"time"

	"campaignscraper/pkg/config"
	"campaignscraper/pkg/export"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
	"campaignscraper/pkg/retry"
)

// RunReport aggregates a multi-account run.
type RunReport struct {
	Organization string
	Results      []*models.PipelineResult
	TotalScraped int
	CombinedPath string
}

// Status is the worst per-account status in the report, so the process
// exit code reflects the least successful account.
func (r *RunReport) Status() models.Status {
	rank := map[models.Status]int{
		models.StatusSuccess: 0,
		models.StatusWarning: 1,
		models.StatusPartial: 2,
		models.StatusError:   3,
	}

	worst := models.StatusSuccess
	for _, res := range r.Results {
		if rank[res.Status] > rank[worst] {
			worst = res.Status
		}
	}
	return worst
}

// Orchestrator runs the pipeline across a list of accounts, one at a time,
// with a cool-down between accounts to stay under platform rate limits.
type Orchestrator struct {
	cfg      *config.Config
	runner   *Runner
	exporter *export.Manager
	log      logger.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error

	// records per account for the combined artifact
	collected map[string][]*models.PostRecord
}

// NewOrchestrator builds an orchestrator around a configured runner.
func NewOrchestrator(cfg *config.Config, runner *Runner, exporter *export.Manager, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		runner:   runner,
		exporter: exporter,
		log:      log,
		sleep:    retry.Wait,
	}
}

// Run processes the accounts in order. A failing account is reported and
// skipped, never fatal to the remaining accounts.
func (o *Orchestrator) Run(ctx context.Context, organization string, accounts []models.AccountSpec) *RunReport {
	report := &RunReport{Organization: organization}
	o.collected = make(map[string][]*models.PostRecord)

	o.log.WithFields(map[string]interface{}{
		"organization": organization,
		"accounts":     len(accounts),
	}).Info("starting multi-account run")

	for i, account := range accounts {
		if ctx.Err() != nil {
			o.log.Warn("run cancelled, skipping remaining accounts")
			break
		}

		result, records := o.runner.Run(ctx, account)
		report.Results = append(report.Results, result)
		report.TotalScraped += result.Scraped
		if len(records) > 0 {
			o.collected[account.Username] = records
		}

		// Cool down between accounts while more remain.
		if i < len(accounts)-1 {
			o.log.WithField("cooldown", o.cfg.AccountCooldown.String()).Debug("waiting before next account")
			if err := o.sleep(ctx, o.cfg.AccountCooldown); err != nil {
				break
			}
		}
	}

	if o.exporter != nil && len(o.collected) > 0 {
		path, err := o.exporter.WriteCombined(organization, o.collected)
		if err != nil {
			o.log.WithError(err).Warn("combined export failed")
		} else {
			report.CombinedPath = path
		}
	}

	o.log.WithFields(map[string]interface{}{
		"organization":  organization,
		"accounts_run":  len(report.Results),
		"total_scraped": report.TotalScraped,
		"status":        string(report.Status()),
	}).Info("multi-account run finished")

	return report
}
