package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campaignscraper/pkg/api"
	"campaignscraper/pkg/config"
	errs "campaignscraper/pkg/errors"
	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
	"campaignscraper/pkg/ratelimit"
	"campaignscraper/pkg/retry"
)

// interBatchPause is the short breath between consecutive batches, on top
// of the request rate limit.
const interBatchPause = 1 * time.Second

// BulkSubmitter is the slice of the API client the submitter needs.
type BulkSubmitter interface {
	SubmitBulk(ctx context.Context, partyID int, msgs []api.WireMessage) (*api.BulkResponse, error)
}

// Submitter ships transformed messages to the ingestion API in ordered,
// rate-limited, retried batches.
type Submitter struct {
	client  BulkSubmitter
	limiter ratelimit.Limiter
	cfg     config.APIConfig
	log     logger.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSubmitter creates a submitter over the given client. The limiter
// gates every request against the API rate budget.
func NewSubmitter(client BulkSubmitter, limiter ratelimit.Limiter, cfg config.APIConfig, log logger.Logger) *Submitter {
	return &Submitter{
		client:  client,
		limiter: limiter,
		cfg:     cfg,
		log:     log,
		sleep:   retry.Wait,
	}
}

// Submit chunks msgs into ordered batches and submits them sequentially.
// A failed batch is recorded and does not discard other batches' successes.
func (s *Submitter) Submit(ctx context.Context, partyID int, msgs []api.WireMessage) models.SubmissionResult {
	var result models.SubmissionResult

	if len(msgs) == 0 {
		return result
	}

	batchSize := s.cfg.BatchSize
	batchCount := (len(msgs) + batchSize - 1) / batchSize
	s.log.WithFields(map[string]interface{}{
		"messages": len(msgs),
		"batches":  batchCount,
	}).Info("submitting messages")

	for i := 0; i < len(msgs); i += batchSize {
		end := i + batchSize
		if end > len(msgs) {
			end = len(msgs)
		}
		batchNum := i/batchSize + 1
		batch := msgs[i:end]

		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, models.ErrorDetail{
				Stage:   "submit",
				Batch:   batchNum,
				Message: fmt.Sprintf("submission cancelled: %v", err),
			})
			return result
		}

		resp, err := s.submitBatch(ctx, partyID, batch)
		if err != nil {
			s.log.WithError(err).WithField("batch", batchNum).Error("batch submission failed")
			result.Errors = append(result.Errors, models.ErrorDetail{
				Stage:   "submit",
				Batch:   batchNum,
				Message: err.Error(),
			})
		} else {
			result.Imported += resp.ImportedCount
			result.Skipped += resp.SkippedCount
			for _, e := range resp.Errors {
				result.Errors = append(result.Errors, models.ErrorDetail{
					Stage:   "submit",
					Batch:   batchNum,
					Message: fmt.Sprint(e),
				})
			}
		}

		// Brief pause between batches
		if end < len(msgs) {
			if err := s.sleep(ctx, interBatchPause); err != nil {
				return result
			}
		}
	}

	return result
}

// submitBatch submits one batch with retries. Transport failures, rate
// limits and 5xx responses retry; a 4xx is terminal for the batch.
func (s *Submitter) submitBatch(ctx context.Context, partyID int, batch []api.WireMessage) (*api.BulkResponse, error) {
	op := func() (*api.BulkResponse, error) {
		if err := ratelimit.WaitContext(ctx, s.limiter); err != nil {
			return nil, err
		}
		return s.client.SubmitBulk(ctx, partyID, batch)
	}

	return retry.DoWithResult(op, &retry.Config{
		MaxAttempts: s.cfg.MaxAttempts,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:  s.cfg.RetryDelay,
			Multiplier: 2.0,
		},
		RetryIf: func(err error) bool {
			var apiErr *errs.Error
			if errors.As(err, &apiErr) {
				return errs.IsRetryable(apiErr.Type)
			}
			return false
		},
		Context: ctx,
		Logger:  s.log,
		Sleep:   s.sleep,
	})
}
