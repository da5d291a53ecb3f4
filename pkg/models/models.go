package models

import "time"

// MessageType classifies a scraped post by its content shape.
type MessageType string

const (
	MessageTypePost    MessageType = "post"
	MessageTypeReply   MessageType = "reply"
	MessageTypeRetweet MessageType = "retweet"
	MessageTypeQuote   MessageType = "quote"
)

// PostRecord is one scraped post in canonical form.
type PostRecord struct {
	// Content is the post text as rendered on the page.
	Content string `json:"content"`
	// URL is the post permalink, when one could be resolved.
	URL string `json:"url,omitempty"`
	// PublishedAt is the post timestamp. Zero when the page gave no
	// parseable timestamp; check Parsed before trusting it.
	PublishedAt time.Time `json:"published_at"`
	// Parsed reports whether PublishedAt came from the page.
	Parsed bool `json:"-"`
	// MessageType is post, reply or retweet as inferred from content.
	MessageType MessageType `json:"message_type"`
	// Metrics holds engagement counts keyed by metric name
	// (replies, retweets, likes).
	Metrics map[string]int `json:"metrics,omitempty"`
	// Links are absolute URLs found in the post, in document order.
	Links []string `json:"links,omitempty"`
	// RawMeta carries extraction provenance for the ingestion API.
	RawMeta map[string]interface{} `json:"raw_meta,omitempty"`
}

// AccountSpec identifies one account to scrape.
type AccountSpec struct {
	Username     string `json:"username"`
	Organization string `json:"organization"`
	// Type is the account category from the accounts file (e.g. "official",
	// "leader"). Informational only.
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// ErrorDetail records one non-fatal failure inside a pipeline run.
type ErrorDetail struct {
	// Stage names where the failure happened (scrape, transform, submit).
	Stage string `json:"stage"`
	// Batch is the 1-based batch number for submission errors, 0 otherwise.
	Batch int `json:"batch,omitempty"`
	// Message is the human-readable failure description.
	Message string `json:"message"`
}

// SubmissionResult aggregates the outcome of all batch submissions in a run.
type SubmissionResult struct {
	Imported int           `json:"imported_count"`
	Skipped  int           `json:"skipped_count"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// Status is the overall outcome of a pipeline run.
type Status string

const (
	// StatusSuccess means everything scraped was accepted.
	StatusSuccess Status = "success"
	// StatusWarning means the run completed but found nothing to submit.
	StatusWarning Status = "warning"
	// StatusPartial means some batches failed but others were imported.
	StatusPartial Status = "partial"
	// StatusError means nothing was submitted despite having scraped posts.
	StatusError Status = "error"
)

// ExitCode maps a run status to the process exit code.
func (s Status) ExitCode() int {
	switch s {
	case StatusSuccess, StatusWarning:
		return 0
	case StatusPartial:
		return 2
	default:
		return 1
	}
}

// PipelineResult is the final report for one account run.
type PipelineResult struct {
	Status        Status        `json:"status"`
	Username      string        `json:"username"`
	PartyID       int           `json:"party_id"`
	Scraped       int           `json:"scraped"`
	Submitted     int           `json:"submitted"`
	Skipped       int           `json:"skipped"`
	Errors        []ErrorDetail `json:"errors,omitempty"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// FinalizeStatus derives the run status from the counters.
// Priority: error, warning, partial, success.
func FinalizeStatus(scraped, imported int, errs []ErrorDetail) Status {
	switch {
	case imported == 0 && scraped > 0 && len(errs) > 0:
		return StatusError
	case scraped == 0:
		return StatusWarning
	case len(errs) > 0 && imported > 0:
		return StatusPartial
	default:
		return StatusSuccess
	}
}
