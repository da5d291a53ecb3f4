package twitter

import (
	"strings"
	"time"

	"campaignscraper/pkg/config"
	"campaignscraper/pkg/models"
)

// SeenSet tracks content fingerprints within a single run. It is scoped to
// one account run and never shared.
type SeenSet struct {
	seen map[string]struct{}
}

// NewSeenSet creates an empty seen set.
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// fingerprint normalizes content for duplicate detection.
func fingerprint(content string) string {
	return strings.TrimSpace(content)
}

// Seen reports whether equivalent content was already recorded.
func (s *SeenSet) Seen(content string) bool {
	_, ok := s.seen[fingerprint(content)]
	return ok
}

// Add records content. Returns false if it was already present.
func (s *SeenSet) Add(content string) bool {
	fp := fingerprint(content)
	if _, ok := s.seen[fp]; ok {
		return false
	}
	s.seen[fp] = struct{}{}
	return true
}

// Len returns the number of distinct posts recorded.
func (s *SeenSet) Len() int {
	return len(s.seen)
}

// Filter decides which parsed records survive into the result set.
type Filter struct {
	cfg config.ScrapeConfig
	now func() time.Time
}

// NewFilter creates a filter for one run's scrape configuration.
func NewFilter(cfg config.ScrapeConfig) *Filter {
	return &Filter{cfg: cfg, now: time.Now}
}

// ShouldKeep applies duplicate, type and date checks in that order.
// A duplicate is never kept, whatever its metrics. Records with an
// unparseable timestamp are never dropped by the date window.
func (f *Filter) ShouldKeep(rec *models.PostRecord, seen *SeenSet) bool {
	if seen.Seen(rec.Content) {
		return false
	}

	if !f.cfg.IncludeRetweets && rec.MessageType == models.MessageTypeRetweet {
		return false
	}
	if !f.cfg.IncludeReplies && rec.MessageType == models.MessageTypeReply {
		return false
	}

	if f.cfg.DateLimitDays > 0 && rec.Parsed {
		cutoff := f.now().AddDate(0, 0, -f.cfg.DateLimitDays)
		if rec.PublishedAt.Before(cutoff) {
			return false
		}
	}

	return true
}
