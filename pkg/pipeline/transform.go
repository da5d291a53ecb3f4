package pipeline

import (
	"strings"
	"time"

	"campaignscraper/pkg/api"
	"campaignscraper/pkg/models"
)

// pipelineVersion is reported in message metadata for ingestion provenance.
const pipelineVersion = "1.0"

// localKeywords mark content about a constituency or town.
var localKeywords = []string{
	"constituency", "local", "ward", "council", "mayor", "town", "city",
	"neighbourhood", "community", "residents", "voters in",
}

// regionalKeywords mark content about a region or nation of the UK.
var regionalKeywords = []string{
	"region", "county", "district", "scotland", "wales", "northern ireland",
	"yorkshire", "midlands", "north", "south", "east", "west",
}

// GeographicScope classifies content as local, regional or national by
// keyword heuristic. National is the default.
func GeographicScope(content string) string {
	lower := strings.ToLower(content)

	for _, kw := range localKeywords {
		if strings.Contains(lower, kw) {
			return "local"
		}
	}
	for _, kw := range regionalKeywords {
		if strings.Contains(lower, kw) {
			return "regional"
		}
	}
	return "national"
}

// Transformer maps scraped posts to the ingestion wire schema for one
// account run.
type Transformer struct {
	username string
	// discoveredAt is substituted for timestamps the scraper could not
	// parse. Provenance stays honest: the substitution happens here, not
	// at parse time.
	discoveredAt time.Time
}

// NewTransformer creates a transformer for the given account. discoveredAt
// is the run's reference time.
func NewTransformer(username string, discoveredAt time.Time) *Transformer {
	return &Transformer{
		username:     strings.TrimPrefix(username, "@"),
		discoveredAt: discoveredAt,
	}
}

// Transform converts one PostRecord into a WireMessage.
func (t *Transformer) Transform(rec *models.PostRecord) api.WireMessage {
	publishedAt := rec.PublishedAt
	if !rec.Parsed {
		publishedAt = t.discoveredAt
	}

	metrics := rec.Metrics
	if metrics == nil {
		metrics = map[string]int{}
	}
	links := rec.Links
	if links == nil {
		links = []string{}
	}

	metadata := map[string]interface{}{
		"metrics":          metrics,
		"urls":             links,
		"scraper":          "campaignscraper",
		"pipeline_version": pipelineVersion,
		"scraped_at":       t.discoveredAt.UTC().Format(time.RFC3339),
	}

	rawData := map[string]interface{}{
		"scraper":  "campaignscraper",
		"username": t.username,
	}
	for k, v := range rec.RawMeta {
		rawData[k] = v
	}

	return api.WireMessage{
		SourceName:      "@" + t.username,
		SourceType:      "twitter",
		SourceURL:       "https://x.com/" + t.username,
		Content:         rec.Content,
		URL:             rec.URL,
		PublishedAt:     publishedAt.UTC().Format(time.RFC3339),
		MessageType:     string(rec.MessageType),
		GeographicScope: GeographicScope(rec.Content),
		Metadata:        metadata,
		RawData:         rawData,
	}
}

// TransformAll maps a full result set, preserving order.
func (t *Transformer) TransformAll(records []*models.PostRecord) []api.WireMessage {
	msgs := make([]api.WireMessage, 0, len(records))
	for _, rec := range records {
		msgs = append(msgs, t.Transform(rec))
	}
	return msgs
}
