package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignscraper/pkg/models"
)

func TestGeographicScope(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"Meeting residents in the town hall", "local"},
		{"Our council candidates are ready", "local"},
		{"Voters in Hartlepool deserve better", "local"},
		{"A new deal for Scotland", "regional"},
		{"Investment across Yorkshire", "regional"},
		{"Our plan for the whole country", "national"},
		{"", "national"},
		{"COMMUNITY first", "local"},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, GeographicScope(tt.content))
		})
	}
}

func TestTransformWireFields(t *testing.T) {
	discoveredAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr := NewTransformer("@UKLabour", discoveredAt)

	rec := &models.PostRecord{
		Content:     "Our plan for the whole country",
		URL:         "https://x.com/UKLabour/status/42",
		PublishedAt: time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC),
		Parsed:      true,
		MessageType: models.MessageTypePost,
		Metrics:     map[string]int{"likes": 10, "retweets": 2, "replies": 1},
		Links:       []string{"https://example.org"},
		RawMeta:     map[string]interface{}{"scraper": "campaignscraper"},
	}

	msg := tr.Transform(rec)

	assert.Equal(t, "@UKLabour", msg.SourceName)
	assert.Equal(t, "twitter", msg.SourceType)
	assert.Equal(t, "https://x.com/UKLabour", msg.SourceURL)
	assert.Equal(t, "https://x.com/UKLabour/status/42", msg.URL)
	assert.Equal(t, "2026-03-09T18:30:00Z", msg.PublishedAt)
	assert.Equal(t, "post", msg.MessageType)
	assert.Equal(t, "national", msg.GeographicScope)

	assert.Equal(t, "campaignscraper", msg.Metadata["scraper"])
	assert.Equal(t, "1.0", msg.Metadata["pipeline_version"])
	assert.Equal(t, "2026-03-10T09:00:00Z", msg.Metadata["scraped_at"])
	assert.Equal(t, rec.Metrics, msg.Metadata["metrics"])

	assert.Equal(t, "UKLabour", msg.RawData["username"])
}

func TestTransformSubstitutesDiscoveryTime(t *testing.T) {
	discoveredAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tr := NewTransformer("UKLabour", discoveredAt)

	rec := &models.PostRecord{
		Content:     "no timestamp came through",
		Parsed:      false,
		MessageType: models.MessageTypePost,
	}

	msg := tr.Transform(rec)
	assert.Equal(t, "2026-03-10T09:00:00Z", msg.PublishedAt)
}

func TestTransformNilMapsBecomeEmpty(t *testing.T) {
	tr := NewTransformer("UKLabour", time.Now())

	msg := tr.Transform(&models.PostRecord{
		Content:     "bare record",
		Parsed:      true,
		MessageType: models.MessageTypePost,
	})

	metrics, ok := msg.Metadata["metrics"].(map[string]int)
	require.True(t, ok)
	assert.Empty(t, metrics)

	urls, ok := msg.Metadata["urls"].([]string)
	require.True(t, ok)
	assert.Empty(t, urls)
}

func TestTransformAllPreservesOrder(t *testing.T) {
	tr := NewTransformer("UKLabour", time.Now())

	records := []*models.PostRecord{
		{Content: "first", Parsed: true, MessageType: models.MessageTypePost},
		{Content: "second", Parsed: true, MessageType: models.MessageTypePost},
	}

	msgs := tr.TransformAll(records)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
}
