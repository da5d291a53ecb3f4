package twitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"campaignscraper/pkg/config"
	"campaignscraper/pkg/models"
)

func TestSeenSet(t *testing.T) {
	s := NewSeenSet()

	assert.False(t, s.Seen("hello"))
	assert.True(t, s.Add("hello"))
	assert.True(t, s.Seen("hello"))
	assert.False(t, s.Add("hello"))

	// whitespace variants fingerprint identically
	assert.True(t, s.Seen("  hello  "))
	assert.Equal(t, 1, s.Len())
}

func TestShouldKeepDuplicates(t *testing.T) {
	f := NewFilter(config.ScrapeConfig{IncludeRetweets: true})
	seen := NewSeenSet()
	seen.Add("campaign launch")

	rec := &models.PostRecord{Content: "campaign launch", MessageType: models.MessageTypePost}
	assert.False(t, f.ShouldKeep(rec, seen))
}

func TestShouldKeepMessageTypes(t *testing.T) {
	tests := []struct {
		name            string
		includeRetweets bool
		includeReplies  bool
		msgType         models.MessageType
		want            bool
	}{
		{"retweet excluded", false, false, models.MessageTypeRetweet, false},
		{"retweet included", true, false, models.MessageTypeRetweet, true},
		{"reply excluded", true, false, models.MessageTypeReply, false},
		{"reply included", true, true, models.MessageTypeReply, true},
		{"plain post always kept", false, false, models.MessageTypePost, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(config.ScrapeConfig{
				IncludeRetweets: tt.includeRetweets,
				IncludeReplies:  tt.includeReplies,
			})
			rec := &models.PostRecord{Content: tt.name, MessageType: tt.msgType}
			assert.Equal(t, tt.want, f.ShouldKeep(rec, NewSeenSet()))
		})
	}
}

func TestShouldKeepDateWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f := NewFilter(config.ScrapeConfig{DateLimitDays: 7, IncludeRetweets: true})
	f.now = func() time.Time { return now }

	recent := &models.PostRecord{
		Content:     "recent",
		PublishedAt: now.AddDate(0, 0, -3),
		Parsed:      true,
		MessageType: models.MessageTypePost,
	}
	assert.True(t, f.ShouldKeep(recent, NewSeenSet()))

	stale := &models.PostRecord{
		Content:     "stale",
		PublishedAt: now.AddDate(0, 0, -30),
		Parsed:      true,
		MessageType: models.MessageTypePost,
	}
	assert.False(t, f.ShouldKeep(stale, NewSeenSet()))
}

func TestShouldKeepUnparseableTimestampSurvivesDateWindow(t *testing.T) {
	f := NewFilter(config.ScrapeConfig{DateLimitDays: 7, IncludeRetweets: true})

	rec := &models.PostRecord{
		Content:     "no timestamp",
		Parsed:      false,
		MessageType: models.MessageTypePost,
	}
	assert.True(t, f.ShouldKeep(rec, NewSeenSet()))
}

func TestShouldKeepNoDateLimit(t *testing.T) {
	f := NewFilter(config.ScrapeConfig{IncludeRetweets: true})

	old := &models.PostRecord{
		Content:     "from years back",
		PublishedAt: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		Parsed:      true,
		MessageType: models.MessageTypePost,
	}
	assert.True(t, f.ShouldKeep(old, NewSeenSet()))
}
