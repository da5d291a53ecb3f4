package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), logger.NewNopLogger())
	require.NoError(t, err)
	m.now = func() time.Time {
		return time.Date(2026, 3, 10, 14, 30, 45, 0, time.UTC)
	}
	return m
}

func sampleRecords() []*models.PostRecord {
	return []*models.PostRecord{
		{
			Content:     "first post",
			URL:         "https://x.com/u/status/1",
			PublishedAt: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
			Parsed:      true,
			MessageType: models.MessageTypePost,
			Metrics:     map[string]int{"likes": 3},
		},
		{
			Content:     "second post",
			MessageType: models.MessageTypePost,
		},
	}
}

func TestWriteAccount(t *testing.T) {
	m := newTestManager(t)

	path, err := m.WriteAccount("some_party", sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, "some_party_tweets_20260310_143045.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var artifact AccountArtifact
	require.NoError(t, json.Unmarshal(data, &artifact))

	assert.Equal(t, "2026-03-10T14:30:45Z", artifact.ScrapedAt)
	assert.Equal(t, 2, artifact.TweetCount)
	require.Len(t, artifact.Tweets, 2)
	assert.Equal(t, "first post", artifact.Tweets[0].Content)
}

func TestWriteCombined(t *testing.T) {
	m := newTestManager(t)

	byAccount := map[string][]*models.PostRecord{
		"account_one": sampleRecords(),
		"account_two": sampleRecords()[:1],
	}

	path, err := m.WriteCombined("Test Org", byAccount)
	require.NoError(t, err)

	assert.Equal(t, "combined_20260310_143045.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var artifact CombinedArtifact
	require.NoError(t, json.Unmarshal(data, &artifact))

	assert.Equal(t, "Test Org", artifact.Organization)
	assert.Equal(t, 3, artifact.TotalTweets)
	assert.Len(t, artifact.Accounts, 2)
}

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	_, err := NewManager(dir, logger.NewNopLogger())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteAccountEmptyRecords(t *testing.T) {
	m := newTestManager(t)

	path, err := m.WriteAccount("quiet_account", nil)
	require.NoError(t, err)

	var artifact AccountArtifact
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &artifact))

	assert.Zero(t, artifact.TweetCount)
}
