package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"campaignscraper/pkg/logger"
	"campaignscraper/pkg/models"
)

// AccountArtifact is the per-account export file shape.
type AccountArtifact struct {
	ScrapedAt  string               `json:"scraped_at"`
	TweetCount int                  `json:"tweet_count"`
	Tweets     []*models.PostRecord `json:"tweets"`
}

// CombinedArtifact is the multi-account export file shape.
type CombinedArtifact struct {
	ScrapedAt    string                          `json:"scraped_at"`
	Organization string                          `json:"organization"`
	Accounts     map[string][]*models.PostRecord `json:"accounts"`
	TotalTweets  int                             `json:"total_tweets"`
}

// Manager writes export artifacts into a run's export directory.
type Manager struct {
	dir string
	log logger.Logger

	// now is swapped out in tests for stable filenames.
	now func() time.Time
}

// NewManager creates the export directory if needed and returns a manager.
func NewManager(dir string, log logger.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	return &Manager{
		dir: dir,
		log: log,
		now: time.Now,
	}, nil
}

// Dir returns the export directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// WriteAccount writes one account's scraped posts to a timestamped file
// and returns its path.
func (m *Manager) WriteAccount(username string, records []*models.PostRecord) (string, error) {
	now := m.now().UTC()

	artifact := AccountArtifact{
		ScrapedAt:  now.Format(time.RFC3339),
		TweetCount: len(records),
		Tweets:     records,
	}

	name := fmt.Sprintf("%s_tweets_%s.json", username, now.Format("20060102_150405"))
	path := filepath.Join(m.dir, name)

	if err := m.writeJSON(path, &artifact); err != nil {
		return "", err
	}

	m.log.WithFields(map[string]interface{}{
		"username": username,
		"tweets":   len(records),
		"path":     path,
	}).Info("account export written")

	return path, nil
}

// WriteCombined writes the multi-account artifact and returns its path.
func (m *Manager) WriteCombined(organization string, byAccount map[string][]*models.PostRecord) (string, error) {
	now := m.now().UTC()

	total := 0
	for _, records := range byAccount {
		total += len(records)
	}

	artifact := CombinedArtifact{
		ScrapedAt:    now.Format(time.RFC3339),
		Organization: organization,
		Accounts:     byAccount,
		TotalTweets:  total,
	}

	name := fmt.Sprintf("combined_%s.json", now.Format("20060102_150405"))
	path := filepath.Join(m.dir, name)

	if err := m.writeJSON(path, &artifact); err != nil {
		return "", err
	}

	m.log.WithFields(map[string]interface{}{
		"organization": organization,
		"accounts":     len(byAccount),
		"total_tweets": total,
		"path":         path,
	}).Info("combined export written")

	return path, nil
}

// writeJSON marshals v with indentation and writes it to path.
func (m *Manager) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export artifact: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export artifact: %w", err)
	}

	return nil
}
