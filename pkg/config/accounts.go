package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	errs "campaignscraper/pkg/errors"
	"campaignscraper/pkg/models"
)

// AccountEntry describes one account inside an accounts file.
type AccountEntry struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// AccountsFile is the JSON document defining a multi-account run.
type AccountsFile struct {
	Organization string                  `json:"organization"`
	Description  string                  `json:"description,omitempty"`
	Accounts     map[string]AccountEntry `json:"accounts"`
}

// LoadAccountsFile reads and validates an accounts definition file.
func LoadAccountsFile(path string) (*AccountsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeConfig, "failed to read accounts file %s: %v", path, err)
	}

	var af AccountsFile
	if err := json.Unmarshal(data, &af); err != nil {
		return nil, errs.Newf(errs.ErrorTypeConfig, "failed to parse accounts file %s: %v", path, err)
	}

	if af.Organization == "" {
		return nil, errs.New(errs.ErrorTypeConfig, "accounts file missing organization")
	}
	if len(af.Accounts) == 0 {
		return nil, errs.New(errs.ErrorTypeConfig, "accounts file defines no accounts")
	}

	return &af, nil
}

// AccountSpecs returns the accounts as an ordered slice. Iteration order
// over the JSON map is not stable, so usernames are sorted to keep
// multi-account runs deterministic.
func (af *AccountsFile) AccountSpecs() []models.AccountSpec {
	usernames := make([]string, 0, len(af.Accounts))
	for username := range af.Accounts {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	specs := make([]models.AccountSpec, 0, len(usernames))
	for _, username := range usernames {
		entry := af.Accounts[username]
		specs = append(specs, models.AccountSpec{
			Username:     username,
			Organization: af.Organization,
			Type:         entry.Type,
			Description:  entry.Description,
		})
	}
	return specs
}

// WriteSampleConfigs writes example accounts files into dir so operators
// have a starting point for their own organizations.
func WriteSampleConfigs(dir string) ([]string, error) {
	samples := map[string]AccountsFile{
		"reform_uk_config.json": {
			Organization: "Reform UK",
			Description:  "British political party founded in 2019",
			Accounts: map[string]AccountEntry{
				"reformparty_uk": {Type: "main_account", Description: "Official Reform UK account"},
				"Nigel_Farage":   {Type: "leader", Description: "Party leader"},
				"TiceRichard":    {Type: "chairman", Description: "Party chairman"},
			},
		},
		"labour_config.json": {
			Organization: "Labour Party",
			Description:  "British Labour Party",
			Accounts: map[string]AccountEntry{
				"UKLabour":     {Type: "main_account", Description: "Official Labour Party account"},
				"Keir_Starmer": {Type: "leader", Description: "Party leader"},
			},
		},
		"conservative_config.json": {
			Organization: "Conservative Party",
			Description:  "British Conservative and Unionist Party",
			Accounts: map[string]AccountEntry{
				"Conservatives": {Type: "main_account", Description: "Official Conservative Party account"},
			},
		},
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		sample := samples[name]
		data, err := json.MarshalIndent(&sample, "", "  ")
		if err != nil {
			return written, fmt.Errorf("failed to marshal sample config %s: %w", name, err)
		}

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write sample config %s: %w", path, err)
		}
		written = append(written, path)
	}

	return written, nil
}
