package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeAccountsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAccountsFile(t *testing.T) {
	path := writeAccountsFile(t, `{
		"organization": "Labour Party",
		"accounts": {
			"UKLabour": {"type": "main_account", "description": "Official account"},
			"Keir_Starmer": {"type": "leader", "description": "Party leader"}
		}
	}`)

	af, err := LoadAccountsFile(path)
	if err != nil {
		t.Fatalf("LoadAccountsFile failed: %v", err)
	}

	if af.Organization != "Labour Party" {
		t.Errorf("unexpected organization %q", af.Organization)
	}
	if len(af.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(af.Accounts))
	}

	specs := af.AccountSpecs()
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	// Sorted by username for deterministic run order.
	if specs[0].Username != "Keir_Starmer" || specs[1].Username != "UKLabour" {
		t.Errorf("unexpected spec order: %s, %s", specs[0].Username, specs[1].Username)
	}
	if specs[0].Organization != "Labour Party" {
		t.Errorf("organization not propagated to spec: %q", specs[0].Organization)
	}
	if specs[1].Type != "main_account" {
		t.Errorf("unexpected type %q", specs[1].Type)
	}
}

func TestLoadAccountsFileMalformed(t *testing.T) {
	path := writeAccountsFile(t, `{"organization": "X", "accounts": `)
	if _, err := LoadAccountsFile(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadAccountsFileMissingOrganization(t *testing.T) {
	path := writeAccountsFile(t, `{"accounts": {"a": {"type": "x"}}}`)
	if _, err := LoadAccountsFile(path); err == nil {
		t.Error("expected error for missing organization")
	}
}

func TestLoadAccountsFileEmptyAccounts(t *testing.T) {
	path := writeAccountsFile(t, `{"organization": "X", "accounts": {}}`)
	if _, err := LoadAccountsFile(path); err == nil {
		t.Error("expected error for empty accounts")
	}
}

func TestLoadAccountsFileNotFound(t *testing.T) {
	if _, err := LoadAccountsFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteSampleConfigs(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteSampleConfigs(dir)
	if err != nil {
		t.Fatalf("WriteSampleConfigs failed: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected 3 sample configs, got %d", len(written))
	}

	// Every sample must itself be loadable.
	for _, path := range written {
		af, err := LoadAccountsFile(path)
		if err != nil {
			t.Errorf("sample config %s does not load: %v", path, err)
			continue
		}
		if af.Organization == "" || len(af.Accounts) == 0 {
			t.Errorf("sample config %s is incomplete", path)
		}

		// And must be valid JSON on disk.
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		var v map[string]interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			t.Errorf("sample config %s is not valid JSON: %v", path, err)
		}
	}
}
