package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TCI_AIRTABLE_API_KEY", "TCI_AIRTABLE_BASE_ID", "TCI_AIRTABLE_TABLE",
		"TCI_AIRTABLE_ATTACHMENT_FIELD", "TCI_SMTP_HOST", "TCI_SMTP_PORT",
		"TCI_SMTP_USER", "TCI_SMTP_PASS", "TCI_SMTP_FROM", "TCI_RECIPIENT",
		"TCI_FILES_DIR", "TCI_BASE_URL", "TCI_CHROME_PATH", "TCI_DEV_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	if cfg.Airtable.Table != "Transactions" {
		t.Errorf("table = %q", cfg.Airtable.Table)
	}
	if cfg.SMTP.Port != "587" {
		t.Errorf("smtp port = %q", cfg.SMTP.Port)
	}
	if cfg.FilesDir != "files" {
		t.Errorf("files dir = %q", cfg.FilesDir)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.DevMode {
		t.Error("dev mode should default off")
	}
	if cfg.Airtable.IsConfigured() || cfg.SMTP.IsConfigured() {
		t.Error("empty environment should not look configured")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TCI_AIRTABLE_API_KEY", "keyTEST")
	t.Setenv("TCI_AIRTABLE_BASE_ID", "appBASE")
	t.Setenv("TCI_AIRTABLE_TABLE", "Deals")
	t.Setenv("TCI_SMTP_HOST", "smtp.example.com")
	t.Setenv("TCI_SMTP_PORT", "465")
	t.Setenv("TCI_SMTP_FROM", "portal@example.com")
	t.Setenv("TCI_RECIPIENT", "office@example.com")
	t.Setenv("TCI_BASE_URL", "https://portal.example.com")
	t.Setenv("TCI_DEV_MODE", "true")

	cfg := FromEnv()
	if !cfg.Airtable.IsConfigured() {
		t.Error("airtable should be configured")
	}
	if cfg.Airtable.Table != "Deals" {
		t.Errorf("table = %q", cfg.Airtable.Table)
	}
	if !cfg.SMTP.IsConfigured() || cfg.SMTP.Port != "465" {
		t.Errorf("smtp = %+v", cfg.SMTP)
	}
	if cfg.Recipient != "office@example.com" {
		t.Errorf("recipient = %q", cfg.Recipient)
	}
	if cfg.BaseURL != "https://portal.example.com" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if !cfg.DevMode {
		t.Error("dev mode should be on")
	}
}
