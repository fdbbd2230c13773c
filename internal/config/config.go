// Package config loads service configuration from the environment.
package config

import (
	"os"

	"github.com/mreilly/tc-intake/internal/airtable"
	"github.com/mreilly/tc-intake/internal/email"
)

// Config holds everything the intake service needs to talk to its
// external collaborators.
type Config struct {
	Airtable airtable.Config
	SMTP     email.SMTPConfig

	// Recipient is the fixed back-office address cover sheets go to.
	Recipient string

	// FilesDir is where rendered cover sheets are stored; BaseURL is
	// the externally reachable server URL they are served under.
	FilesDir string
	BaseURL  string

	// ChromePath optionally points at a Chrome binary for PDF rendering.
	ChromePath string

	DevMode bool
}

// FromEnv creates a Config from environment variables.
func FromEnv() Config {
	return Config{
		Airtable: airtable.Config{
			APIKey:          os.Getenv("TCI_AIRTABLE_API_KEY"),
			BaseID:          os.Getenv("TCI_AIRTABLE_BASE_ID"),
			Table:           envOrDefault("TCI_AIRTABLE_TABLE", "Transactions"),
			AttachmentField: envOrDefault("TCI_AIRTABLE_ATTACHMENT_FIELD", "fldhrYdoFwtNfzdFY"),
		},
		SMTP: email.SMTPConfig{
			Host: os.Getenv("TCI_SMTP_HOST"),
			Port: envOrDefault("TCI_SMTP_PORT", "587"),
			User: os.Getenv("TCI_SMTP_USER"),
			Pass: os.Getenv("TCI_SMTP_PASS"),
			From: os.Getenv("TCI_SMTP_FROM"),
		},
		Recipient:  os.Getenv("TCI_RECIPIENT"),
		FilesDir:   envOrDefault("TCI_FILES_DIR", "files"),
		BaseURL:    envOrDefault("TCI_BASE_URL", "http://localhost:8080"),
		ChromePath: os.Getenv("TCI_CHROME_PATH"),
		DevMode:    os.Getenv("TCI_DEV_MODE") == "true",
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
