package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// Each migration runs inside a transaction.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id        TEXT    NOT NULL DEFAULT '',
		agent_role       TEXT    NOT NULL,
		agent_name       TEXT    NOT NULL DEFAULT '',
		property_address TEXT    NOT NULL DEFAULT '',
		mls_number       TEXT    NOT NULL DEFAULT '',
		outcome          TEXT    NOT NULL,
		document_name    TEXT    NOT NULL DEFAULT '',
		document_url     TEXT    NOT NULL DEFAULT '',
		email_sent       INTEGER NOT NULL DEFAULT 0,
		steps_json       TEXT    NOT NULL DEFAULT '[]',
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_created_at
		ON submissions (created_at DESC)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
