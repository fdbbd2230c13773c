// Package journal records every submission attempt in SQLite so the
// back office can audit what reached Airtable and what degraded.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mreilly/tc-intake/internal/form"
	"github.com/mreilly/tc-intake/internal/submit"
)

// Outcome summarizes how a submission run ended.
type Outcome string

const (
	OutcomeComplete Outcome = "complete"
	OutcomePartial  Outcome = "partial"
	OutcomeFailed   Outcome = "failed"
)

// Entry is one recorded submission attempt.
type Entry struct {
	ID              int64         `json:"id"`
	RecordID        string        `json:"recordId,omitempty"`
	AgentRole       string        `json:"agentRole"`
	AgentName       string        `json:"agentName"`
	PropertyAddress string        `json:"propertyAddress"`
	MLSNumber       string        `json:"mlsNumber"`
	Outcome         Outcome       `json:"outcome"`
	DocumentName    string        `json:"documentName,omitempty"`
	DocumentURL     string        `json:"documentUrl,omitempty"`
	EmailSent       bool          `json:"emailSent"`
	Steps           []submit.Step `json:"steps"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// Repository provides access to the submissions journal.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a journal repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record writes one submission attempt. The step detail is stored as
// JSON since it is read back whole, never queried.
func (r *Repository) Record(f form.TransactionForm, res *submit.Result) (*Entry, error) {
	outcome := OutcomeFailed
	switch {
	case res.Complete:
		outcome = OutcomeComplete
	case res.Partial:
		outcome = OutcomePartial
	}

	stepsJSON, err := json.Marshal(res.Steps)
	if err != nil {
		return nil, fmt.Errorf("marshaling steps: %w", err)
	}

	result, err := r.db.Exec(
		`INSERT INTO submissions
			(record_id, agent_role, agent_name, property_address, mls_number,
			 outcome, document_name, document_url, email_sent, steps_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RecordID, string(f.SelectedRole), f.Signature.AgentName,
		f.Property.Address, f.Property.MLSNumber,
		string(outcome), res.DocumentName, res.DocumentURL,
		res.EmailSent, string(stepsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}
	return r.Get(id)
}

const selectColumns = `id, record_id, agent_role, agent_name, property_address,
	mls_number, outcome, document_name, document_url, email_sent, steps_json, created_at`

// Get returns one journal entry by id.
func (r *Repository) Get(id int64) (*Entry, error) {
	row := r.db.QueryRow("SELECT "+selectColumns+" FROM submissions WHERE id = ?", id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("submission %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading submission: %w", err)
	}
	return e, nil
}

// List returns entries newest first, up to limit (0 means all).
func (r *Repository) List(limit int) ([]*Entry, error) {
	query := "SELECT " + selectColumns + " FROM submissions ORDER BY created_at DESC, id DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return entries, nil
}

func scanEntry(row interface{ Scan(...interface{}) error }) (*Entry, error) {
	var e Entry
	var stepsJSON string
	var emailSent int
	err := row.Scan(
		&e.ID, &e.RecordID, &e.AgentRole, &e.AgentName, &e.PropertyAddress,
		&e.MLSNumber, (*string)(&e.Outcome), &e.DocumentName, &e.DocumentURL,
		&emailSent, &stepsJSON, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.EmailSent = emailSent != 0
	if err := json.Unmarshal([]byte(stepsJSON), &e.Steps); err != nil {
		return nil, fmt.Errorf("parsing steps json: %w", err)
	}
	return &e, nil
}
