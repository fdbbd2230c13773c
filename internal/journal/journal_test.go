package journal

import (
	"path/filepath"
	"testing"

	"github.com/mreilly/tc-intake/internal/db"
	"github.com/mreilly/tc-intake/internal/form"
	"github.com/mreilly/tc-intake/internal/submit"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "intake.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("closing database: %v", err)
		}
	})
	return NewRepository(database)
}

func testForm() form.TransactionForm {
	f := form.NewTransactionForm()
	f.SelectedRole = form.RoleListingAgent
	f.Property.Address = "123 Maple Street"
	f.Property.MLSNumber = "PM-123456"
	f.Signature.AgentName = "Sam Agent"
	return f
}

func testResult(complete, partial bool) *submit.Result {
	return &submit.Result{
		RecordID:     "recABC123",
		DocumentName: "cover-sheet-123-Maple-Street-1a2b3c4d.pdf",
		DocumentURL:  "http://localhost:8080/files/cover-sheet-123-Maple-Street-1a2b3c4d.pdf",
		EmailSent:    complete,
		Complete:     complete,
		Partial:      partial,
		Steps: []submit.Step{
			{ID: submit.StepValidate, Label: "Validating transaction details", Status: submit.StatusComplete},
			{ID: submit.StepDatastore, Label: "Saving transaction record", Status: submit.StatusComplete},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	repo := testRepo(t)

	entry, err := repo.Record(testForm(), testResult(true, false))
	if err != nil {
		t.Fatalf("recording submission: %v", err)
	}
	if entry.ID == 0 {
		t.Error("entry should have an id")
	}
	if entry.Outcome != OutcomeComplete {
		t.Errorf("outcome = %q, want %q", entry.Outcome, OutcomeComplete)
	}
	if entry.RecordID != "recABC123" {
		t.Errorf("record id = %q", entry.RecordID)
	}
	if entry.AgentRole != "LISTING AGENT" || entry.AgentName != "Sam Agent" {
		t.Errorf("agent = %q / %q", entry.AgentRole, entry.AgentName)
	}
	if !entry.EmailSent {
		t.Error("email sent flag lost")
	}
	if len(entry.Steps) != 2 || entry.Steps[0].ID != submit.StepValidate {
		t.Errorf("steps round-trip failed: %+v", entry.Steps)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("created at should be set")
	}

	got, err := repo.Get(entry.ID)
	if err != nil {
		t.Fatalf("getting submission: %v", err)
	}
	if got.PropertyAddress != "123 Maple Street" {
		t.Errorf("address = %q", got.PropertyAddress)
	}
}

func TestOutcomeClassification(t *testing.T) {
	tests := []struct {
		name     string
		complete bool
		partial  bool
		want     Outcome
	}{
		{"complete", true, false, OutcomeComplete},
		{"partial", false, true, OutcomePartial},
		{"failed", false, false, OutcomeFailed},
	}

	repo := testRepo(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := repo.Record(testForm(), testResult(tt.complete, tt.partial))
			if err != nil {
				t.Fatalf("recording submission: %v", err)
			}
			if entry.Outcome != tt.want {
				t.Errorf("outcome = %q, want %q", entry.Outcome, tt.want)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	repo := testRepo(t)
	if _, err := repo.Get(9999); err == nil {
		t.Error("expected error for missing submission")
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := testRepo(t)

	first, err := repo.Record(testForm(), testResult(true, false))
	if err != nil {
		t.Fatalf("recording submission: %v", err)
	}
	second, err := repo.Record(testForm(), testResult(false, true))
	if err != nil {
		t.Fatalf("recording submission: %v", err)
	}

	entries, err := repo.List(0)
	if err != nil {
		t.Fatalf("listing submissions: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != second.ID || entries[1].ID != first.ID {
		t.Errorf("entries not newest first: %d, %d", entries[0].ID, entries[1].ID)
	}

	limited, err := repo.List(1)
	if err != nil {
		t.Fatalf("listing with limit: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != second.ID {
		t.Errorf("limited list = %+v", limited)
	}
}
