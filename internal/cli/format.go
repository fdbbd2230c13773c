package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mreilly/tc-intake/internal/journal"
	"github.com/mreilly/tc-intake/internal/submit"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSubmissionTable prints journal entries as a formatted table.
func printSubmissionTable(entries []*journal.Entry) error {
	if len(entries) == 0 {
		fmt.Println("No submissions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tDATE\tROLE\tPROPERTY\tMLS\tOUTCOME\tEMAIL"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, e := range entries {
		email := "—"
		if e.EmailSent {
			email = "sent"
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.AgentRole,
			e.PropertyAddress, e.MLSNumber, e.Outcome, email,
		); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	return w.Flush()
}

// printSubmissionDetail prints one journal entry with step statuses.
func printSubmissionDetail(e *journal.Entry) {
	fmt.Printf("Submission #%d\n", e.ID)
	fmt.Printf("  Date:      %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Role:      %s\n", e.AgentRole)
	fmt.Printf("  Agent:     %s\n", e.AgentName)
	fmt.Printf("  Property:  %s\n", e.PropertyAddress)
	fmt.Printf("  MLS:       %s\n", e.MLSNumber)
	fmt.Printf("  Outcome:   %s\n", e.Outcome)
	if e.RecordID != "" {
		fmt.Printf("  Record:    %s\n", e.RecordID)
	}
	if e.DocumentURL != "" {
		fmt.Printf("  Document:  %s\n", e.DocumentURL)
	}
	fmt.Printf("  Email:     %s\n", sentOrNot(e.EmailSent))

	if len(e.Steps) > 0 {
		fmt.Println("  Steps:")
		for _, s := range e.Steps {
			fmt.Printf("    %s %s", statusIcon(s.Status), s.Label)
			if s.Error != "" {
				fmt.Printf(" — %s", s.Error)
			}
			fmt.Println()
		}
	}
}

func sentOrNot(sent bool) string {
	if sent {
		return "sent"
	}
	return "not sent"
}

func statusIcon(s submit.Status) string {
	switch s {
	case submit.StatusComplete:
		return "✓"
	case submit.StatusError:
		return "✗"
	case submit.StatusLoading:
		return "…"
	}
	return "·"
}
