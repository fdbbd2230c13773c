package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mreilly/tc-intake/internal/airtable"
	"github.com/mreilly/tc-intake/internal/config"
	"github.com/mreilly/tc-intake/internal/db"
	"github.com/mreilly/tc-intake/internal/email"
	"github.com/mreilly/tc-intake/internal/filestore"
	"github.com/mreilly/tc-intake/internal/journal"
	"github.com/mreilly/tc-intake/internal/logging"
	"github.com/mreilly/tc-intake/internal/pdf"
	"github.com/mreilly/tc-intake/internal/submit"
	"github.com/mreilly/tc-intake/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port   int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the intake API server",
		Long:  "Start the HTTP server for the transaction intake portal. Configuration comes from TCI_* environment variables; a missing adapter degrades its pipeline step instead of blocking startup.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, dbPath)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite journal path (default: ~/.tc-intake/intake.db)")

	return cmd
}

func runServe(port int, dbPath string) error {
	cfg := config.FromEnv()
	logging.Setup(cfg.DevMode)

	orch := &submit.Orchestrator{
		Renderer:  pdf.NewRenderer(pdf.Config{ChromePath: cfg.ChromePath}),
		Mailer:    email.NewMailer(cfg.SMTP, cfg.DevMode),
		Recipient: cfg.Recipient,
	}

	// Missing Airtable credentials surface as a step error per
	// submission rather than preventing the portal from serving.
	if store, err := airtable.NewClient(cfg.Airtable); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	} else {
		orch.Datastore = store
	}

	files, err := filestore.New(cfg.FilesDir, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("opening file store: %w", err)
	}
	orch.Files = files

	if dbPath == "" {
		if dbPath, err = db.DefaultPath(); err != nil {
			return err
		}
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening journal database: %w", err)
	}
	defer closeDB(database)

	server := web.NewServer(orch, journal.NewRepository(database), files.Dir())
	return server.ListenAndServe(port)
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
