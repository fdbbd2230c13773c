package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mreilly/tc-intake/internal/config"
	"github.com/mreilly/tc-intake/internal/email"
)

func newSMTPTestCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "smtp-test",
		Short: "Send a test email to verify SMTP credentials",
		Long:  "Authenticates against the configured SMTP server and sends a short test message. Use before going live to catch credential and TLS problems.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSMTPTest(to)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient address (default: configured TCI_RECIPIENT)")

	return cmd
}

func runSMTPTest(to string) error {
	cfg := config.FromEnv()

	if !cfg.SMTP.IsConfigured() {
		return fmt.Errorf("SMTP is not configured (set TCI_SMTP_HOST and TCI_SMTP_FROM)")
	}
	if to == "" {
		to = cfg.Recipient
	}
	if to == "" {
		return fmt.Errorf("no recipient (use --to or set TCI_RECIPIENT)")
	}

	fmt.Printf("Sending test email via %s:%s to %s…\n", cfg.SMTP.Host, cfg.SMTP.Port, to)

	msg := email.Message{
		To:      []string{to},
		Subject: "Intake portal SMTP test",
		HTML:    "<p>This is a test message from the transaction intake portal. SMTP delivery is working.</p>",
	}
	if err := email.Send(cfg.SMTP, msg); err != nil {
		return fmt.Errorf("SMTP test failed: %w", err)
	}

	fmt.Println("Test email sent.")
	return nil
}
