package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mreilly/tc-intake/internal/config"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the portal server and service configuration",
		Long:  "Tests the connection to the portal server and reports which delivery services are configured. Exits 1 when the server is unreachable.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	serverURL := getServerURL()
	cfg := config.FromEnv()

	fmt.Printf("Server:    %s\n", serverURL)

	configured := func(ok bool) string {
		if ok {
			return "✓ configured"
		}
		return "✗ not configured"
	}
	fmt.Printf("Airtable:  %s\n", configured(cfg.Airtable.IsConfigured()))
	fmt.Printf("SMTP:      %s\n", configured(cfg.SMTP.IsConfigured()))
	fmt.Printf("Recipient: %s\n", orUnset(cfg.Recipient))

	if err := newAPIClient().Health(); err != nil {
		fmt.Printf("Status:    ✗ cannot reach server (%v)\n", err)
		os.Exit(1)
	}
	fmt.Println("Status:    ✓ server is healthy")

	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
