// Package cli defines the cobra command tree for the intake portal.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mreilly/tc-intake/internal/client"
)

var (
	flagFormat string
	flagServer string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tci",
		Short:         "Transaction coordinator intake portal",
		Long:          "Run and operate the transaction intake portal: serve the API, check service health, test SMTP delivery, exercise the cover sheet templates, and browse the submission journal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "portal server URL (default: config or http://localhost:8080)")

	root.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newSMTPTestCmd(),
		newRenderCmd(),
		newSubmissionsCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the portal API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
