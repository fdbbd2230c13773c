package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSubmissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Browse the submission journal",
	}

	cmd.AddCommand(newSubmissionsListCmd(), newSubmissionsShowCmd())

	return cmd
}

func newSubmissionsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := newAPIClient().ListSubmissions(limit)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(entries)
			}
			return printSubmissionTable(entries)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to show (0 = all)")

	return cmd
}

func newSubmissionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one submission with its pipeline steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid submission ID %q: %w", args[0], err)
			}

			entry, err := newAPIClient().GetSubmission(id)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(entry)
			}
			printSubmissionDetail(entry)
			return nil
		},
	}
}
