package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mreilly/tc-intake/internal/client"
	"github.com/mreilly/tc-intake/internal/coversheet"
	"github.com/mreilly/tc-intake/internal/form"
)

func newRenderCmd() *cobra.Command {
	var (
		role   string
		out    string
		remote bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Exercise the cover sheet templates with sample data",
		Long: `Render a cover sheet from sample transaction data.

By default writes the populated HTML locally, useful while editing
templates. With --remote, asks the running server to produce a PDF
through the full generation pipeline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(role, out, remote)
		},
	}

	cmd.Flags().StringVar(&role, "role", string(form.RoleListingAgent), "agent role to select the template")
	cmd.Flags().StringVar(&out, "out", "cover-sheet.html", "output path for local HTML rendering")
	cmd.Flags().BoolVar(&remote, "remote", false, "render a PDF via the running server")

	return cmd
}

func runRender(role, out string, remote bool) error {
	f := sampleForm(form.AgentRole(role))

	if remote {
		resp, err := newAPIClient().Render(client.RenderRequest{Form: f})
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("server render failed: %s", resp.Error)
		}
		fmt.Printf("PDF available at %s\n", resp.PDFPath)
		return nil
	}

	html, err := coversheet.Render(f, time.Now().Format("January 2, 2006"))
	if err != nil {
		return fmt.Errorf("rendering cover sheet: %w", err)
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("Rendered %s template to %s\n", coversheet.SelectTemplate(role), out)
	return nil
}

// sampleForm builds a fully populated form for template work.
func sampleForm(role form.AgentRole) form.TransactionForm {
	f := form.NewTransactionForm()
	f.SelectedRole = role
	f.Property = form.PropertyData{
		MLSNumber:       "PM-123456",
		Address:         "123 Maple Street, Harrisburg, PA 17101",
		SalePrice:       "425000",
		OccupancyStatus: "Owner occupied",
		ClosingDate:     "2026-10-15",
	}
	f.Clients = []form.Client{
		{ID: "sample-seller", Name: "Jordan Avery", Email: "jordan@example.com", Phone: "717-555-0123", Type: form.ClientSeller},
		{ID: "sample-buyer", Name: "Riley Morgan", Email: "riley@example.com", Phone: "717-555-0456", Type: form.ClientBuyer},
	}
	f.Commission = form.CommissionData{
		CommissionBase:      "percentage",
		TotalCommission:     "6",
		ListingAgentPercent: "3",
		BuyersAgentPercent:  "3",
	}
	f.Title = form.TitleCompanyData{Name: "Keystone Title Services"}
	f.Documents = form.DocumentsData{
		Selected:  []string{"Agreement of Sale", "Seller's Disclosure", "Deposit Receipt"},
		Confirmed: true,
	}
	f.Signature = form.SignatureData{
		AgentName:     "Sample Agent",
		DateSubmitted: time.Now().Format("2006-01-02"),
		Signature:     "Sample Agent",
		TermsAccepted: true,
		InfoConfirmed: true,
	}
	return f
}
