package airtable

import (
	"strings"

	"github.com/mreilly/tc-intake/internal/form"
)

// Fields flattens a form snapshot into the uppercase column names of
// the Transactions table. Empty values are omitted so Airtable keeps
// its own cell defaults.
func Fields(f form.TransactionForm) map[string]interface{} {
	var sellers, buyers []string
	for _, c := range f.Clients {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		switch c.Type {
		case form.ClientSeller:
			sellers = append(sellers, name)
		case form.ClientBuyer:
			buyers = append(buyers, name)
		}
	}

	fields := map[string]interface{}{}
	put := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			fields[key] = value
		}
	}

	put("AGENT ROLE", string(f.SelectedRole))
	put("AGENT NAME", f.Signature.AgentName)
	put("PROPERTY ADDRESS", f.Property.Address)
	put("MLS NUMBER", f.Property.MLSNumber)
	put("SALE PRICE", f.Property.SalePrice)
	put("CLOSING DATE", f.Property.ClosingDate)
	put("OCCUPANCY STATUS", f.Property.OccupancyStatus)
	put("SELLERS", strings.Join(sellers, ", "))
	put("BUYERS", strings.Join(buyers, ", "))
	put("TOTAL COMMISSION", f.Commission.TotalCommission)
	put("LISTING AGENT COMMISSION", f.Commission.ListingAgentPercent)
	put("BUYERS AGENT COMMISSION", f.Commission.BuyersAgentPercent)
	put("REFERRAL PARTY", f.Commission.ReferralParty)
	put("REFERRAL FEE", f.Commission.ReferralFee)
	put("TITLE COMPANY", f.Title.Name)
	put("SPECIAL INSTRUCTIONS", f.Additional.SpecialInstructions)
	put("URGENT ISSUES", f.Additional.UrgentIssues)
	put("NOTES", f.Additional.Notes)

	if f.Warranty.HomeWarranty {
		fields["HOME WARRANTY"] = true
		put("WARRANTY PROVIDER", f.Warranty.Provider)
		put("WARRANTY COST", f.Warranty.Cost)
		put("WARRANTY PAID BY", f.Warranty.PaidBy)
	}

	return fields
}
