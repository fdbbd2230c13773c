package coversheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mreilly/tc-intake/internal/form"
)

// MapFormData flattens a form snapshot into the placeholder map the
// cover sheet templates consume. submissionDate is passed in rather
// than read from the clock so mapping stays deterministic.
func MapFormData(f form.TransactionForm, submissionDate string) map[string]string {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}

	data := map[string]string{
		"agentRole":      string(f.SelectedRole),
		"agentName":      f.Signature.AgentName,
		"submissionDate": submissionDate,

		"propertyAddress": f.Property.Address,
		"mlsNumber":       f.Property.MLSNumber,
		"salePrice":       FormatCurrency(f.Property.SalePrice),
		"closingDate":     FormatDate(f.Property.ClosingDate),
		"occupancyStatus": f.Property.OccupancyStatus,
		"winterized":      yesNo(f.Property.IsWinterized),
		"updateMls":       yesNo(f.Property.UpdateMLS),

		"sellersName": clientNames(f.Clients, form.ClientSeller),
		"buyersName":  clientNames(f.Clients, form.ClientBuyer),
		"clientNames": clientNames(f.Clients, ""),

		"totalCommission":     formatCommission(f.Commission.TotalCommission, f.Commission.CommissionBase),
		"listingAgentPercent": formatPercent(f.Commission.ListingAgentPercent),
		"buyersAgentPercent":  formatPercent(f.Commission.BuyersAgentPercent),
		"referralParty":       f.Commission.ReferralParty,
		"referralFee":         FormatCurrency(f.Commission.ReferralFee),

		"hoaName":      f.Details.HOAName,
		"municipality": f.Details.Municipality,
		"attorneyName": f.Details.AttorneyName,

		"warrantyProvider": f.Warranty.Provider,
		"warrantyCost":     FormatCurrency(f.Warranty.Cost),
		"warrantyPaidBy":   f.Warranty.PaidBy,

		"titleCompany": f.Title.Name,
		"titleContact": strings.TrimSpace(f.Title.ContactName + " " + f.Title.ContactPhone),

		"documents": strings.Join(f.Documents.Selected, ", "),

		"specialInstructions": f.Additional.SpecialInstructions,
		"urgentIssues":        f.Additional.UrgentIssues,
		"notes":               f.Additional.Notes,

		"signature":     f.Signature.Signature,
		"dateSubmitted": FormatDate(f.Signature.DateSubmitted),
	}

	return data
}

// clientNames joins the names of clients matching the given type,
// falling back to every client name when no client of that type
// exists. An empty type matches all clients.
func clientNames(clients []form.Client, t form.ClientType) string {
	var matched, all []string
	for _, c := range clients {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		all = append(all, name)
		if t == "" || c.Type == t {
			matched = append(matched, name)
		}
	}
	if len(matched) > 0 {
		return strings.Join(matched, ", ")
	}
	return strings.Join(all, ", ")
}

// FormatCurrency renders a raw price string as US currency, dropping
// a trailing .00. Non-numeric input is returned unchanged.
func FormatCurrency(raw string) string {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return ""
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return raw
	}
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	out := "$" + groupThousands(parts[0])
	if parts[1] != "00" {
		out += "." + parts[1]
	}
	return out
}

// FormatDate renders a YYYY-MM-DD date as a long-form US date.
// Anything unparseable is returned unchanged.
func FormatDate(raw string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return t.Format("January 2, 2006")
}

func formatPercent(raw string) string {
	cleaned := strings.TrimSuffix(strings.TrimSpace(raw), "%")
	if cleaned == "" {
		return ""
	}
	return cleaned + "%"
}

// formatCommission renders the total commission per its base: a
// percentage stays a percentage, a fixed amount becomes currency.
func formatCommission(raw, base string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if base == "fixed" {
		return FormatCurrency(raw)
	}
	return formatPercent(raw)
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}
	if neg {
		return "-" + s
	}
	return s
}
