// Package validate implements per-step validation of the intake form.
// Step is pure: the same step and snapshot always produce the same
// error map, and errors are returned as data, never panics.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mreilly/tc-intake/internal/form"
)

var (
	// MLS numbers are six digits, optionally prefixed PM-.
	mlsPattern   = regexp.MustCompile(`^(PM-)?\d{6}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}$`)
	einPattern   = regexp.MustCompile(`^\d{2}-?\d{7}$`)
)

// Step validates one wizard step against a form snapshot and returns
// field-keyed errors. An empty map means the step is valid. Steps
// outside the known range validate trivially.
func Step(step int, f form.TransactionForm) form.Errors {
	errs := form.Errors{}
	switch step {
	case form.StepRole:
		validateRole(f, errs)
	case form.StepProperty:
		validateProperty(f, errs)
	case form.StepClients:
		validateClients(f, errs)
	case form.StepCommission:
		validateCommission(f, errs)
	case form.StepDetails:
		validateDetails(f, errs)
	case form.StepWarranty:
		validateWarranty(f, errs)
	case form.StepTitle:
		validateTitle(f, errs)
	case form.StepDocuments:
		validateDocuments(f, errs)
	case form.StepAdditional:
		// Free-text notes, nothing required.
	case form.StepSignature:
		validateSignature(f, errs)
	}
	return errs
}

// Final validates every step and merges the results. Used by the
// submission pipeline before anything leaves the process.
func Final(f form.TransactionForm) form.Errors {
	errs := form.Errors{}
	for step := form.StepRole; step <= form.TotalSteps; step++ {
		for key, msgs := range Step(step, f) {
			errs[key] = append(errs[key], msgs...)
		}
	}
	return errs
}

func validateRole(f form.TransactionForm, errs form.Errors) {
	if f.SelectedRole == "" {
		errs.Add("role", "Please select your role in this transaction")
	} else if !form.ValidRole(string(f.SelectedRole)) {
		errs.Add("role", "Unknown agent role")
	}
}

func validateProperty(f form.TransactionForm, errs form.Errors) {
	p := f.Property
	switch {
	case strings.TrimSpace(p.MLSNumber) == "":
		errs.Add("mlsNumber", "MLS number is required")
	case !mlsPattern.MatchString(strings.TrimSpace(p.MLSNumber)):
		errs.Add("mlsNumber", "MLS number must be 6 digits, optionally prefixed PM-")
	}
	if strings.TrimSpace(p.Address) == "" {
		errs.Add("propertyAddress", "Property address is required")
	}
	switch price := strings.TrimSpace(p.SalePrice); {
	case price == "":
		errs.Add("salePrice", "Sale price is required")
	case !isNumeric(price):
		errs.Add("salePrice", "Sale price must be a number")
	}
	if p.OccupancyStatus == "" {
		errs.Add("occupancyStatus", "Occupancy status is required")
	}
	switch date := strings.TrimSpace(p.ClosingDate); {
	case date == "":
		errs.Add("closingDate", "Closing date is required")
	case !isDate(date):
		errs.Add("closingDate", "Closing date must be YYYY-MM-DD")
	}
}

func validateClients(f form.TransactionForm, errs form.Errors) {
	if len(f.Clients) == 0 {
		errs.Add("clients", "At least one client is required")
		return
	}
	for i, c := range f.Clients {
		key := func(field string) string { return fmt.Sprintf("client%d%s", i, field) }

		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			errs.Add(key("Name"), "Client name is required")
		case len(strings.Fields(name)) < 2:
			errs.Add(key("Name"), "Please enter the client's full name")
		}

		// Email and phone are optional but checked for format when present.
		if c.Email != "" && !emailPattern.MatchString(c.Email) {
			errs.Add(key("Email"), "Invalid email address")
		}
		if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
			errs.Add(key("Phone"), "Invalid phone number")
		}

		if c.Type == "" {
			errs.Add(key("Type"), "Client type is required")
		} else if !form.AllowedClientType(f.SelectedRole, c.Type) {
			errs.Add(key("Type"), fmt.Sprintf("A %s cannot represent a %s",
				strings.ToLower(string(f.SelectedRole)), strings.ToLower(string(c.Type))))
		}
	}
}

func validateCommission(f form.TransactionForm, errs form.Errors) {
	c := f.Commission

	// Buyer's agents do not set the listing-side total commission, so
	// the required rule is suppressed for buyer-side roles.
	if !isBuyerSide(f.SelectedRole) {
		switch total := strings.TrimSpace(c.TotalCommission); {
		case total == "":
			errs.Add("totalCommission", "Total commission is required")
		case !isNumeric(total):
			errs.Add("totalCommission", "Total commission must be a number")
		}
		if c.CommissionBase != "" && c.CommissionBase != "percentage" && c.CommissionBase != "fixed" {
			errs.Add("commissionBase", "Commission base must be percentage or fixed")
		}
	}

	if c.ListingAgentPercent != "" && !isNumeric(c.ListingAgentPercent) {
		errs.Add("listingAgentPercent", "Listing agent commission must be a number")
	}
	if c.BuyersAgentPercent != "" && !isNumeric(c.BuyersAgentPercent) {
		errs.Add("buyersAgentPercent", "Buyer's agent commission must be a number")
	}

	if c.IsReferral {
		if strings.TrimSpace(c.ReferralParty) == "" {
			errs.Add("referralParty", "Referral party is required")
		}
		switch ein := strings.TrimSpace(c.BrokerEIN); {
		case ein == "":
			errs.Add("brokerEin", "Broker EIN is required for referrals")
		case !einPattern.MatchString(ein):
			errs.Add("brokerEin", "Broker EIN must be in XX-XXXXXXX format")
		}
		switch fee := strings.TrimSpace(c.ReferralFee); {
		case fee == "":
			errs.Add("referralFee", "Referral fee is required")
		case !isNumeric(fee):
			errs.Add("referralFee", "Referral fee must be a number")
		}
	}
}

func validateDetails(f form.TransactionForm, errs form.Errors) {
	d := f.Details
	if d.ResaleCertRequired && strings.TrimSpace(d.HOAName) == "" {
		errs.Add("hoaName", "HOA name is required when a resale certificate is needed")
	}
	if d.CORequired && strings.TrimSpace(d.Municipality) == "" {
		errs.Add("municipality", "Municipality is required when a C/O is needed")
	}
	if d.FirstRightOfRefusal && strings.TrimSpace(d.FirstRightName) == "" {
		errs.Add("firstRightName", "Name is required for first right of refusal")
	}
	if d.AttorneyRepresentation && strings.TrimSpace(d.AttorneyName) == "" {
		errs.Add("attorneyName", "Attorney name is required")
	}
}

func validateWarranty(f form.TransactionForm, errs form.Errors) {
	w := f.Warranty
	if !w.HomeWarranty {
		return
	}
	if strings.TrimSpace(w.Provider) == "" {
		errs.Add("warrantyProvider", "Warranty provider is required")
	}
	switch cost := strings.TrimSpace(w.Cost); {
	case cost == "":
		errs.Add("warrantyCost", "Warranty cost is required")
	case !isNumeric(cost):
		errs.Add("warrantyCost", "Warranty cost must be a number")
	}
	if w.PaidBy == "" {
		errs.Add("warrantyPaidBy", "Please select who pays for the warranty")
	}
}

func validateTitle(f form.TransactionForm, errs form.Errors) {
	if strings.TrimSpace(f.Title.Name) == "" {
		errs.Add("titleCompany", "Title company name is required")
	}
}

func validateDocuments(f form.TransactionForm, errs form.Errors) {
	if !f.Documents.Confirmed {
		errs.Add("documentsConfirmed", "Please confirm the required documents")
	}
}

func validateSignature(f form.TransactionForm, errs form.Errors) {
	s := f.Signature
	if strings.TrimSpace(s.AgentName) == "" {
		errs.Add("agentName", "Agent name is required")
	}
	switch date := strings.TrimSpace(s.DateSubmitted); {
	case date == "":
		errs.Add("dateSubmitted", "Date is required")
	case !isDate(date):
		errs.Add("dateSubmitted", "Date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(s.Signature) == "" {
		errs.Add("signature", "Signature is required")
	}
	if !s.TermsAccepted {
		errs.Add("termsAccepted", "You must accept the terms")
	}
	if !s.InfoConfirmed {
		errs.Add("infoConfirmed", "You must confirm the information is accurate")
	}
}

// isBuyerSide reports whether the role only represents the buying
// party. Matched loosely since historical payloads carried variants
// like "buyers-agent".
func isBuyerSide(role form.AgentRole) bool {
	r := strings.ToUpper(string(role))
	return strings.Contains(r, "BUYER") && !strings.Contains(r, "DUAL")
}

// isNumeric accepts plain numbers plus common currency punctuation.
func isNumeric(s string) bool {
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	if cleaned == "" {
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}

func isDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
