package validate

import (
	"fmt"
	"testing"

	"github.com/mreilly/tc-intake/internal/form"
)

// validForm builds a form that passes every step for the given role.
func validForm(role form.AgentRole) form.TransactionForm {
	clientType := form.ClientSeller
	if role == form.RoleBuyersAgent {
		clientType = form.ClientBuyer
	}

	return form.TransactionForm{
		SelectedRole: role,
		CurrentStep:  form.StepRole,
		Property: form.PropertyData{
			MLSNumber:       "PM-123456",
			Address:         "123 Maple Street, Harrisburg, PA",
			SalePrice:       "425000",
			OccupancyStatus: "Owner occupied",
			ClosingDate:     "2026-10-15",
		},
		Clients: []form.Client{{
			ID:    "c1",
			Name:  "Jordan Avery",
			Email: "jordan@example.com",
			Phone: "717-555-0123",
			Type:  clientType,
		}},
		Commission: form.CommissionData{
			CommissionBase:      "percentage",
			TotalCommission:     "6",
			ListingAgentPercent: "3",
			BuyersAgentPercent:  "3",
		},
		Title:     form.TitleCompanyData{Name: "Keystone Title"},
		Documents: form.DocumentsData{Confirmed: true},
		Signature: form.SignatureData{
			AgentName:     "Sam Agent",
			DateSubmitted: "2026-08-01",
			Signature:     "Sam Agent",
			TermsAccepted: true,
			InfoConfirmed: true,
		},
	}
}

func TestValidFormPassesEveryStep(t *testing.T) {
	for _, role := range []form.AgentRole{form.RoleListingAgent, form.RoleBuyersAgent, form.RoleDualAgent} {
		t.Run(string(role), func(t *testing.T) {
			f := validForm(role)
			for step := form.StepRole; step <= form.TotalSteps; step++ {
				if errs := Step(step, f); len(errs) != 0 {
					t.Errorf("step %d: unexpected errors: %v", step, errs)
				}
			}
			if errs := Final(f); len(errs) != 0 {
				t.Errorf("Final: unexpected errors: %v", errs)
			}
		})
	}
}

func TestStepIsDeterministic(t *testing.T) {
	f := validForm(form.RoleListingAgent)
	f.Property.MLSNumber = "bad"
	first := Step(form.StepProperty, f)
	second := Step(form.StepProperty, f)
	if len(first) != len(second) {
		t.Fatalf("same input gave different error counts: %d vs %d", len(first), len(second))
	}
	for key := range first {
		if len(second[key]) != len(first[key]) {
			t.Errorf("key %s differs between calls", key)
		}
	}
}

func TestValidateRole(t *testing.T) {
	f := form.TransactionForm{}
	errs := Step(form.StepRole, f)
	if len(errs["role"]) == 0 {
		t.Error("expected role error for empty role")
	}

	f.SelectedRole = form.RoleDualAgent
	if errs := Step(form.StepRole, f); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestMLSNumberBoundaries(t *testing.T) {
	tests := []struct {
		mls  string
		want bool
	}{
		{"123456", true},
		{"PM-123456", true},
		{"12345", false},
		{"1234567", false},
		{"AB-123456", false},
		{"PM123456", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("mls=%q", tt.mls), func(t *testing.T) {
			f := validForm(form.RoleListingAgent)
			f.Property.MLSNumber = tt.mls
			errs := Step(form.StepProperty, f)
			gotValid := len(errs["mlsNumber"]) == 0
			if gotValid != tt.want {
				t.Errorf("mls %q: valid = %v, want %v (errors: %v)", tt.mls, gotValid, tt.want, errs["mlsNumber"])
			}
		})
	}
}

func TestPropertyRequiredFields(t *testing.T) {
	f := form.TransactionForm{SelectedRole: form.RoleListingAgent}
	errs := Step(form.StepProperty, f)

	for _, key := range []string{"mlsNumber", "propertyAddress", "salePrice", "occupancyStatus", "closingDate"} {
		if len(errs[key]) == 0 {
			t.Errorf("expected error for %s", key)
		}
	}
}

func TestClientEmailFormat(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantError bool
	}{
		{"empty email is allowed", "", false},
		{"valid email", "sam@example.com", false},
		{"not an email", "not-an-email", true},
		{"missing domain", "sam@", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm(form.RoleListingAgent)
			f.Clients[0].Email = tt.email
			errs := Step(form.StepClients, f)
			got := errs["client0Email"]
			if tt.wantError && len(got) != 1 {
				t.Errorf("expected exactly one client0Email error, got %v", got)
			}
			if !tt.wantError && len(got) != 0 {
				t.Errorf("unexpected client0Email error: %v", got)
			}
		})
	}
}

func TestClientPhoneFormat(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"", true},
		{"717-555-0123", true},
		{"(717) 555-0123", true},
		{"7175550123", true},
		{"555-0123", false},
		{"phone", false},
	}

	for _, tt := range tests {
		f := validForm(form.RoleListingAgent)
		f.Clients[0].Phone = tt.phone
		errs := Step(form.StepClients, f)
		gotValid := len(errs["client0Phone"]) == 0
		if gotValid != tt.want {
			t.Errorf("phone %q: valid = %v, want %v", tt.phone, gotValid, tt.want)
		}
	}
}

func TestClientNameRequiresTwoWords(t *testing.T) {
	f := validForm(form.RoleListingAgent)
	f.Clients[0].Name = "Cher"
	errs := Step(form.StepClients, f)
	if len(errs["client0Name"]) == 0 {
		t.Error("expected error for single-word name")
	}
}

func TestClientErrorsAreIndexed(t *testing.T) {
	f := validForm(form.RoleListingAgent)
	f.Clients = append(f.Clients, form.Client{
		ID:    "c2",
		Name:  "Pat Quinn",
		Email: "broken",
		Type:  form.ClientSeller,
	})

	errs := Step(form.StepClients, f)
	if len(errs["client0Email"]) != 0 {
		t.Errorf("first client should have no email error: %v", errs["client0Email"])
	}
	if len(errs["client1Email"]) != 1 {
		t.Errorf("second client should have one email error: %v", errs["client1Email"])
	}
}

func TestClientTypeConstrainedByRole(t *testing.T) {
	f := validForm(form.RoleListingAgent)
	f.Clients[0].Type = form.ClientBuyer
	errs := Step(form.StepClients, f)
	if len(errs["client0Type"]) == 0 {
		t.Error("listing agent with a buyer client should fail")
	}

	f = validForm(form.RoleDualAgent)
	f.Clients[0].Type = form.ClientBuyer
	if errs := Step(form.StepClients, f); len(errs["client0Type"]) != 0 {
		t.Errorf("dual agent may represent buyers: %v", errs["client0Type"])
	}
}

func TestNoClients(t *testing.T) {
	f := validForm(form.RoleListingAgent)
	f.Clients = nil
	errs := Step(form.StepClients, f)
	if len(errs["clients"]) == 0 {
		t.Error("expected clients error when list is empty")
	}
}

func TestCommissionSuppressedForBuyersAgent(t *testing.T) {
	tests := []struct {
		role      form.AgentRole
		wantError bool
	}{
		{form.RoleBuyersAgent, false},
		{form.AgentRole("buyers-agent"), false},
		{form.RoleListingAgent, true},
		{form.RoleDualAgent, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			f := validForm(tt.role)
			f.Commission.TotalCommission = ""
			errs := Step(form.StepCommission, f)
			got := len(errs["totalCommission"]) > 0
			if got != tt.wantError {
				t.Errorf("role %s: totalCommission error = %v, want %v", tt.role, got, tt.wantError)
			}
		})
	}
}

func TestReferralFieldsRequiredWhenActive(t *testing.T) {
	f := validForm(form.RoleListingAgent)
	f.Commission.IsReferral = true
	errs := Step(form.StepCommission, f)

	for _, key := range []string{"referralParty", "brokerEin", "referralFee"} {
		if len(errs[key]) == 0 {
			t.Errorf("expected error for %s when referral is active", key)
		}
	}

	f.Commission.ReferralParty = "Acme Realty"
	f.Commission.BrokerEIN = "12-3456789"
	f.Commission.ReferralFee = "25"
	if errs := Step(form.StepCommission, f); len(errs) != 0 {
		t.Errorf("unexpected errors with referral filled: %v", errs)
	}
}

func TestBrokerEINFormat(t *testing.T) {
	f := validForm(form.RoleListingAgent)
	f.Commission.IsReferral = true
	f.Commission.ReferralParty = "Acme Realty"
	f.Commission.ReferralFee = "25"
	f.Commission.BrokerEIN = "not-an-ein"
	errs := Step(form.StepCommission, f)
	if len(errs["brokerEin"]) == 0 {
		t.Error("expected format error for bad EIN")
	}
}

func TestConditionalDetailFields(t *testing.T) {
	tests := []struct {
		name   string
		apply  func(*form.PropertyDetails)
		errKey string
	}{
		{"hoa name when resale cert", func(d *form.PropertyDetails) { d.ResaleCertRequired = true }, "hoaName"},
		{"municipality when co", func(d *form.PropertyDetails) { d.CORequired = true }, "municipality"},
		{"first right name", func(d *form.PropertyDetails) { d.FirstRightOfRefusal = true }, "firstRightName"},
		{"attorney name", func(d *form.PropertyDetails) { d.AttorneyRepresentation = true }, "attorneyName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm(form.RoleListingAgent)

			// Flag off: no error even with the field empty.
			if errs := Step(form.StepDetails, f); len(errs[tt.errKey]) != 0 {
				t.Errorf("unexpected %s error with flag off: %v", tt.errKey, errs[tt.errKey])
			}

			tt.apply(&f.Details)
			if errs := Step(form.StepDetails, f); len(errs[tt.errKey]) == 0 {
				t.Errorf("expected %s error with flag on", tt.errKey)
			}
		})
	}
}

func TestWarrantyFieldsRequiredWhenPurchased(t *testing.T) {
	f := validForm(form.RoleListingAgent)

	if errs := Step(form.StepWarranty, f); len(errs) != 0 {
		t.Errorf("no warranty purchased should validate: %v", errs)
	}

	f.Warranty.HomeWarranty = true
	errs := Step(form.StepWarranty, f)
	for _, key := range []string{"warrantyProvider", "warrantyCost", "warrantyPaidBy"} {
		if len(errs[key]) == 0 {
			t.Errorf("expected error for %s", key)
		}
	}

	f.Warranty.Provider = "HomeShield"
	f.Warranty.Cost = "550"
	f.Warranty.PaidBy = "SELLER"
	if errs := Step(form.StepWarranty, f); len(errs) != 0 {
		t.Errorf("unexpected errors with warranty filled: %v", errs)
	}
}

func TestSignatureStep(t *testing.T) {
	f := validForm(form.RoleListingAgent)
	f.Signature = form.SignatureData{}
	errs := Step(form.StepSignature, f)
	for _, key := range []string{"agentName", "dateSubmitted", "signature", "termsAccepted", "infoConfirmed"} {
		if len(errs[key]) == 0 {
			t.Errorf("expected error for %s", key)
		}
	}
}

func TestFinalMergesAllSteps(t *testing.T) {
	f := form.TransactionForm{SelectedRole: form.RoleListingAgent}
	errs := Final(f)
	if len(errs["mlsNumber"]) == 0 {
		t.Error("expected property errors in final validation")
	}
	if len(errs["clients"]) == 0 {
		t.Error("expected client errors in final validation")
	}
	if len(errs["signature"]) == 0 {
		t.Error("expected signature errors in final validation")
	}
}
