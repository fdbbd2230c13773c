// Package form provides the transaction intake form model and session state.
package form

import "github.com/google/uuid"

// AgentRole identifies which side of the transaction the agent represents.
type AgentRole string

const (
	RoleListingAgent AgentRole = "LISTING AGENT"
	RoleBuyersAgent  AgentRole = "BUYERS AGENT"
	RoleDualAgent    AgentRole = "DUAL AGENT"
)

// ValidRole returns true if s is a known agent role.
func ValidRole(s string) bool {
	switch AgentRole(s) {
	case RoleListingAgent, RoleBuyersAgent, RoleDualAgent:
		return true
	}
	return false
}

// ClientType marks a client as the buying or selling party.
type ClientType string

const (
	ClientBuyer  ClientType = "BUYER"
	ClientSeller ClientType = "SELLER"
)

// Wizard step numbers. Forward navigation past a step requires that
// step to validate (or an explicit bypass).
const (
	StepRole = iota + 1
	StepProperty
	StepClients
	StepCommission
	StepDetails
	StepWarranty
	StepTitle
	StepDocuments
	StepAdditional
	StepSignature

	TotalSteps = StepSignature
)

// PropertyData describes the property under contract.
type PropertyData struct {
	MLSNumber       string `json:"mlsNumber"`
	Address         string `json:"address"`
	SalePrice       string `json:"salePrice"`
	OccupancyStatus string `json:"occupancyStatus"`
	IsWinterized    bool   `json:"isWinterized"`
	UpdateMLS       bool   `json:"updateMls"`
	ClosingDate     string `json:"closingDate"`
}

// Client is one party to the transaction.
type Client struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	MaritalStatus string     `json:"maritalStatus"`
	Type          ClientType `json:"type"`
}

// CommissionData holds commission terms for the transaction.
// CommissionBase discriminates between percentage and fixed amounts.
type CommissionData struct {
	CommissionBase      string `json:"commissionBase"` // "percentage" or "fixed"
	TotalCommission     string `json:"totalCommission"`
	ListingAgentPercent string `json:"listingAgentPercent"`
	BuyersAgentPercent  string `json:"buyersAgentPercent"`
	IsReferral          bool   `json:"isReferral"`
	ReferralParty       string `json:"referralParty"`
	BrokerEIN           string `json:"brokerEin"`
	ReferralFee         string `json:"referralFee"`
}

// PropertyDetails holds conditionally required property particulars.
// Each name field is required only when its owning flag is set.
type PropertyDetails struct {
	ResaleCertRequired     bool   `json:"resaleCertRequired"`
	HOAName                string `json:"hoaName"`
	CORequired             bool   `json:"coRequired"`
	Municipality           string `json:"municipality"`
	FirstRightOfRefusal    bool   `json:"firstRightOfRefusal"`
	FirstRightName         string `json:"firstRightName"`
	AttorneyRepresentation bool   `json:"attorneyRepresentation"`
	AttorneyName           string `json:"attorneyName"`
}

// WarrantyData describes an optional home warranty purchase.
type WarrantyData struct {
	HomeWarranty bool   `json:"homeWarranty"`
	Provider     string `json:"provider"`
	Cost         string `json:"cost"`
	PaidBy       string `json:"paidBy"`
}

// TitleCompanyData identifies the title company handling closing.
type TitleCompanyData struct {
	Name         string `json:"name"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
}

// DocumentsData is the required-documents checklist.
type DocumentsData struct {
	Selected  []string `json:"selected"`
	Confirmed bool     `json:"confirmed"`
}

// AdditionalInfo carries free-text notes for the coordinator.
type AdditionalInfo struct {
	SpecialInstructions string `json:"specialInstructions"`
	UrgentIssues        string `json:"urgentIssues"`
	Notes               string `json:"notes"`
}

// SignatureData is the agent's sign-off on the submission.
type SignatureData struct {
	AgentName     string `json:"agentName"`
	DateSubmitted string `json:"dateSubmitted"`
	Signature     string `json:"signature"`
	TermsAccepted bool   `json:"termsAccepted"`
	InfoConfirmed bool   `json:"infoConfirmed"`
}

// TransactionForm is the aggregate state of one intake session.
type TransactionForm struct {
	SelectedRole AgentRole        `json:"selectedRole"`
	CurrentStep  int              `json:"currentStep"`
	Property     PropertyData     `json:"propertyData"`
	Clients      []Client         `json:"clients"`
	Commission   CommissionData   `json:"commissionData"`
	Details      PropertyDetails  `json:"propertyDetails"`
	Warranty     WarrantyData     `json:"warrantyData"`
	Title        TitleCompanyData `json:"titleData"`
	Documents    DocumentsData    `json:"documentsData"`
	Additional   AdditionalInfo   `json:"additionalInfo"`
	Signature    SignatureData    `json:"signatureData"`
}

// NewTransactionForm returns a form with defaults: step 1, no role,
// a single empty client placeholder.
func NewTransactionForm() TransactionForm {
	return TransactionForm{
		CurrentStep: StepRole,
		Clients:     []Client{{ID: uuid.NewString()}},
	}
}

// Clone returns a deep copy of the form. Slices are copied so
// snapshots never alias live session state.
func (f TransactionForm) Clone() TransactionForm {
	c := f
	c.Clients = make([]Client, len(f.Clients))
	copy(c.Clients, f.Clients)
	c.Documents.Selected = make([]string, len(f.Documents.Selected))
	copy(c.Documents.Selected, f.Documents.Selected)
	return c
}

// ClientTypesForRole returns the client types an agent role may represent.
func ClientTypesForRole(role AgentRole) []ClientType {
	switch role {
	case RoleListingAgent:
		return []ClientType{ClientSeller}
	case RoleBuyersAgent:
		return []ClientType{ClientBuyer}
	case RoleDualAgent:
		return []ClientType{ClientBuyer, ClientSeller}
	}
	return nil
}

// AllowedClientType returns true if a client of type t may appear
// under the given role.
func AllowedClientType(role AgentRole, t ClientType) bool {
	if t == "" {
		return true
	}
	for _, allowed := range ClientTypesForRole(role) {
		if t == allowed {
			return true
		}
	}
	return false
}
