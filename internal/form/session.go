package form

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors maps a field key to its validation messages. An empty map
// means the step is valid. Per-client keys are indexed, e.g. client0Email.
type Errors map[string][]string

// Add appends a message under the given field key.
func (e Errors) Add(key, msg string) {
	e[key] = append(e[key], msg)
}

// Validator checks one wizard step against a form snapshot and
// returns field errors. Implemented by the validate package.
type Validator func(step int, f TransactionForm) Errors

// Session owns the form state for one intake in progress. All
// mutations copy structurally, so snapshots returned from Form
// stay stable after later edits.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	mu         sync.Mutex
	form       TransactionForm
	validate   Validator
	skipped    map[int]bool
	submitting bool
	updatedAt  time.Time
}

// NewSession creates a session with a fresh default form.
func NewSession(v Validator) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		form:      NewTransactionForm(),
		validate:  v,
		skipped:   make(map[int]bool),
		updatedAt: now,
	}
}

// Form returns a snapshot of the current form state.
func (s *Session) Form() TransactionForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Clone()
}

// UpdatedAt returns the time of the last mutation.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// SetRole selects the agent role. Clients whose type the new role
// cannot represent are reset to the role's primary type.
func (s *Session) SetRole(role AgentRole) error {
	if !ValidRole(string(role)) {
		return fmt.Errorf("unknown agent role: %q", role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.SelectedRole = role
	types := ClientTypesForRole(role)
	for i := range s.form.Clients {
		if s.form.Clients[i].Type == "" || !AllowedClientType(role, s.form.Clients[i].Type) {
			s.form.Clients[i].Type = types[0]
		}
	}
	s.touch()
	return nil
}

// Typed section setters. The wizard submits whole sections, so each
// setter replaces its slice of the aggregate.

func (s *Session) SetProperty(p PropertyData) { s.set(func(f *TransactionForm) { f.Property = p }) }

func (s *Session) SetCommission(c CommissionData) {
	s.set(func(f *TransactionForm) { f.Commission = c })
}

func (s *Session) SetDetails(d PropertyDetails) { s.set(func(f *TransactionForm) { f.Details = d }) }

func (s *Session) SetWarranty(w WarrantyData) { s.set(func(f *TransactionForm) { f.Warranty = w }) }

func (s *Session) SetTitle(t TitleCompanyData) { s.set(func(f *TransactionForm) { f.Title = t }) }

func (s *Session) SetDocuments(d DocumentsData) {
	s.set(func(f *TransactionForm) {
		d.Selected = append([]string(nil), d.Selected...)
		f.Documents = d
	})
}

func (s *Session) SetAdditional(a AdditionalInfo) {
	s.set(func(f *TransactionForm) { f.Additional = a })
}

func (s *Session) SetSignature(sig SignatureData) {
	s.set(func(f *TransactionForm) { f.Signature = sig })
}

func (s *Session) set(apply func(*TransactionForm)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.form)
	s.touch()
}

// AddClient appends an empty client with a fresh id, typed to the
// first type the selected role allows.
func (s *Session) AddClient() Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Client{ID: uuid.NewString()}
	if types := ClientTypesForRole(s.form.SelectedRole); len(types) > 0 {
		c.Type = types[0]
	}
	s.form.Clients = append(s.form.Clients, c)
	s.touch()
	return c
}

// RemoveClient deletes a client by id. The last remaining client
// cannot be removed.
func (s *Session) RemoveClient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.form.Clients) <= 1 {
		return fmt.Errorf("at least one client is required")
	}
	for i, c := range s.form.Clients {
		if c.ID == id {
			s.form.Clients = append(s.form.Clients[:i:i], s.form.Clients[i+1:]...)
			s.touch()
			return nil
		}
	}
	return fmt.Errorf("client %s not found", id)
}

// UpdateClientField sets a single field on a client. Unknown fields
// are an error rather than a silent no-op.
func (s *Session) UpdateClientField(id, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.form.Clients {
		c := &s.form.Clients[i]
		if c.ID != id {
			continue
		}
		switch field {
		case "name":
			c.Name = value
		case "email":
			c.Email = value
		case "phone":
			c.Phone = value
		case "address":
			c.Address = value
		case "maritalStatus":
			c.MaritalStatus = value
		case "type":
			t := ClientType(value)
			if t != ClientBuyer && t != ClientSeller {
				return fmt.Errorf("invalid client type: %q", value)
			}
			if !AllowedClientType(s.form.SelectedRole, t) {
				return fmt.Errorf("role %s cannot represent a %s", s.form.SelectedRole, t)
			}
			c.Type = t
		default:
			return fmt.Errorf("unknown client field: %q", field)
		}
		s.touch()
		return nil
	}
	return fmt.Errorf("client %s not found", id)
}

// Next advances one step. The current step must validate first;
// bypass proceeds anyway and flags the step as skipped, except on
// the role step, which can never be bypassed.
func (s *Session) Next(bypass bool) (int, Errors) {
	return s.GoTo(s.currentStep()+1, bypass)
}

// Previous moves back one step. Never gated by validation.
func (s *Session) Previous() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form.CurrentStep > StepRole {
		s.form.CurrentStep--
		s.touch()
	}
	return s.form.CurrentStep
}

// GoTo jumps to step n. Backward jumps always succeed. Forward jumps
// validate every intervening step; the first failing step blocks
// (or is flagged skipped when bypass is set).
func (s *Session) GoTo(n int, bypass bool) (int, Errors) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < StepRole {
		n = StepRole
	}
	if n > TotalSteps {
		n = TotalSteps
	}
	if n <= s.form.CurrentStep {
		s.form.CurrentStep = n
		s.touch()
		return n, nil
	}

	for step := s.form.CurrentStep; step < n; step++ {
		errs := s.validate(step, s.form)
		if len(errs) == 0 {
			delete(s.skipped, step)
			continue
		}
		if !bypass || step == StepRole {
			return s.form.CurrentStep, errs
		}
		s.skipped[step] = true
	}

	s.form.CurrentStep = n
	s.touch()
	return n, nil
}

// SkippedSteps lists steps the user bypassed with outstanding
// validation errors, ascending.
func (s *Session) SkippedSteps() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	steps := make([]int, 0, len(s.skipped))
	for step := range s.skipped {
		steps = append(steps, step)
	}
	sort.Ints(steps)
	return steps
}

// BeginSubmit marks the session as submitting. Returns false if a
// submission is already in flight, guarding against double-click.
func (s *Session) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit clears the in-flight submission flag.
func (s *Session) EndSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

// Reset restores the session to a fresh default form.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = NewTransactionForm()
	s.skipped = make(map[int]bool)
	s.touch()
}

func (s *Session) currentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.CurrentStep
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}
