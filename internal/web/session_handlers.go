package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mreilly/tc-intake/internal/form"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// sessionResponse is the wire shape of a form session.
type sessionResponse struct {
	ID           string               `json:"id"`
	Form         form.TransactionForm `json:"form"`
	SkippedSteps []int                `json:"skippedSteps"`
}

func newSessionResponse(sess *form.Session) sessionResponse {
	skipped := sess.SkippedSteps()
	if skipped == nil {
		skipped = []int{}
	}
	return sessionResponse{ID: sess.ID, Form: sess.Form(), SkippedSteps: skipped}
}

// handleSessions handles POST /api/sessions.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := s.newSession()
	apiJSON(w, newSessionResponse(sess), http.StatusCreated)
}

// handleSessionRoute routes /api/sessions/{id}/* requests.
func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	id, rest, _ := strings.Cut(path, "/")

	sess, ok := s.session(id)
	if !ok {
		apiError(w, "session not found", http.StatusNotFound)
		return
	}

	switch {
	case rest == "":
		if r.Method != http.MethodGet {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		apiJSON(w, newSessionResponse(sess), http.StatusOK)
	case rest == "role":
		s.handleSetRole(w, r, sess)
	case strings.HasPrefix(rest, "sections/"):
		s.handleSection(w, r, sess, strings.TrimPrefix(rest, "sections/"))
	case rest == "clients" || strings.HasPrefix(rest, "clients/"):
		s.handleClients(w, r, sess, strings.TrimPrefix(strings.TrimPrefix(rest, "clients"), "/"))
	case rest == "next":
		s.handleNext(w, r, sess)
	case rest == "previous":
		s.handlePrevious(w, r, sess)
	case rest == "goto":
		s.handleGoTo(w, r, sess)
	case rest == "reset":
		s.handleReset(w, r, sess)
	case rest == "submit":
		s.handleSubmit(w, r, sess)
	default:
		apiError(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request, sess *form.Session) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := sess.SetRole(form.AgentRole(req.Role)); err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	apiJSON(w, newSessionResponse(sess), http.StatusOK)
}

// handleSection handles PUT /api/sessions/{id}/sections/{name}.
// Each section decodes into its own struct; unknown sections and
// unknown fields are rejected rather than silently dropped.
func (s *Server) handleSection(w http.ResponseWriter, r *http.Request, sess *form.Session, name string) {
	if r.Method != http.MethodPut {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var err error
	switch name {
	case "property":
		var v form.PropertyData
		if err = dec.Decode(&v); err == nil {
			sess.SetProperty(v)
		}
	case "commission":
		var v form.CommissionData
		if err = dec.Decode(&v); err == nil {
			sess.SetCommission(v)
		}
	case "details":
		var v form.PropertyDetails
		if err = dec.Decode(&v); err == nil {
			sess.SetDetails(v)
		}
	case "warranty":
		var v form.WarrantyData
		if err = dec.Decode(&v); err == nil {
			sess.SetWarranty(v)
		}
	case "title":
		var v form.TitleCompanyData
		if err = dec.Decode(&v); err == nil {
			sess.SetTitle(v)
		}
	case "documents":
		var v form.DocumentsData
		if err = dec.Decode(&v); err == nil {
			sess.SetDocuments(v)
		}
	case "additional":
		var v form.AdditionalInfo
		if err = dec.Decode(&v); err == nil {
			sess.SetAdditional(v)
		}
	case "signature":
		var v form.SignatureData
		if err = dec.Decode(&v); err == nil {
			sess.SetSignature(v)
		}
	default:
		apiError(w, "unknown section: "+name, http.StatusNotFound)
		return
	}

	if err != nil {
		apiError(w, "invalid section body: "+err.Error(), http.StatusBadRequest)
		return
	}
	apiJSON(w, newSessionResponse(sess), http.StatusOK)
}

// handleClients handles /api/sessions/{id}/clients and
// /api/sessions/{id}/clients/{clientID}.
func (s *Server) handleClients(w http.ResponseWriter, r *http.Request, sess *form.Session, clientID string) {
	if clientID == "" {
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sess.AddClient()
		apiJSON(w, newSessionResponse(sess), http.StatusCreated)
		return
	}

	switch r.Method {
	case http.MethodDelete:
		if err := sess.RemoveClient(clientID); err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
	case http.MethodPatch:
		var req struct {
			Field string `json:"field"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := sess.UpdateClientField(clientID, req.Field, req.Value); err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, newSessionResponse(sess), http.StatusOK)
}

// navResponse reports where navigation landed and why it was blocked,
// if it was.
type navResponse struct {
	Step         int         `json:"step"`
	Blocked      bool        `json:"blocked"`
	Errors       form.Errors `json:"errors,omitempty"`
	SkippedSteps []int       `json:"skippedSteps"`
}

func newNavResponse(sess *form.Session, step int, errs form.Errors) navResponse {
	skipped := sess.SkippedSteps()
	if skipped == nil {
		skipped = []int{}
	}
	return navResponse{Step: step, Blocked: len(errs) > 0, Errors: errs, SkippedSteps: skipped}
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request, sess *form.Session) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Bypass bool `json:"bypass"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	step, errs := sess.Next(req.Bypass)
	apiJSON(w, newNavResponse(sess, step, errs), http.StatusOK)
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request, sess *form.Session) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	step := sess.Previous()
	apiJSON(w, newNavResponse(sess, step, nil), http.StatusOK)
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request, sess *form.Session) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Step   int  `json:"step"`
		Bypass bool `json:"bypass"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	step, errs := sess.GoTo(req.Step, req.Bypass)
	apiJSON(w, newNavResponse(sess, step, errs), http.StatusOK)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *form.Session) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess.Reset()
	apiJSON(w, newSessionResponse(sess), http.StatusOK)
}
