package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mreilly/tc-intake/internal/coversheet"
	"github.com/mreilly/tc-intake/internal/email"
	"github.com/mreilly/tc-intake/internal/form"
)

// handleSubmit runs the submission pipeline for a session.
// Re-entrant submits (double-click) are rejected with 409.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, sess *form.Session) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.orchestrator == nil {
		apiError(w, "service configuration error: submission pipeline is not configured", http.StatusServiceUnavailable)
		return
	}
	if !sess.BeginSubmit() {
		apiError(w, "a submission is already in progress", http.StatusConflict)
		return
	}
	defer sess.EndSubmit()

	snapshot := sess.Form()
	result := s.orchestrator.Submit(r.Context(), snapshot)

	if s.journalRepo != nil {
		if _, err := s.journalRepo.Record(snapshot, result); err != nil {
			slog.Error("recording submission in journal", "error", err)
		}
	}

	if result.Complete {
		s.dropSession(sess.ID)
	}

	apiJSON(w, result, http.StatusOK)
}

// handleSubmissions handles GET /api/submissions.
func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.journalRepo == nil {
		apiError(w, "journal is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			apiError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.journalRepo.List(limit)
	if err != nil {
		apiError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	apiJSON(w, entries, http.StatusOK)
}

// handleSubmissionRoute handles GET /api/submissions/{id}.
func (s *Server) handleSubmissionRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.journalRepo == nil {
		apiError(w, "journal is not configured", http.StatusServiceUnavailable)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/submissions/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiError(w, "invalid submission ID", http.StatusBadRequest)
		return
	}

	entry, err := s.journalRepo.Get(id)
	if err != nil {
		apiError(w, err.Error(), http.StatusNotFound)
		return
	}
	apiJSON(w, entry, http.StatusOK)
}

// renderRequest is the document-generation contract: render a cover
// sheet for the given form data, optionally emailing it.
type renderRequest struct {
	Form         form.TransactionForm `json:"form"`
	Filename     string               `json:"filename"`
	SendEmail    bool                 `json:"sendEmail"`
	EmailTo      string               `json:"emailTo"`
	EmailSubject string               `json:"emailSubject"`
}

type renderResponse struct {
	Success   bool   `json:"success"`
	PDFPath   string `json:"pdfPath,omitempty"`
	EmailSent bool   `json:"emailSent"`
	Error     string `json:"error,omitempty"`
}

// handleRender handles POST /api/render. Unlike submit, failures are
// reported in the response body with success=false, matching the
// generate-document contract.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.orchestrator == nil || s.orchestrator.Renderer == nil || s.orchestrator.Files == nil {
		apiJSON(w, renderResponse{Error: "document renderer is not configured"}, http.StatusOK)
		return
	}

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	html, err := coversheet.Render(req.Form, time.Now().Format("January 2, 2006"))
	if err != nil {
		apiJSON(w, renderResponse{Error: err.Error()}, http.StatusOK)
		return
	}

	pdfData, err := s.orchestrator.Renderer.RenderHTML(r.Context(), html)
	if err != nil {
		apiJSON(w, renderResponse{Error: err.Error()}, http.StatusOK)
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = coversheet.Filename(req.Form)
	}
	name, url, err := s.orchestrator.Files.Save(pdfData, filename)
	if err != nil {
		apiJSON(w, renderResponse{Error: err.Error()}, http.StatusOK)
		return
	}

	resp := renderResponse{Success: true, PDFPath: url}
	if req.SendEmail && s.orchestrator.Mailer != nil {
		to := req.EmailTo
		if to == "" {
			to = s.orchestrator.Recipient
		}
		subject := req.EmailSubject
		if subject == "" {
			subject = "Transaction Cover Sheet — " + req.Form.Property.Address
		}
		msg := email.Message{
			To:      []string{to},
			Subject: subject,
			HTML:    html,
			Attachments: []email.Attachment{{
				Filename:    name,
				ContentType: "application/pdf",
				Content:     pdfData,
			}},
		}
		if err := s.orchestrator.Mailer.Send(msg); err != nil {
			resp.Error = err.Error()
		} else {
			resp.EmailSent = true
		}
	}
	apiJSON(w, resp, http.StatusOK)
}
