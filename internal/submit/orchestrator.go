// Package submit runs the five-step submission pipeline: final
// validation, datastore record creation, cover sheet generation,
// email delivery, and document attachment. The pipeline is
// best-effort and at-least-once: a failed step halts what follows
// but never rolls back what came before, and the caller always gets
// a structured result, never a panic or escaped error.
package submit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mreilly/tc-intake/internal/airtable"
	"github.com/mreilly/tc-intake/internal/coversheet"
	"github.com/mreilly/tc-intake/internal/email"
	"github.com/mreilly/tc-intake/internal/form"
	"github.com/mreilly/tc-intake/internal/validate"
)

// StepID names one pipeline step.
type StepID string

const (
	StepValidate  StepID = "validate-final"
	StepDatastore StepID = "submit-to-datastore"
	StepDocument  StepID = "generate-document"
	StepEmail     StepID = "send-email"
	StepAttach    StepID = "attach-document"
)

// Status is the observable state of a pipeline step.
type Status string

const (
	StatusPending  Status = "pending"
	StatusLoading  Status = "loading"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Step is the progress record for one pipeline step, detailed enough
// for a UI to render a progress list.
type Step struct {
	ID     StepID `json:"id"`
	Label  string `json:"label"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

var stepLabels = map[StepID]string{
	StepValidate:  "Validating transaction details",
	StepDatastore: "Saving transaction record",
	StepDocument:  "Generating cover sheet",
	StepEmail:     "Emailing cover sheet",
	StepAttach:    "Attaching cover sheet to record",
}

var stepOrder = []StepID{StepValidate, StepDatastore, StepDocument, StepEmail, StepAttach}

// Result is the outcome of one submission run.
type Result struct {
	Steps            []Step      `json:"steps"`
	RecordID         string      `json:"recordId,omitempty"`
	DocumentName     string      `json:"documentName,omitempty"`
	DocumentURL      string      `json:"documentUrl,omitempty"`
	EmailSent        bool        `json:"emailSent"`
	FallbackNotified bool        `json:"fallbackNotified"`
	ValidationErrors form.Errors `json:"validationErrors,omitempty"`
	Complete         bool        `json:"complete"`
	Partial          bool        `json:"partial"`
}

// Datastore is the record store the pipeline writes to.
type Datastore interface {
	CreateRecord(ctx context.Context, fields map[string]interface{}) (string, error)
	AttachDocument(ctx context.Context, recordID, url, filename string) error
}

// Renderer prints cover sheet HTML to PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Mailer delivers outgoing messages.
type Mailer interface {
	Send(msg email.Message) error
}

// FileStore persists a rendered document and returns its public URL.
type FileStore interface {
	Save(data []byte, filename string) (name, url string, err error)
}

// Orchestrator wires the delivery adapters into the fixed pipeline.
// A nil adapter is reported as a configuration error at its step
// rather than at construction, so a portal missing only SMTP still
// saves records.
type Orchestrator struct {
	Datastore Datastore
	Renderer  Renderer
	Mailer    Mailer
	Files     FileStore

	// Recipient is the fixed back-office address cover sheets go to.
	Recipient string

	// Attachment retry policy. Airtable records are eventually
	// consistent, so the attach step may need a few tries.
	AttachAttempts int
	AttachDelay    time.Duration

	// OnStep, when set, observes every step transition.
	OnStep func(Step)
}

const (
	defaultAttachAttempts = 3
	defaultAttachDelay    = 2 * time.Second
)

// Submit runs the pipeline against a form snapshot. The returned
// result always carries all five steps in order.
func (o *Orchestrator) Submit(ctx context.Context, f form.TransactionForm) *Result {
	run := newRun(o.OnStep)
	res := run.result

	// validate-final
	run.start(StepValidate)
	if errs := validate.Final(f); len(errs) > 0 {
		res.ValidationErrors = errs
		run.fail(StepValidate, fmt.Sprintf("%d field(s) failed validation", len(errs)))
		return res
	}
	run.complete(StepValidate)

	// submit-to-datastore
	run.start(StepDatastore)
	if o.Datastore == nil {
		run.fail(StepDatastore, "service configuration error: datastore is not configured")
		return res
	}
	recordID, err := o.Datastore.CreateRecord(ctx, airtable.Fields(f))
	if err != nil {
		run.fail(StepDatastore, fmt.Sprintf("saving record: %v", err))
		return res
	}
	res.RecordID = recordID
	run.complete(StepDatastore)

	// generate-document. Failure here degrades to a plain HTML
	// notification in the email step instead of halting.
	run.start(StepDocument)
	submissionDate := time.Now().Format("January 2, 2006")
	html, htmlErr := coversheet.Render(f, submissionDate)

	var pdfData []byte
	switch {
	case htmlErr != nil:
		run.fail(StepDocument, fmt.Sprintf("building cover sheet: %v", htmlErr))
	case o.Renderer == nil:
		run.fail(StepDocument, "service configuration error: document renderer is not configured")
	default:
		if pdfData, err = o.Renderer.RenderHTML(ctx, html); err != nil {
			slog.Warn("pdf render failed, falling back to html notification", "error", err)
			run.fail(StepDocument, fmt.Sprintf("rendering pdf: %v", err))
			pdfData = nil
		}
	}

	filename := coversheet.Filename(f)
	if pdfData != nil {
		if o.Files == nil {
			run.fail(StepDocument, "service configuration error: file store is not configured")
			pdfData = nil
		} else if name, url, err := o.Files.Save(pdfData, filename); err != nil {
			run.fail(StepDocument, fmt.Sprintf("storing pdf: %v", err))
			pdfData = nil
		} else {
			res.DocumentName = name
			res.DocumentURL = url
			run.complete(StepDocument)
		}
	}

	// send-email
	run.start(StepEmail)
	subject := fmt.Sprintf("Transaction Cover Sheet — %s", f.Property.Address)
	body := html
	if htmlErr != nil {
		body = fallbackBody(f, submissionDate)
	}
	switch {
	case o.Mailer == nil:
		run.fail(StepEmail, "service configuration error: email is not configured")
	case pdfData != nil:
		msg := email.Message{
			To:      []string{o.Recipient},
			Subject: subject,
			HTML:    body,
			Attachments: []email.Attachment{{
				Filename:    filename,
				ContentType: "application/pdf",
				Content:     pdfData,
			}},
		}
		if err := o.Mailer.Send(msg); err != nil {
			run.fail(StepEmail, fmt.Sprintf("sending email: %v", err))
		} else {
			res.EmailSent = true
			run.complete(StepEmail)
		}
	default:
		// Degraded path: same data, no attachment.
		msg := email.Message{
			To:      []string{o.Recipient},
			Subject: subject + " (cover sheet unavailable)",
			HTML:    body,
		}
		if err := o.Mailer.Send(msg); err != nil {
			run.fail(StepEmail, fmt.Sprintf("sending notification email: %v", err))
		} else {
			res.FallbackNotified = true
			run.complete(StepEmail)
		}
	}

	// attach-document
	run.start(StepAttach)
	switch {
	case res.DocumentURL == "":
		run.fail(StepAttach, "no document to attach")
	default:
		attempts := o.AttachAttempts
		if attempts <= 0 {
			attempts = defaultAttachAttempts
		}
		delay := o.AttachDelay
		if delay <= 0 {
			delay = defaultAttachDelay
		}
		err := Retry(ctx, attempts, delay, func() error {
			return o.Datastore.AttachDocument(ctx, recordID, res.DocumentURL, res.DocumentName)
		})
		if err != nil {
			run.fail(StepAttach, fmt.Sprintf("attaching document: %v", err))
		} else {
			run.complete(StepAttach)
		}
	}

	res.Complete = run.allComplete()
	res.Partial = res.RecordID != "" && !res.Complete
	return res
}

// fallbackBody builds a minimal HTML summary for the case where even
// template execution failed.
func fallbackBody(f form.TransactionForm, submissionDate string) string {
	return fmt.Sprintf(
		"<html><body><h1>Transaction Submission</h1>"+
			"<p>The cover sheet could not be generated. Summary:</p>"+
			"<ul><li>Role: %s</li><li>Agent: %s</li><li>Property: %s</li>"+
			"<li>MLS: %s</li><li>Sale price: %s</li><li>Closing: %s</li>"+
			"<li>Submitted: %s</li></ul></body></html>",
		f.SelectedRole, f.Signature.AgentName, f.Property.Address,
		f.Property.MLSNumber, coversheet.FormatCurrency(f.Property.SalePrice),
		coversheet.FormatDate(f.Property.ClosingDate), submissionDate,
	)
}

// run tracks per-step status for one pipeline execution.
type run struct {
	result *Result
	index  map[StepID]int
	onStep func(Step)
}

func newRun(onStep func(Step)) *run {
	r := &run{
		result: &Result{Steps: make([]Step, len(stepOrder))},
		index:  make(map[StepID]int, len(stepOrder)),
		onStep: onStep,
	}
	for i, id := range stepOrder {
		r.result.Steps[i] = Step{ID: id, Label: stepLabels[id], Status: StatusPending}
		r.index[id] = i
	}
	return r
}

func (r *run) start(id StepID)    { r.setStatus(id, StatusLoading, "") }
func (r *run) complete(id StepID) { r.setStatus(id, StatusComplete, "") }

func (r *run) fail(id StepID, msg string) {
	r.setStatus(id, StatusError, msg)
}

func (r *run) setStatus(id StepID, status Status, errMsg string) {
	i := r.index[id]
	r.result.Steps[i].Status = status
	r.result.Steps[i].Error = errMsg
	if r.onStep != nil {
		r.onStep(r.result.Steps[i])
	}
}

func (r *run) allComplete() bool {
	for _, s := range r.result.Steps {
		if s.Status != StatusComplete {
			return false
		}
	}
	return true
}
