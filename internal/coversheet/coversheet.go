// Package coversheet selects and populates the transaction cover
// sheet templates. All functions are side-effect-free: mapping the
// same form snapshot twice yields identical output.
package coversheet

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/mreilly/tc-intake/internal/form"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateID identifies one of the three cover sheet layouts.
type TemplateID string

const (
	TemplateSeller    TemplateID = "seller"
	TemplateBuyer     TemplateID = "buyer"
	TemplateDualAgent TemplateID = "dual-agent"
)

// SelectTemplate maps an agent role to a cover sheet template by
// case-insensitive substring match. Unrecognized roles fall back to
// the buyer template rather than erroring.
func SelectTemplate(role string) TemplateID {
	r := strings.ToUpper(role)
	switch {
	case strings.Contains(r, "DUAL"):
		return TemplateDualAgent
	case strings.Contains(r, "LISTING") || strings.Contains(r, "SELLER"):
		return TemplateSeller
	case strings.Contains(r, "BUYER"):
		return TemplateBuyer
	}
	return TemplateBuyer
}

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render populates the template for the form's role with the mapped
// placeholder data and returns the cover sheet HTML.
func Render(f form.TransactionForm, submissionDate string) (string, error) {
	id := SelectTemplate(string(f.SelectedRole))
	data := MapFormData(f, submissionDate)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(id)+".html", data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", id, err)
	}
	return buf.String(), nil
}

// Filename builds the attachment filename for a cover sheet.
func Filename(f form.TransactionForm) string {
	addr := strings.TrimSpace(f.Property.Address)
	if addr == "" {
		addr = "transaction"
	}
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, addr)
	return fmt.Sprintf("cover-sheet-%s.pdf", strings.Trim(slug, "-"))
}
