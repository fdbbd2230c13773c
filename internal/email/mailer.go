package email

import (
	"fmt"
)

// Mailer sends messages via SMTP, or logs them in dev mode.
type Mailer struct {
	config  SMTPConfig
	devMode bool
}

// NewMailer creates a mailer with the given config.
func NewMailer(config SMTPConfig, devMode bool) *Mailer {
	return &Mailer{config: config, devMode: devMode}
}

// Send delivers the message. In dev mode it prints a summary instead
// of connecting to the SMTP server.
func (m *Mailer) Send(msg Message) error {
	if m.devMode {
		fmt.Printf("[DEV] email to %v: %q (%d attachment(s))\n", msg.To, msg.Subject, len(msg.Attachments))
		return nil
	}
	return Send(m.config, msg)
}
