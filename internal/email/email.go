// Package email sends cover sheet emails over SMTP.
package email

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// IsConfigured returns true if SMTP settings are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.From != ""
}

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one outgoing email. HTML is the body; Attachments may
// be empty for plain notification mails.
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Send sends a message via SMTP.
// Supports both port 465 (implicit TLS) and port 587 (STARTTLS).
func Send(cfg SMTPConfig, msg Message) error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	raw := buildMIME(cfg.From, msg)
	addr := cfg.Host + ":" + cfg.Port

	if cfg.Port == "465" {
		return sendImplicitTLS(cfg, addr, msg.To, raw)
	}
	return sendSTARTTLS(cfg, addr, msg.To, raw)
}

// buildMIME assembles the raw RFC 5322 message. Bodies with
// attachments use multipart/mixed; plain HTML bodies stay single-part.
func buildMIME(from string, msg Message) []byte {
	var sb strings.Builder
	write := func(format string, args ...interface{}) {
		fmt.Fprintf(&sb, format, args...)
	}

	write("From: %s\r\n", from)
	write("To: %s\r\n", strings.Join(msg.To, ", "))
	write("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	write("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		write("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		write("%s", msg.HTML)
		return []byte(sb.String())
	}

	const boundary = "tci-coversheet-boundary"
	write("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	write("%s\r\n", msg.HTML)

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		write("--%s\r\n", boundary)
		write("Content-Type: %s\r\n", contentType)
		write("Content-Transfer-Encoding: base64\r\n")
		write("Content-Disposition: attachment; filename=%q\r\n\r\n", att.Filename)

		encoded := base64.StdEncoding.EncodeToString(att.Content)
		for len(encoded) > 76 {
			write("%s\r\n", encoded[:76])
			encoded = encoded[76:]
		}
		write("%s\r\n", encoded)
	}
	write("--%s--\r\n", boundary)

	return []byte(sb.String())
}

// sendImplicitTLS connects over TLS directly (port 465/SMTPS).
func sendImplicitTLS(cfg SMTPConfig, addr string, to []string, msg []byte) error {
	tlsCfg := &tls.Config{ServerName: cfg.Host}
	conn, err := tls.Dial("tcp", addr, tlsCfg)
	if err != nil {
		return fmt.Errorf("TLS dial: %w", err)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if cfg.User != "" {
		auth := smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return nil
}

// sendSTARTTLS connects plain then upgrades to TLS (port 587).
func sendSTARTTLS(cfg SMTPConfig, addr string, to []string, msg []byte) error {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, cfg.From, to, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
