// Package mailer delivers notification email through a single SMTP account.
package mailer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Config holds the SMTP account the service sends from.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Sender assembles and sends multipart HTML mail.
type Sender struct {
	cfg Config
	log *zap.Logger
}

// New constructs a Sender.
func New(cfg Config, log *zap.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

// Configured reports whether the SMTP account is usable.
func (s *Sender) Configured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send delivers an HTML message to toAddr. fromAddr is used as the
// envelope/header From when non-empty, else the account's address.
// The context is accepted for interface symmetry; net/smtp cannot honor it.
func (s *Sender) Send(_ context.Context, fromAddr, toAddr, subject, htmlBody string) error {
	if !s.Configured() {
		return fmt.Errorf("smtp account not configured")
	}
	if fromAddr == "" {
		fromAddr = s.cfg.From
	}

	boundary, err := generateBoundary()
	if err != nil {
		return fmt.Errorf("generate boundary: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.FromName, fromAddr)
	fmt.Fprintf(&msg, "To: %s\r\n", toAddr)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	msg.WriteString("\r\n")

	// HTML part, base64 encoded so long lines stay within RFC 5322 limits.
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64WithLineBreaks(htmlBody))
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, fromAddr, []string{toAddr}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Info("notification email sent",
		zap.String("to", toAddr), zap.String("subject", subject))
	return nil
}

// generateBoundary returns a random MIME boundary that cannot collide with
// message content.
func generateBoundary() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "=_" + base64.RawURLEncoding.EncodeToString(buf), nil
}

// encodeBase64WithLineBreaks encodes s wrapped at 76 characters per line.
func encodeBase64WithLineBreaks(s string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(s))
	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return b.String()
}
