package utils

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends HTML mail through an authenticated SMTP relay.
type Mailer struct {
	from     string
	password string
	host     string
	addr     string
	send     sendFunc
}

func NewMailer(from, password, host, addr string) *Mailer {
	return &Mailer{from: from, password: password, host: host, addr: addr, send: smtp.SendMail}
}

func (m *Mailer) SendHTML(ctx context.Context, emailTo, subject, htmlBody string) error {
	if m.addr == "" || m.from == "" {
		return errors.New("smtp is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.from,
		emailTo,
		sanitizeHeader(subject),
		htmlBody,
	)

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := m.send(m.addr, auth, m.from, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
