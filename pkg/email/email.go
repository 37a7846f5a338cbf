// Package email is the platform's contact-channel collaborator: a thin SMTP
// sender used for fire-and-forget mail when an operator links two items.
package email

import (
	"fmt"
	"net/smtp"
	"os"
)

// Sender delivers plain text mail over SMTP.
type Sender struct {
	from     string
	password string
	host     string
	port     string
}

// NewSenderFromEnv builds a Sender from SMTP_* environment variables.
func NewSenderFromEnv() *Sender {
	return &Sender{
		from:     os.Getenv("SMTP_SENDER"),
		password: os.Getenv("SMTP_PASSWORD"),
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
	}
}

// Send delivers one message. Callers treat failures as best-effort: they are
// logged, never retried and never roll back the operation that triggered them.
func (s *Sender) Send(to, subject, body string) error {
	if s.host == "" {
		return fmt.Errorf("smtp not configured")
	}

	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
