package notifications

import (
	"fmt"
	"net/smtp"

	"github.com/you/kitchensink/domain"
)

// SMTPService implements domain.Mailer over plain SMTP with optional
// auth. Delivery is synchronous; callers treat failures as surfaced
// errors, not reasons to roll back whatever triggered the mail.
type SMTPService struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPService(host string, port int, from, username, password string) domain.Mailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPService{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

// Send implements domain.Mailer.
func (s *SMTPService) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
