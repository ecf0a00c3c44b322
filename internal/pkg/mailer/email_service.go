package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDraft(toEmail, subject, body string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
	}
}

// SendDraft delivers an email-card draft. The card body is plain text; it is
// wrapped in a minimal HTML shell so line breaks survive common clients.
func (s *emailService) SendDraft(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)

	html := fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">%s</div>`,
		strings.ReplaceAll(body, "\n", "<br>"),
	)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send draft to %s: %w", toEmail, err)
	}
	return nil
}
