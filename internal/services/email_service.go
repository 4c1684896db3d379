package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailSender interface {
	SendWelcomeEmail(email, username string) error
	SendNotification(email, content string) error
}

// mailDialer is the part of *gomail.Dialer the service uses.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer mailDialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailSender {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendWelcomeEmail(email, username string) error {
	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your account has been created. Sign in to find your friends and groups.</p>
	`, html.EscapeString(username))

	if err := s.send(email, "Welcome!", body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendNotification(email, content string) error {
	body := fmt.Sprintf(`
		<h3>You have a new notification</h3>
		<p>%s</p>
	`, html.EscapeString(content))

	if err := s.send(email, "New notification", body); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}
