package service

import (
	"fmt"

	"teamspend/config"

	"gopkg.in/gomail.v2"
)

// EmailService delivers regenerated passwords over SMTP.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService creates the email service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled reports whether mail delivery is configured.
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendPasswordEmail mails the user their new password after a reset.
func (s *EmailService) SendPasswordEmail(toEmail, name, password string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service is not enabled")
	}

	subject := "Your password has been reset"
	body := s.passwordEmailBody(name, password)
	return s.send(toEmail, subject, body)
}

func (s *EmailService) passwordEmailBody(name, password string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <p>Hello <strong>%s</strong>,</p>
    <p>Your password has been reset. Your new password is:</p>
    <p style="font-size: 18px; font-weight: bold; letter-spacing: 1px;">%s</p>
    <p>Please log in and change it as soon as possible.</p>
    <p style="color: #888; font-size: 12px;">This message was sent automatically, please do not reply.</p>
</body>
</html>
`, name, password)
}

func (s *EmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
