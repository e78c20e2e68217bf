package mailer

import (
	"fmt"
	"net/url"
	"time"

	"ai-interview-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendResetToken(toEmail, token string, expiresIn time.Duration) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	clientURL   string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail, clientURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		clientURL:   clientURL,
		logger:      log,
	}
}

func (s *emailService) SendResetToken(toEmail, token string, expiresIn time.Duration) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Reset Your Password")

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL, url.QueryEscape(token))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Password Reset Request</h2>
			<p>Someone asked to reset the password of your interview practice account.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>This link will expire in %d minutes.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, resetLink, resetLink, int(expiresIn.Minutes()))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send reset token", map[string]interface{}{"to": toEmail, "error": err.Error()})
		return err
	}

	s.logger.Info("MAILER", "Reset token sent", map[string]interface{}{"to": toEmail})
	return nil
}

// NoopEmailService is used when SMTP is not configured; it only logs.
type NoopEmailService struct {
	Logger logger.ILogger
}

func (s *NoopEmailService) SendResetToken(toEmail, token string, expiresIn time.Duration) error {
	s.Logger.Warn("MAILER", "SMTP not configured, reset email skipped", map[string]interface{}{"to": toEmail})
	return nil
}
