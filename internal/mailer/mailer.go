// File: internal/mailer/mailer.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
	"strings"

	"influencer_platform_backend/internal/config"

	"go.uber.org/zap"
)

// Sender delivers transactional messages to an email address. Callers decide
// whether a delivery failure fails the enclosing operation.
type Sender interface {
	SendVerificationEmail(to, firstName, token string) error
	SendWelcomeEmail(to, firstName string) error
	SendPasswordResetEmail(to, firstName, token string) error
}

// SMTPSender sends mail over authenticated SMTP.
type SMTPSender struct {
	cfg    *config.Config
	logger *zap.Logger
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates a new SMTP mail sender.
func NewSMTPSender(cfg *config.Config, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger.Named("Mailer")}
}

// SendVerificationEmail delivers the email-verification link. The link
// expires 24 hours after issuance.
func (s *SMTPSender) SendVerificationEmail(to, firstName, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(s.cfg.BaseURL, "/"), url.QueryEscape(token))
	body, err := render(verificationTemplate, templateData{FirstName: firstName, Link: link})
	if err != nil {
		return err
	}
	return s.send(to, "Verify your email address", body)
}

// SendWelcomeEmail delivers the post-verification welcome message.
func (s *SMTPSender) SendWelcomeEmail(to, firstName string) error {
	body, err := render(welcomeTemplate, templateData{FirstName: firstName})
	if err != nil {
		return err
	}
	return s.send(to, "Welcome aboard - your account is active", body)
}

// SendPasswordResetEmail delivers the password-reset link. The link expires
// 1 hour after issuance.
func (s *SMTPSender) SendPasswordResetEmail(to, firstName, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.cfg.BaseURL, "/"), url.QueryEscape(token))
	body, err := render(passwordResetTemplate, templateData{FirstName: firstName, Link: link})
	if err != nil {
		return err
	}
	return s.send(to, "Reset your password", body)
}

type templateData struct {
	FirstName string
	Link      string
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.String(), nil
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	fromHeader := fmt.Sprintf("%s <%s>", s.cfg.MailFromName, s.cfg.MailFrom)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.cfg.MailFrom, []string{to}, []byte(msg)); err != nil {
		s.logger.Error("Failed to send email", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
