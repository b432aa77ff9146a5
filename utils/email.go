package utils

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"gopkg.in/gomail.v2"
)

// Email is a single outbound HTML message
type Email struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer delivers outbound email
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ResendMailer sends through the Resend API
type ResendMailer struct {
	From   string
	client *resend.Client
}

// NewResendMailer creates a Resend-backed mailer
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{From: from, client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, email Email) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.From,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	LogDebug("Resend accepted email %s: %s", sent.Id, email.Subject)
	return nil
}

// SMTPMailer sends through an SMTP relay with gomail
type SMTPMailer struct {
	config EmailConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer creates an SMTP-backed mailer
func NewSMTPMailer(config EmailConfig) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (m *SMTPMailer) Send(_ context.Context, email Email) error {
	msg := m.message(email)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

func (m *SMTPMailer) message(email Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email.To...)
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)
	return msg
}

// NoopMailer drops messages; used when no delivery channel is configured.
type NoopMailer struct{}

func (NoopMailer) Send(_ context.Context, email Email) error {
	LogInfo("Email delivery disabled, dropping %q to %v", email.Subject, email.To)
	return nil
}

// NewMailer picks Resend when an API key is set, SMTP when a host is set,
// and a no-op mailer otherwise.
func NewMailer(resendAPIKey string, smtp EmailConfig) Mailer {
	switch {
	case resendAPIKey != "":
		return NewResendMailer(resendAPIKey, smtp.From)
	case smtp.Host != "":
		return NewSMTPMailer(smtp)
	default:
		return NoopMailer{}
	}
}

// ContactNotificationHTML renders the inbox notification for an enquiry
func ContactNotificationHTML(name, email, company, message string) string {
	companyLine := ""
	if company != "" {
		companyLine = fmt.Sprintf("<p><strong>Company:</strong> %s</p>", company)
	}
	return fmt.Sprintf(`
		<h2>New enquiry from %s</h2>
		<p><strong>Email:</strong> %s</p>
		%s
		<p>%s</p>
	`, name, email, companyLine, message)
}

// PaymentReceivedHTML renders the customer confirmation for a paid order
func PaymentReceivedHTML(name, orderID, amount string) string {
	return fmt.Sprintf(`
		<h2>Thank you, %s!</h2>
		<p>We have received your payment of <strong>RM %s</strong> for order <strong>%s</strong>.</p>
		<p>Our team will be in touch within one business day to kick things off.</p>
	`, name, amount, orderID)
}
