// Package sendgrid wraps the SendGrid client for the transactional
// emails sent on account lifecycle changes.
package sendgrid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/asmamir/task-manager-api/internal/config"
)

// Mailer sends welcome and goodbye emails through the SendGrid API.
type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *slog.Logger
}

// NewMailer creates a Mailer from mail configuration. The caller is
// expected to have checked that an API key is configured; mail delivery
// is simply not wired up when there is none.
func NewMailer(cfg config.MailConfig, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
		logger: logger.With(slog.String("component", "mailer")),
	}
}

// SendWelcome sends the account-creation email.
func (m *Mailer) SendWelcome(ctx context.Context, email, name string) error {
	subject := "Welcome Email"
	body := fmt.Sprintf(
		"Dear %s, Welcome to our app. We hope that you enjoy using it.", name)
	return m.send(ctx, email, name, subject, body)
}

// SendGoodbye sends the account-deletion email.
func (m *Mailer) SendGoodbye(ctx context.Context, email, name string) error {
	subject := "Goodbye Email"
	body := fmt.Sprintf(
		"Dear %s, We're sorry to hear you're leaving us. We will be glad to be informed of the reason.",
		name)
	return m.send(ctx, email, name, subject, body)
}

func (m *Mailer) send(ctx context.Context, email, name, subject, body string) error {
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(m.from, subject, to, body, "")

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}

	m.logger.Debug("email accepted by sendgrid",
		slog.String("subject", subject),
		slog.Int("status", resp.StatusCode))
	return nil
}
