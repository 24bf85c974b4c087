package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"tailorshop/internal/config"
)

type Service interface {
	// SendNotificationEmail mirrors a persisted notification to the
	// recipient's inbox. Returns an error for the caller to log; callers
	// never propagate it.
	SendNotificationEmail(ctx context.Context, toEmail, subject, message string) error
}

type service struct {
	client *resend.Client
	config *config.Config
	tmpl   *template.Template
}

// notificationBody keeps the email layout in one place; the shop only ever
// sends short event texts.
const notificationBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #1f2937;">{{.Subject}}</h2>
  <p>{{.Message}}</p>
  <p style="color: #6b7280; font-size: 12px;">Tailorshop &mdash; this is an automated notification.</p>
</body>
</html>`

// NewService returns a sender backed by Resend. Without an API key the
// returned service is a silent no-op: the persisted notification is the
// authoritative record and email is best-effort.
func NewService(cfg *config.Config) Service {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}

	return &service{
		client: client,
		config: cfg,
		tmpl:   template.Must(template.New("notification").Parse(notificationBody)),
	}
}

func (s *service) SendNotificationEmail(ctx context.Context, toEmail, subject, message string) error {
	if s.client == nil {
		return nil
	}

	var body bytes.Buffer
	data := struct {
		Subject string
		Message string
	}{Subject: subject, Message: message}

	if err := s.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Tailorshop <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
