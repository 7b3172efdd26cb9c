package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/core/domain/notification"
)

//go:embed templates/notification.html
var templatesFS embed.FS

// EmailConfig holds email sink configuration
type EmailConfig struct {
	SendGridAPIKey string
	// Host overrides the SendGrid API host; empty uses the public API.
	Host      string
	FromEmail string
	FromName  string
	To        string
}

// EmailSink mails notifications through SendGrid.
type EmailSink struct {
	config   *EmailConfig
	logger   *logrus.Logger
	client   *sendgrid.Client
	template *template.Template

	// the SendGrid client keeps the request body on itself
	mu sync.Mutex
}

// NewEmailSink creates a new email sink instance
func NewEmailSink(config *EmailConfig, logger *logrus.Logger) (*EmailSink, error) {
	if config.To == "" {
		return nil, fmt.Errorf("email sink requires a recipient")
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/notification.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification template: %w", err)
	}

	client := sendgrid.NewSendClient(config.SendGridAPIKey)
	if config.Host != "" {
		request := sendgrid.GetRequest(config.SendGridAPIKey, "/v3/mail/send", config.Host)
		request.Method = "POST"
		client = &sendgrid.Client{Request: request}
	}

	return &EmailSink{
		config:   config,
		logger:   logger,
		client:   client,
		template: tmpl,
	}, nil
}

func (e *EmailSink) Name() string { return "email" }

type notificationEmailData struct {
	notification.Notification
	FromName string
}

// Deliver renders the notification and sends it.
func (e *EmailSink) Deliver(ctx context.Context, n notification.Notification) error {
	var buf bytes.Buffer
	if err := e.template.Execute(&buf, notificationEmailData{Notification: n, FromName: e.config.FromName}); err != nil {
		return fmt.Errorf("failed to render notification email: %w", err)
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", e.config.To)
	message := mail.NewSingleEmail(from, n.Title, recipient, n.Message, buf.String())

	e.mu.Lock()
	response, err := e.client.SendWithContext(ctx, message)
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: status %d", response.StatusCode)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"to":          e.config.To,
			"subject":     n.Title,
			"status_code": response.StatusCode,
		}).Debug("notification email sent")
	}
	return nil
}
