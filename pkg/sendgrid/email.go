package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendEndpoint = "/v3/mail/send"

// ErrRateLimited is returned when SendGrid answers 429; the write-through
// queue records it like any other failed task.
var ErrRateLimited = errors.New("sendgrid rate limit exceeded")

type EmailService interface {
	Send(ctx context.Context, msg *models.EmailMessage) error
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	sandbox   bool
}

func NewEmailService(cfg *config.SendGrid) EmailService {

	request := sendgrid.GetRequest(cfg.APIKey, sendEndpoint, cfg.BaseURL)
	request.Method = http.MethodPost

	return &emailService{
		client:    &sendgrid.Client{Request: request},
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		sandbox:   cfg.SandboxMode,
	}
}

func (e *emailService) build(msg *models.EmailMessage) *mail.SGMailV3 {

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(e.fromName, e.fromEmail))

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", msg.To))

	for _, cc := range msg.CC {
		personalization.AddCCs(mail.NewEmail("", cc))
	}

	for _, bcc := range msg.BCC {
		personalization.AddBCCs(mail.NewEmail("", bcc))
	}

	for k, v := range msg.CustomArgs {
		personalization.SetCustomArg(k, v)
	}

	personalization.Subject = msg.Subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", msg.Content))
	if msg.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTMLContent))
	}

	if len(msg.Categories) > 0 {
		message.AddCategories(msg.Categories...)
	}

	if e.sandbox {
		settings := mail.NewMailSettings()
		settings.SetSandboxMode(mail.NewSetting(true))
		message.SetMailSettings(settings)
	}

	return message
}

func (e *emailService) Send(ctx context.Context, msg *models.EmailMessage) error {

	response, err := e.client.SendWithContext(ctx, e.build(msg))
	if err != nil {
		return fmt.Errorf("failed to reach sendgrid: %w", err)
	}

	switch {
	case response.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case response.StatusCode >= http.StatusBadRequest:
		body := response.Body
		if len(body) > 256 {
			body = body[:256]
		}
		return fmt.Errorf("failed to send email, status code: %d: %s", response.StatusCode, body)
	}

	return nil
}
