package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"autoshop/pkg/logging"
)

// EmailSender defines the interface for sending emails.
// Implementations can be swapped without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// SendGridSender sends emails via the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridSender creates a SendGrid email sender, or nil when no API key
// is configured.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "AutoShop"
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

// Send sends an email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "to", msg.To)
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// BookingConfirmation builds the confirmation email for a created booking.
func BookingConfirmation(to, toName, date, startTime string, totalPrice int64) EmailMessage {
	return EmailMessage{
		To:      to,
		ToName:  toName,
		Subject: "Your service appointment is booked",
		Body: fmt.Sprintf(
			"Your appointment is scheduled for %s at %s.\nEstimated total: %d RUB.\nWe will see you at the shop!",
			date, startTime, totalPrice),
	}
}
