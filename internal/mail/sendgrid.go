// Package mail sends transactional email through SendGrid. All sends are
// best effort; callers log failures and move on.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer implements core.Mailer.
type SendGridMailer struct {
	apiKey   string
	fromAddr string
}

// NewSendGridMailer creates a mailer for the given API key and sender address.
func NewSendGridMailer(apiKey, fromAddr string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, fromAddr: fromAddr}
}

// SendPaymentConfirmation emails the user that their premium upgrade went
// through.
func (m *SendGridMailer) SendPaymentConfirmation(ctx context.Context, toEmail, username string) error {
	if username == "" {
		username = "there"
	}
	from := sgmail.NewEmail("What Can I Cook", m.fromAddr)
	to := sgmail.NewEmail(username, toEmail)
	subject := "Welcome to Premium"
	plain := fmt.Sprintf("Hi %s,\n\nYour premium upgrade is confirmed. The AI chef, weekly meal planner and recipe book are now unlocked.\n\nHappy cooking!", username)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your premium upgrade is confirmed. The AI chef, weekly meal planner and recipe book are now unlocked.</p><p>Happy cooking!</p>", username)

	message := sgmail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: unexpected status %d", resp.StatusCode)
	}
	return nil
}
