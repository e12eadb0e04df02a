// Package payments implements the hosted checkout collaborator using the
// Stripe Go SDK.
package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"whatcanicook-backend-go/internal/core"
)

// StripeProvider implements core.PaymentProvider.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider creates a provider bound to the given API keys.
func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, webhookSecret: webhookSecret}
}

// CreateCheckoutSession creates a subscription-mode hosted checkout session.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params core.CheckoutParams) (*core.CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(params.Quantity),
			},
		},
		SuccessURL:        stripe.String(params.SuccessURL),
		CancelURL:         stripe.String(params.CancelURL),
		ClientReferenceID: stripe.String(params.ClientReferenceID),
		CustomerEmail:     stripe.String(params.CustomerEmail),
	}

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session create: %w", err)
	}
	return toCheckoutSession(sess), nil
}

// GetSession retrieves a checkout session by ID.
func (p *StripeProvider) GetSession(ctx context.Context, sessionID string) (*core.CheckoutSession, error) {
	sess, err := p.api.CheckoutSessions.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session get '%s': %w", sessionID, err)
	}
	return toCheckoutSession(sess), nil
}

// VerifyWebhook checks the Stripe-Signature header against the payload and
// extracts the fields the billing flow needs.
func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) (*core.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe webhook signature: %w", err)
	}

	result := &core.WebhookEvent{Type: string(event.Type)}
	if result.Type == core.WebhookEventCheckoutCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("stripe webhook payload: %w", err)
		}
		result.SessionID = sess.ID
		result.ClientReferenceID = sess.ClientReferenceID
	}
	return result, nil
}

func toCheckoutSession(sess *stripe.CheckoutSession) *core.CheckoutSession {
	return &core.CheckoutSession{
		ID:                sess.ID,
		URL:               sess.URL,
		Paid:              sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		ClientReferenceID: sess.ClientReferenceID,
		CustomerEmail:     sess.CustomerEmail,
	}
}
