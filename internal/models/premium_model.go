package models

import "time"

// PremiumGrant represents a document in the `premiumUsers` collection.
// Grants are keyed by normalized (lowercased) email and are the authoritative
// record of subscription status, independent of the cached flag on the user
// document. A user is entitled when at least one grant for their email has
// both Active and StripeSubscriptionActive set.
type PremiumGrant struct {
	ID                       string    `json:"id" firestore:"-"` // Firestore document ID
	Email                    string    `json:"email" firestore:"email"` // lowercased
	UserID                   string    `json:"userId" firestore:"userId"`
	Active                   bool      `json:"active" firestore:"active"`
	StripeSubscriptionActive bool      `json:"stripeSubscriptionActive" firestore:"stripeSubscriptionActive"`
	CreatedAt                time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// PremiumSnapshot is the cached premium-status entry written after payment
// completion and on every verification. It mirrors what the web client keeps
// in local storage; server-side it lives in the snapshot cache and no gating
// decision is ever made from it alone.
type PremiumSnapshot struct {
	IsPremium bool   `json:"isPremium"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId,omitempty"`
}
