package models

import "time"

// Preferences holds the free-form profile settings a user can edit.
type Preferences struct {
	DietaryRestrictions []string `json:"dietaryRestrictions" firestore:"dietaryRestrictions"`
	ServingSize         int      `json:"servingSize" firestore:"servingSize"`
	Theme               string   `json:"theme" firestore:"theme"` // "light" or "dark"
}

// DefaultPreferences returns the preferences assigned to a freshly created account.
func DefaultPreferences() Preferences {
	return Preferences{
		DietaryRestrictions: []string{},
		ServingSize:         2,
		Theme:               "light",
	}
}

// User represents a user document in the `users` collection.
// The document ID is the Firebase Auth UID.
//
// IsPremium is a cached flag: the authoritative source of entitlement is the
// PremiumGrant record keyed by email. The cached flag is only trusted within
// a bounded staleness window measured from LastVerified; reconciliation
// (the entitlement verifier) is the only operation that resolves a
// disagreement between the two, and it always prefers the grant record.
type User struct {
	ID                       string      `json:"id" firestore:"-"` // Firebase Auth UID, the document ID
	Username                 string      `json:"username" firestore:"username"`
	Email                    string      `json:"email" firestore:"email"` // stored lowercased
	IsPremium                bool        `json:"isPremium" firestore:"isPremium"`
	PremiumSince             *time.Time  `json:"premiumSince,omitempty" firestore:"premiumSince,omitempty"`
	StripeSessionID          string      `json:"stripeSessionId,omitempty" firestore:"stripeSessionId,omitempty"`
	StripeCustomerID         string      `json:"stripeCustomerId,omitempty" firestore:"stripeCustomerId,omitempty"`
	StripeSubscriptionActive bool        `json:"stripeSubscriptionActive" firestore:"stripeSubscriptionActive"`
	PremiumDocID             string      `json:"premiumDocId,omitempty" firestore:"premiumDocId,omitempty"`
	LastVerified             *time.Time  `json:"lastVerified,omitempty" firestore:"lastVerified,omitempty"`
	Preferences              Preferences `json:"preferences" firestore:"preferences"`
	CreatedAt                time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt                time.Time   `json:"updatedAt" firestore:"updatedAt"`
}
