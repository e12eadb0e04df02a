// Package accounts wraps administrative account creation on Firebase Auth.
package accounts

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"whatcanicook-backend-go/internal/core"
)

// FirebaseAccountCreator implements core.AccountCreator.
type FirebaseAccountCreator struct {
	client *auth.Client
}

// NewFirebaseAccountCreator creates an account creator backed by the given
// Firebase Auth client.
func NewFirebaseAccountCreator(client *auth.Client) *FirebaseAccountCreator {
	return &FirebaseAccountCreator{client: client}
}

// CreateAccount creates an email/password account and returns its UID.
// Provider error codes are mapped onto the auth sentinels so handlers can
// translate them into the fixed user-facing messages.
func (c *FirebaseAccountCreator) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := c.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", core.ErrEmailAlreadyInUse
		}
		return "", fmt.Errorf("firebase create user: %w", err)
	}
	return record.UID, nil
}
