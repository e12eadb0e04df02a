package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"whatcanicook-backend-go/internal/models"
)

const usersCollection = "users"

// ErrNotFound is returned when a document does not exist in Firestore.
var ErrNotFound = errors.New("document not found")

// firestoreUserRepository implements UserRepository using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document. The user.ID (Firebase Auth UID) is used as
// the Firestore document ID.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with ID '%s' already exists: %w", user.ID, err)
		}
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user document by its ID (Firebase Auth UID).
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", userID, err)
	}
	user.ID = docSnap.Ref.ID

	return &user, nil
}

// ApplyVerification writes the reconciled entitlement flag and a fresh
// verification timestamp. The write is unconditional: it happens even when
// the flag did not change.
func (r *firestoreUserRepository) ApplyVerification(ctx context.Context, userID string, isPremium bool, verifiedAt time.Time) error {
	if userID == "" {
		return errors.New("userID cannot be empty for ApplyVerification operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "isPremium", Value: isPremium},
		{Path: "stripeSubscriptionActive", Value: isPremium},
		{Path: "lastVerified", Value: verifiedAt},
		{Path: "updatedAt", Value: verifiedAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to apply verification for user '%s': %w", userID, err)
	}
	return nil
}

// MarkPremium performs the optimistic premium write of payment finalization.
func (r *firestoreUserRepository) MarkPremium(ctx context.Context, userID, sessionID string, at time.Time) error {
	if userID == "" {
		return errors.New("userID cannot be empty for MarkPremium operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "isPremium", Value: true},
		{Path: "premiumSince", Value: at},
		{Path: "lastVerified", Value: at},
		{Path: "stripeSessionId", Value: sessionID},
		{Path: "stripeSubscriptionActive", Value: true},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to mark user '%s' premium: %w", userID, err)
	}
	return nil
}

// SetPremiumDocID links the user document to its premium grant document.
func (r *firestoreUserRepository) SetPremiumDocID(ctx context.Context, userID, premiumDocID string, at time.Time) error {
	if userID == "" {
		return errors.New("userID cannot be empty for SetPremiumDocID operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "premiumDocId", Value: premiumDocID},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return fmt.Errorf("failed to set premiumDocId for user '%s': %w", userID, err)
	}
	return nil
}

// UpdatePreferences overwrites the user's preference block.
func (r *firestoreUserRepository) UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) error {
	if userID == "" {
		return errors.New("userID cannot be empty for UpdatePreferences operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "preferences", Value: prefs},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with ID '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to update preferences for user '%s': %w", userID, err)
	}
	return nil
}
