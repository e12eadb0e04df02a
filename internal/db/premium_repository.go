package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"whatcanicook-backend-go/internal/models"
)

const premiumUsersCollection = "premiumUsers"

// firestorePremiumGrantRepository implements PremiumGrantRepository using
// Firestore. Emails are normalized to lower case on every write and every
// query, which is what makes grant matching effectively case-insensitive:
// Firestore equality filters themselves are case-sensitive.
type firestorePremiumGrantRepository struct {
	client *firestore.Client
}

// NewFirestorePremiumGrantRepository creates a new PremiumGrantRepository.
func NewFirestorePremiumGrantRepository(client *firestore.Client) PremiumGrantRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PremiumGrantRepository.")
	}
	return &firestorePremiumGrantRepository{client: client}
}

// FindActiveByEmail returns all grants for the email with both active and
// stripeSubscriptionActive set.
func (r *firestorePremiumGrantRepository) FindActiveByEmail(ctx context.Context, email string) ([]*models.PremiumGrant, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for FindActiveByEmail operation")
	}
	iter := r.client.Collection(premiumUsersCollection).
		Where("email", "==", strings.ToLower(email)).
		Where("active", "==", true).
		Where("stripeSubscriptionActive", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var grants []*models.PremiumGrant
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query premium grants for email '%s': %w", email, err)
		}
		var grant models.PremiumGrant
		if err := docSnap.DataTo(&grant); err != nil {
			return nil, fmt.Errorf("failed to decode premium grant '%s': %w", docSnap.Ref.ID, err)
		}
		grant.ID = docSnap.Ref.ID
		grants = append(grants, &grant)
	}
	return grants, nil
}

// FindByEmail returns the first grant for the email in any state, or ErrNotFound.
func (r *firestorePremiumGrantRepository) FindByEmail(ctx context.Context, email string) (*models.PremiumGrant, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty for FindByEmail operation")
	}
	iter := r.client.Collection(premiumUsersCollection).
		Where("email", "==", strings.ToLower(email)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("premium grant for email '%s' not found: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query premium grant for email '%s': %w", email, err)
	}

	var grant models.PremiumGrant
	if err := docSnap.DataTo(&grant); err != nil {
		return nil, fmt.Errorf("failed to decode premium grant '%s': %w", docSnap.Ref.ID, err)
	}
	grant.ID = docSnap.Ref.ID
	return &grant, nil
}

// Create adds a new grant document and returns its generated ID.
func (r *firestorePremiumGrantRepository) Create(ctx context.Context, grant *models.PremiumGrant) (string, error) {
	if grant.Email == "" {
		return "", errors.New("grant email cannot be empty for Create operation")
	}
	grant.Email = strings.ToLower(grant.Email)
	docRef := r.client.Collection(premiumUsersCollection).NewDoc()
	if _, err := docRef.Create(ctx, grant); err != nil {
		return "", fmt.Errorf("failed to create premium grant for email '%s': %w", grant.Email, err)
	}
	grant.ID = docRef.ID
	return docRef.ID, nil
}

// Activate flips an existing grant to active and re-links its user ID.
func (r *firestorePremiumGrantRepository) Activate(ctx context.Context, grantID, userID string, at time.Time) error {
	if grantID == "" {
		return errors.New("grantID cannot be empty for Activate operation")
	}
	_, err := r.client.Collection(premiumUsersCollection).Doc(grantID).Update(ctx, []firestore.Update{
		{Path: "active", Value: true},
		{Path: "stripeSubscriptionActive", Value: true},
		{Path: "userId", Value: userID},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return fmt.Errorf("failed to activate premium grant '%s': %w", grantID, err)
	}
	return nil
}
