package db

import (
	"context"
	"time"

	"whatcanicook-backend-go/internal/models"
)

// UserRepository defines the interface for user document storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// ApplyVerification unconditionally writes the reconciled entitlement
	// flag and a fresh lastVerified timestamp, even when the value is
	// unchanged, so staleness can always be measured.
	ApplyVerification(ctx context.Context, userID string, isPremium bool, verifiedAt time.Time) error
	// MarkPremium performs the optimistic premium write of payment
	// finalization: isPremium, premiumSince, stripeSessionId and the
	// subscription-active flag in one update.
	MarkPremium(ctx context.Context, userID, sessionID string, at time.Time) error
	// SetPremiumDocID links the user document to its grant document.
	SetPremiumDocID(ctx context.Context, userID, premiumDocID string, at time.Time) error
	UpdatePreferences(ctx context.Context, userID string, prefs models.Preferences) error
}

// PremiumGrantRepository defines storage operations for the `premiumUsers`
// collection, the authoritative entitlement record.
type PremiumGrantRepository interface {
	// FindActiveByEmail returns grants matching the normalized email with
	// both active and stripeSubscriptionActive set.
	FindActiveByEmail(ctx context.Context, email string) ([]*models.PremiumGrant, error)
	// FindByEmail returns the first grant for the normalized email in any
	// state, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.PremiumGrant, error)
	Create(ctx context.Context, grant *models.PremiumGrant) (string, error)
	// Activate flips an existing grant to active and re-links its user ID.
	Activate(ctx context.Context, grantID, userID string, at time.Time) error
}

// SavedRecipeRepository stores the user's recipe book
// (`users/{uid}/savedRecipes`).
type SavedRecipeRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.SavedRecipe, error)
	Add(ctx context.Context, userID string, recipe *models.SavedRecipe) error
	Delete(ctx context.Context, userID, recipeID string) error
}

// MealPlanRepository stores saved weekly plans (`users/{uid}/mealPlans`).
type MealPlanRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.MealPlan, error)
	Add(ctx context.Context, userID string, plan *models.MealPlan) error
}
