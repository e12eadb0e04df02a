package core

import (
	"context"
	"time"

	"whatcanicook-backend-go/internal/models"
)

// UserService defines the interface for account and profile operations.
type UserService interface {
	// SignUp creates the Firebase Auth account and the user document, then
	// runs an initial entitlement verification so a pre-existing grant
	// (e.g. a re-registering subscriber) is honored immediately.
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error)
	// InitializeSession is called after a client-side sign-in. It ensures
	// the user document exists and reconciles the cached premium flag.
	InitializeSession(ctx context.Context, userID, email, displayName string) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	UpdatePreferences(ctx context.Context, userID string, req models.UpdatePreferencesRequest) (*models.User, error)
}

// VerificationResult is the outcome of one entitlement reconciliation.
// A failed verification is reported here rather than as an error: IsPremium
// is false and Err carries the description (fail closed). Only a missing
// user document surfaces as a hard error from Verify.
type VerificationResult struct {
	IsPremium    bool      `json:"isPremium"`
	LastVerified time.Time `json:"lastVerified"`
	Err          string    `json:"error,omitempty"`
}

// EntitlementService reconciles the cached premium flag on the user document
// against the authoritative premium grant record.
type EntitlementService interface {
	Verify(ctx context.Context, userID string) (VerificationResult, error)
}

// BillingService covers checkout initiation and payment finalization.
type BillingService interface {
	// CreateCheckoutSession starts a hosted checkout for the fixed
	// subscription price and returns the redirect URL. origin is the
	// deployment the user came from; return URLs are derived from it.
	CreateCheckoutSession(ctx context.Context, user *models.User, origin string) (string, error)
	// FinalizePayment durably grants premium access for a completed
	// checkout session and returns the confirmed user state.
	FinalizePayment(ctx context.Context, userID, sessionID string) (*models.User, error)
	// HandleStripeWebhook verifies the signature and routes
	// checkout.session.completed events through FinalizePayment.
	HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error
}

// AIService exposes the generation operations backed by the completion
// collaborator.
type AIService interface {
	GenerateRecipe(ctx context.Context, ingredients []string) (*models.GeneratedRecipe, error)
	ChefAdvice(ctx context.Context, prompt string) (string, error)
	GenerateMealPlan(ctx context.Context) ([]models.MealPlanDay, error)
	GenerateShoppingList(ctx context.Context, meals []string) ([]models.ShoppingListSection, error)
}

// RecipeService covers static-dataset suggestions and the premium recipe
// book / meal plan storage.
type RecipeService interface {
	Suggest(ingredients []string) []models.Recipe
	CommonIngredients() []string
	ListSaved(ctx context.Context, userID string) ([]*models.SavedRecipe, error)
	SaveRecipe(ctx context.Context, userID string, req models.SaveRecipeRequest) (*models.SavedRecipe, error)
	DeleteSaved(ctx context.Context, userID, recipeID string) error
	ListMealPlans(ctx context.Context, userID string) ([]*models.MealPlan, error)
	SaveMealPlan(ctx context.Context, userID string, req models.SaveMealPlanRequest) (*models.MealPlan, error)
}

// AuditService records audit trail events.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}

// CompletionRequest is one call to the completion collaborator. Model and
// sampling temperature are configured on the client, not per call site.
type CompletionRequest struct {
	System   string
	Prompt   string
	JSONMode bool // ask the provider for structured (JSON) output
}

// CompletionClient is the single "complete chat" operation of the LLM
// collaborator.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CheckoutParams describes one hosted checkout session to create.
type CheckoutParams struct {
	PriceID           string
	Quantity          int64
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string
	CustomerEmail     string
}

// CheckoutSession is the provider's handle for one payment attempt.
type CheckoutSession struct {
	ID                string
	URL               string
	Paid              bool
	ClientReferenceID string
	CustomerEmail     string
}

// WebhookEventCheckoutCompleted is the provider event type that drives
// webhook-initiated payment finalization.
const WebhookEventCheckoutCompleted = "checkout.session.completed"

// WebhookEvent is a signature-verified provider notification.
type WebhookEvent struct {
	Type              string
	SessionID         string
	ClientReferenceID string
}

// PaymentProvider wraps the hosted checkout collaborator.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	// VerifyWebhook checks the event signature and extracts the fields the
	// billing flow needs.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

// AccountCreator wraps administrative account creation on the
// authentication collaborator.
type AccountCreator interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
}

// Mailer sends best-effort notification email. Implementations must be safe
// to skip: a nil Mailer disables mail entirely.
type Mailer interface {
	SendPaymentConfirmation(ctx context.Context, toEmail, username string) error
}
