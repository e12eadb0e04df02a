package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"whatcanicook-backend-go/internal/db"
	"whatcanicook-backend-go/internal/models"
)

// Authentication errors, mapped to user-facing messages in the API layer.
var (
	ErrEmailAlreadyInUse = errors.New("auth/email-already-in-use")
	ErrInvalidEmail      = errors.New("auth/invalid-email")
	ErrWeakPassword      = errors.New("auth/weak-password")
)

// userService implements the UserService interface.
type userService struct {
	userRepo    db.UserRepository
	accounts    AccountCreator
	entitlement EntitlementService
	auditSvc    AuditService
	logger      *zap.Logger
	now         func() time.Time
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, accounts AccountCreator, entitlement EntitlementService, auditSvc AuditService, logger *zap.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		accounts:    accounts,
		entitlement: entitlement,
		auditSvc:    auditSvc,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SignUp creates the auth account and the user document with default
// preferences, then runs an initial entitlement verification. A brand-new
// user with no prior grant ends up not premium; a re-registering subscriber
// whose grant survived is premium from the first session.
func (s *userService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uid, err := s.accounts.CreateAccount(ctx, email, req.Password, req.Username)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:          uid,
		Username:    req.Username,
		Email:       email,
		IsPremium:   false,
		Preferences: models.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user document for '%s': %w", uid, err)
	}

	// Reconciliation fails closed, so a store hiccup here just leaves the
	// new account non-premium until the next verification.
	result, err := s.entitlement.Verify(ctx, uid)
	if err == nil {
		user.IsPremium = result.IsPremium
		user.LastVerified = &result.LastVerified
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.CreateAuditLog(ctx, models.AuditLog{
			Timestamp: s.now(),
			UserID:    uid,
			Action:    models.AuditActionSignUp,
			Outcome:   "ok",
		})
	}

	return user, nil
}

// InitializeSession reconciles the cached premium flag after a client-side
// sign-in and returns the refreshed user. When the token was issued for an
// account that has no user document yet (e.g. a provider sign-in that never
// went through SignUp), the document is created first.
func (s *userService) InitializeSession(ctx context.Context, userID, email, displayName string) (*models.User, error) {
	_, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to load user '%s': %w", userID, err)
		}
		now := s.now()
		newUser := &models.User{
			ID:          userID,
			Username:    displayName,
			Email:       strings.ToLower(email),
			Preferences: models.DefaultPreferences(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
			return nil, fmt.Errorf("failed to create user document for '%s': %w", userID, createErr)
		}
	}

	if _, err := s.entitlement.Verify(ctx, userID); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, userID)
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

// UpdatePreferences applies the editable profile settings and returns the
// refreshed user.
func (s *userService) UpdatePreferences(ctx context.Context, userID string, req models.UpdatePreferencesRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs := user.Preferences
	if req.DietaryRestrictions != nil {
		prefs.DietaryRestrictions = req.DietaryRestrictions
	}
	if req.ServingSize > 0 {
		prefs.ServingSize = req.ServingSize
	}
	if req.Theme != "" {
		prefs.Theme = req.Theme
	}

	if err := s.userRepo.UpdatePreferences(ctx, userID, prefs); err != nil {
		return nil, fmt.Errorf("failed to update preferences for '%s': %w", userID, err)
	}

	user.Preferences = prefs
	return user, nil
}
