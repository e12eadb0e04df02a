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

// ErrUserNotFound is returned when a user document does not exist.
var ErrUserNotFound = errors.New("user not found")

// entitlementService implements EntitlementService.
type entitlementService struct {
	userRepo  db.UserRepository
	grantRepo db.PremiumGrantRepository
	auditSvc  AuditService
	logger    *zap.Logger
	now       func() time.Time
}

// NewEntitlementService creates a new EntitlementService instance.
func NewEntitlementService(userRepo db.UserRepository, grantRepo db.PremiumGrantRepository, auditSvc AuditService, logger *zap.Logger) EntitlementService {
	return &entitlementService{
		userRepo:  userRepo,
		grantRepo: grantRepo,
		auditSvc:  auditSvc,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Verify reconciles the user's cached premium flag against the premiumUsers
// collection and persists the result back onto the user document.
//
// The write happens unconditionally, even when the flag is unchanged, so the
// staleness window can always be measured from lastVerified. Lookup and
// write failures fail closed: the returned result carries IsPremium=false
// and an error description, and the method reports no error. The one hard
// error is a missing user document, which the caller must surface.
func (s *entitlementService) Verify(ctx context.Context, userID string) (VerificationResult, error) {
	verifiedAt := s.now()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return VerificationResult{}, fmt.Errorf("%w: id '%s'", ErrUserNotFound, userID)
		}
		return s.failClosed(ctx, userID, verifiedAt, fmt.Errorf("failed to load user '%s': %w", userID, err)), nil
	}

	grants, err := s.grantRepo.FindActiveByEmail(ctx, strings.ToLower(user.Email))
	if err != nil {
		return s.failClosed(ctx, userID, verifiedAt, fmt.Errorf("failed to query premium grants for user '%s': %w", userID, err)), nil
	}

	isPremium := len(grants) > 0

	if err := s.userRepo.ApplyVerification(ctx, userID, isPremium, verifiedAt); err != nil {
		return s.failClosed(ctx, userID, verifiedAt, fmt.Errorf("failed to persist verification for user '%s': %w", userID, err)), nil
	}

	s.audit(ctx, userID, "ok", map[string]interface{}{"isPremium": isPremium})
	return VerificationResult{IsPremium: isPremium, LastVerified: verifiedAt}, nil
}

// failClosed logs the failure and converts it into a non-premium result.
func (s *entitlementService) failClosed(ctx context.Context, userID string, verifiedAt time.Time, err error) VerificationResult {
	s.logger.Warn("entitlement verification failed closed",
		zap.String("userID", userID),
		zap.Error(err),
	)
	s.audit(ctx, userID, "error", map[string]interface{}{"error": err.Error()})
	return VerificationResult{
		IsPremium:    false,
		LastVerified: verifiedAt,
		Err:          err.Error(),
	}
}

func (s *entitlementService) audit(ctx context.Context, userID, outcome string, details map[string]interface{}) {
	if s.auditSvc == nil {
		return
	}
	entry := models.AuditLog{
		Timestamp: s.now(),
		UserID:    userID,
		Action:    models.AuditActionVerifyEntitlement,
		Outcome:   outcome,
		Details:   details,
	}
	if err := s.auditSvc.CreateAuditLog(ctx, entry); err != nil {
		// The audit trail is advisory; verification outcome stands either way.
		s.logger.Warn("failed to write entitlement audit entry", zap.String("userID", userID), zap.Error(err))
	}
}
