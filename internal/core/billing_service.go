package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"whatcanicook-backend-go/internal/cache"
	"whatcanicook-backend-go/internal/db"
	"whatcanicook-backend-go/internal/models"
)

// Errors returned by billing operations.
var (
	ErrNotSignedIn        = errors.New("must be signed in to upgrade to premium")
	ErrSessionNotPaid     = errors.New("checkout session is not paid")
	ErrSessionMismatch    = errors.New("checkout session does not belong to this user")
	ErrVerificationFailed = errors.New("premium verification failed after payment")
	ErrPaymentProvider    = errors.New("payment provider operation failed")
	ErrWebhookSignature   = errors.New("webhook signature verification failed")
)

// snapshotTTL bounds how long a cached premium snapshot is kept. It exceeds
// the verification interval so a fresh snapshot always lands before expiry.
const snapshotTTL = 30 * time.Minute

// BillingConfig carries the static billing parameters.
type BillingConfig struct {
	// PriceID is the single fixed subscription price.
	PriceID string
	// ClientURL is the fallback origin for checkout return URLs.
	ClientURL string
}

// billingService implements BillingService.
type billingService struct {
	userRepo    db.UserRepository
	grantRepo   db.PremiumGrantRepository
	entitlement EntitlementService
	payments    PaymentProvider
	snapshots   cache.Cache // optional
	mailer      Mailer      // optional
	auditSvc    AuditService
	cfg         BillingConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewBillingService creates a new BillingService. snapshots and mailer may be
// nil; both are best-effort side channels.
func NewBillingService(
	userRepo db.UserRepository,
	grantRepo db.PremiumGrantRepository,
	entitlement EntitlementService,
	payments PaymentProvider,
	snapshots cache.Cache,
	mailer Mailer,
	auditSvc AuditService,
	cfg BillingConfig,
	logger *zap.Logger,
) BillingService {
	return &billingService{
		userRepo:    userRepo,
		grantRepo:   grantRepo,
		entitlement: entitlement,
		payments:    payments,
		snapshots:   snapshots,
		mailer:      mailer,
		auditSvc:    auditSvc,
		cfg:         cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateCheckoutSession starts a hosted checkout redirect for the fixed
// subscription price. It requires a signed-in user and changes no local
// state; all entitlement writes happen after return, in FinalizePayment.
func (s *billingService) CreateCheckoutSession(ctx context.Context, user *models.User, origin string) (string, error) {
	if user == nil || user.ID == "" {
		return "", ErrNotSignedIn
	}

	origin = s.resolveOrigin(origin)

	sess, err := s.payments.CreateCheckoutSession(ctx, CheckoutParams{
		PriceID:           s.cfg.PriceID,
		Quantity:          1,
		SuccessURL:        origin + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         origin + "/",
		ClientReferenceID: user.ID,
		CustomerEmail:     strings.ToLower(user.Email),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.CreateAuditLog(ctx, models.AuditLog{
			Timestamp: s.now(),
			UserID:    user.ID,
			Action:    models.AuditActionCheckoutStarted,
			Outcome:   "ok",
			Details:   map[string]interface{}{"sessionId": sess.ID},
		})
	}

	return sess.URL, nil
}

// resolveOrigin picks the origin the return URLs are built from. The request
// origin wins so preview deployments return to themselves; the configured
// client URL is the fallback.
func (s *billingService) resolveOrigin(origin string) string {
	origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
	if origin == "" || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
		return strings.TrimSuffix(s.cfg.ClientURL, "/")
	}
	return origin
}

// FinalizePayment durably grants premium access for a completed checkout
// session. The steps run strictly in sequence and each failure aborts the
// flow: the two documents involved have no transactional link, so the design
// is write-then-verify rather than atomic, and every step is audited so a
// half-upgraded state can be traced. The whole flow is idempotent; running
// it twice with the same session converges to the same state.
func (s *billingService) FinalizePayment(ctx context.Context, userID, sessionID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	if sessionID == "" {
		return nil, errors.New("session ID is required to finalize payment")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user '%s': %w", userID, err)
	}
	email := strings.ToLower(user.Email)
	now := s.now()

	g := &saga{
		action:   models.AuditActionPaymentFinalize,
		userID:   userID,
		auditSvc: s.auditSvc,
		logger:   s.logger,
		now:      s.now,
	}

	// Completed and paid, and belonging to this user.
	if err := g.step(ctx, "check-session", func(ctx context.Context) error {
		sess, err := s.payments.GetSession(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentProvider, err)
		}
		if !sess.Paid {
			return ErrSessionNotPaid
		}
		if sess.ClientReferenceID != "" && sess.ClientReferenceID != userID {
			return ErrSessionMismatch
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Step 1: optimistic premium write on the user document.
	if err := g.step(ctx, "mark-user-premium", func(ctx context.Context) error {
		return s.userRepo.MarkPremium(ctx, userID, sessionID, now)
	}); err != nil {
		return nil, err
	}

	// Step 2: upsert the authoritative grant record by normalized email.
	if err := g.step(ctx, "upsert-grant", func(ctx context.Context) error {
		grantID, err := s.upsertGrant(ctx, email, userID, now)
		if err != nil {
			return err
		}
		return s.userRepo.SetPremiumDocID(ctx, userID, grantID, now)
	}); err != nil {
		return nil, err
	}

	// Step 3: verify. Not entitled after the upsert means a write silently
	// did not take effect; surface it as a hard failure.
	if err := g.step(ctx, "verify-entitlement", func(ctx context.Context) error {
		result, err := s.entitlement.Verify(ctx, userID)
		if err != nil {
			return err
		}
		if result.Err != "" {
			return fmt.Errorf("%w: %s", ErrVerificationFailed, result.Err)
		}
		if !result.IsPremium {
			return ErrVerificationFailed
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// Step 4: re-read so downstream reads see the confirmed state.
	var refreshed *models.User
	if err := g.step(ctx, "refresh-user", func(ctx context.Context) error {
		refreshed, err = s.userRepo.GetByID(ctx, userID)
		return err
	}); err != nil {
		return nil, err
	}

	s.writeSnapshot(ctx, userID, sessionID)
	s.sendConfirmation(ctx, refreshed)

	return refreshed, nil
}

// upsertGrant activates the existing grant for the email or creates a new
// one, returning the grant document ID.
func (s *billingService) upsertGrant(ctx context.Context, email, userID string, now time.Time) (string, error) {
	grant, err := s.grantRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return "", err
		}
		return s.grantRepo.Create(ctx, &models.PremiumGrant{
			Email:                    email,
			UserID:                   userID,
			Active:                   true,
			StripeSubscriptionActive: true,
			CreatedAt:                now,
			UpdatedAt:                now,
		})
	}
	if err := s.grantRepo.Activate(ctx, grant.ID, userID, now); err != nil {
		return "", err
	}
	return grant.ID, nil
}

// HandleStripeWebhook verifies the event signature and routes completed
// checkout sessions through the same finalizer as the success-URL return
// path. Other event types are acknowledged and ignored.
func (s *billingService) HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error {
	event, err := s.payments.VerifyWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	if event.Type != WebhookEventCheckoutCompleted {
		s.logger.Debug("ignoring stripe webhook event", zap.String("type", event.Type))
		return nil
	}
	if event.ClientReferenceID == "" || event.SessionID == "" {
		return errors.New("checkout.session.completed event is missing client reference or session ID")
	}

	if _, err := s.FinalizePayment(ctx, event.ClientReferenceID, event.SessionID); err != nil {
		return fmt.Errorf("failed to finalize payment from webhook: %w", err)
	}
	return nil
}

// writeSnapshot caches the premium-status snapshot. Best effort only; no
// gating decision reads it back without re-verification.
func (s *billingService) writeSnapshot(ctx context.Context, userID, sessionID string) {
	if s.snapshots == nil {
		return
	}
	snapshot := models.PremiumSnapshot{
		IsPremium: true,
		Timestamp: s.now().UnixMilli(),
		UserID:    userID,
		SessionID: sessionID,
	}
	data, err := json.Marshal(snapshot)
	if err == nil {
		err = s.snapshots.Set(ctx, SnapshotCacheKey(userID), string(data), snapshotTTL)
	}
	if err != nil {
		s.logger.Warn("failed to cache premium snapshot", zap.String("userID", userID), zap.Error(err))
	}
}

func (s *billingService) sendConfirmation(ctx context.Context, user *models.User) {
	if s.mailer == nil || user == nil || user.Email == "" {
		return
	}
	if err := s.mailer.SendPaymentConfirmation(ctx, user.Email, user.Username); err != nil {
		s.logger.Warn("failed to send payment confirmation email", zap.String("userID", user.ID), zap.Error(err))
	}
}

// SnapshotCacheKey is the cache key for a user's premium snapshot.
func SnapshotCacheKey(userID string) string {
	return "premiumStatus:" + userID
}
