package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"whatcanicook-backend-go/internal/db"
	"whatcanicook-backend-go/internal/models"
)

// fakeUserRepo is an in-memory db.UserRepository. Error fields, when set,
// are returned by the corresponding method.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	getErr    error
	applyErr  error
	markErr   error
	createErr error

	// verifications records every ApplyVerification call in order.
	verifications []bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) seed(user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	user, ok := r.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ApplyVerification(_ context.Context, userID string, isPremium bool, verifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applyErr != nil {
		return r.applyErr
	}
	user, ok := r.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	r.verifications = append(r.verifications, isPremium)
	user.IsPremium = isPremium
	user.StripeSubscriptionActive = isPremium
	user.LastVerified = &verifiedAt
	user.UpdatedAt = verifiedAt
	return nil
}

func (r *fakeUserRepo) MarkPremium(_ context.Context, userID, sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	user, ok := r.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	user.IsPremium = true
	user.StripeSubscriptionActive = true
	user.StripeSessionID = sessionID
	user.PremiumSince = &at
	user.LastVerified = &at
	user.UpdatedAt = at
	return nil
}

func (r *fakeUserRepo) SetPremiumDocID(_ context.Context, userID, premiumDocID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	user.PremiumDocID = premiumDocID
	user.UpdatedAt = at
	return nil
}

func (r *fakeUserRepo) UpdatePreferences(_ context.Context, userID string, prefs models.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	user.Preferences = prefs
	return nil
}

// fakeGrantRepo is an in-memory db.PremiumGrantRepository keyed by lowercased
// email, mirroring how the Firestore implementation queries.
type fakeGrantRepo struct {
	mu     sync.Mutex
	grants []*models.PremiumGrant
	nextID int

	findActiveErr error
	creates       int
	activations   int
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{}
}

func (r *fakeGrantRepo) seed(grant *models.PremiumGrant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *grant
	cp.Email = strings.ToLower(cp.Email)
	r.grants = append(r.grants, &cp)
}

func (r *fakeGrantRepo) FindActiveByEmail(_ context.Context, email string) ([]*models.PremiumGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findActiveErr != nil {
		return nil, r.findActiveErr
	}
	var out []*models.PremiumGrant
	for _, g := range r.grants {
		if g.Email == email && g.Active && g.StripeSubscriptionActive {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeGrantRepo) FindByEmail(_ context.Context, email string) (*models.PremiumGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.grants {
		if g.Email == email {
			cp := *g
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeGrantRepo) Create(_ context.Context, grant *models.PremiumGrant) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	r.nextID++
	cp := *grant
	cp.ID = fmt.Sprintf("grant-%d", r.nextID)
	cp.Email = strings.ToLower(cp.Email)
	r.grants = append(r.grants, &cp)
	return cp.ID, nil
}

func (r *fakeGrantRepo) Activate(_ context.Context, grantID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activations++
	for _, g := range r.grants {
		if g.ID == grantID {
			g.Active = true
			g.StripeSubscriptionActive = true
			g.UserID = userID
			g.UpdatedAt = at
			return nil
		}
	}
	return db.ErrNotFound
}

// fakeAuditRecorder records audit entries in memory.
type fakeAuditRecorder struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (a *fakeAuditRecorder) CreateAuditLog(_ context.Context, entry models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *fakeAuditRecorder) byAction(action string) []models.AuditLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []models.AuditLog
	for _, e := range a.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// fakePaymentProvider serves canned checkout sessions.
type fakePaymentProvider struct {
	mu       sync.Mutex
	sessions map[string]*CheckoutSession

	createErr  error
	lastParams CheckoutParams

	webhookEvent *WebhookEvent
	webhookErr   error
}

func newFakePaymentProvider() *fakePaymentProvider {
	return &fakePaymentProvider{sessions: make(map[string]*CheckoutSession)}
}

func (p *fakePaymentProvider) addSession(sess *CheckoutSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[sess.ID] = sess
}

func (p *fakePaymentProvider) CreateCheckoutSession(_ context.Context, params CheckoutParams) (*CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.lastParams = params
	sess := &CheckoutSession{
		ID:                "cs_test_new",
		URL:               "https://checkout.stripe.com/pay/cs_test_new",
		ClientReferenceID: params.ClientReferenceID,
		CustomerEmail:     params.CustomerEmail,
	}
	p.sessions[sess.ID] = sess
	return sess, nil
}

func (p *fakePaymentProvider) GetSession(_ context.Context, sessionID string) (*CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[sessionID]
	if !ok {
		return nil, errors.New("no such session: " + sessionID)
	}
	cp := *sess
	return &cp, nil
}

func (p *fakePaymentProvider) VerifyWebhook(_ []byte, _ string) (*WebhookEvent, error) {
	if p.webhookErr != nil {
		return nil, p.webhookErr
	}
	return p.webhookEvent, nil
}

// memCache is an in-memory cache.Cache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]string)}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = fmt.Sprint(value)
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// fakeMailer records sent confirmations.
type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) SendPaymentConfirmation(_ context.Context, toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail)
	return nil
}

// fakeAccountCreator hands out sequential UIDs.
type fakeAccountCreator struct {
	mu        sync.Mutex
	nextUID   int
	createErr error
	created   []string
}

func (a *fakeAccountCreator) CreateAccount(_ context.Context, email, _, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return "", a.createErr
	}
	a.nextUID++
	uid := fmt.Sprintf("uid-%d", a.nextUID)
	a.created = append(a.created, email)
	return uid, nil
}

// fakeCompletionClient returns a canned response and records the request.
type fakeCompletionClient struct {
	mu       sync.Mutex
	response string
	err      error
	lastReq  CompletionRequest
}

func (c *fakeCompletionClient) Complete(_ context.Context, req CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastReq = req
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}
