package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whatcanicook-backend-go/internal/core"
	"whatcanicook-backend-go/internal/middleware"
	"whatcanicook-backend-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser injects an authenticated identity the way the auth middleware does.
func asUser(userID, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserEmail, email)
		c.Set(middleware.ContextDisplayName, "tester")
		c.Next()
	}
}

type fakeUserService struct {
	mu        sync.Mutex
	user      *models.User
	signUpErr error
	getErr    error
}

func (f *fakeUserService) SignUp(_ context.Context, _ models.SignUpRequest) (*models.User, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.user, nil
}

func (f *fakeUserService) InitializeSession(_ context.Context, _, _, _ string) (*models.User, error) {
	return f.user, f.getErr
}

func (f *fakeUserService) GetByID(_ context.Context, _ string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	cp := *f.user
	return &cp, nil
}

func (f *fakeUserService) UpdatePreferences(_ context.Context, _ string, _ models.UpdatePreferencesRequest) (*models.User, error) {
	return f.user, f.getErr
}

type fakeEntitlementService struct {
	mu     sync.Mutex
	result core.VerificationResult
	err    error
	calls  int
}

func (f *fakeEntitlementService) Verify(_ context.Context, _ string) (core.VerificationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func (f *fakeEntitlementService) verifyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBillingService struct {
	url  string
	user *models.User
	err  error

	lastOrigin  string
	lastSession string
}

func (f *fakeBillingService) CreateCheckoutSession(_ context.Context, _ *models.User, origin string) (string, error) {
	f.lastOrigin = origin
	return f.url, f.err
}

func (f *fakeBillingService) FinalizePayment(_ context.Context, _, sessionID string) (*models.User, error) {
	f.lastSession = sessionID
	return f.user, f.err
}

func (f *fakeBillingService) HandleStripeWebhook(_ context.Context, _ string, _ []byte) error {
	return f.err
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func premiumUser(lastVerified time.Time) *models.User {
	return &models.User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		IsPremium:    true,
		LastVerified: &lastVerified,
		Preferences:  models.DefaultPreferences(),
	}
}

func TestSignUpMapsAuthErrorsToMessages(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{core.ErrEmailAlreadyInUse, http.StatusConflict, "This email is already registered. Please sign in instead."},
		{core.ErrInvalidEmail, http.StatusBadRequest, "Please enter a valid email address."},
		{core.ErrWeakPassword, http.StatusBadRequest, "Password should be at least 6 characters long."},
		{errors.New("firestore exploded"), http.StatusInternalServerError, "An error occurred. Please try again."},
	}

	for _, tc := range cases {
		us := &fakeUserService{signUpErr: tc.err}
		poller := core.NewStatusPoller(&fakeEntitlementService{}, time.Hour, zap.NewNop())
		handler := NewAuthHandler(us, poller)

		router := gin.New()
		router.POST("/signup", handler.SignUp)

		w := doJSON(t, router, http.MethodPost, "/signup", models.SignUpRequest{
			Email: "alice@example.com", Password: "secret123", Username: "alice",
		}, nil)
		if w.Code != tc.wantStatus {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.wantStatus, w.Code)
		}
		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if resp.Error != tc.wantMsg {
			t.Fatalf("%v: expected message %q, got %q", tc.err, tc.wantMsg, resp.Error)
		}
	}
}

func TestSignUpRejectsInvalidPayload(t *testing.T) {
	handler := NewAuthHandler(&fakeUserService{}, core.NewStatusPoller(&fakeEntitlementService{}, time.Hour, zap.NewNop()))
	router := gin.New()
	router.POST("/signup", handler.SignUp)

	w := doJSON(t, router, http.MethodPost, "/signup", map[string]string{"email": "not-an-email"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", w.Code)
	}
}

func TestSignOutUntracksUser(t *testing.T) {
	ent := &fakeEntitlementService{result: core.VerificationResult{IsPremium: true, LastVerified: time.Now()}}
	poller := core.NewStatusPoller(ent, time.Hour, zap.NewNop())
	defer poller.StopAll()
	handler := NewAuthHandler(&fakeUserService{user: premiumUser(time.Now())}, poller)

	poller.Track("u1")

	router := gin.New()
	router.POST("/signout", asUser("u1", "alice@example.com"), handler.SignOut)

	w := doJSON(t, router, http.MethodPost, "/signout", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, tracked := poller.Status("u1"); tracked {
		t.Fatal("sign-out must stop the status poller for the user")
	}
}

func TestRequirePremiumTrustsFreshVerification(t *testing.T) {
	ent := &fakeEntitlementService{}
	us := &fakeUserService{user: premiumUser(time.Now())}
	poller := core.NewStatusPoller(ent, time.Hour, zap.NewNop())
	handler := NewPremiumHandler(us, ent, poller, 5*time.Minute, zap.NewNop())

	router := gin.New()
	router.GET("/gated", asUser("u1", "alice@example.com"), handler.RequirePremium(), func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
	})

	w := doJSON(t, router, http.MethodGet, "/gated", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a freshly verified premium user, got %d", w.Code)
	}
	if ent.verifyCalls() != 0 {
		t.Fatal("a fresh cached flag must not trigger re-verification")
	}
}

func TestRequirePremiumReverifiesStaleFlag(t *testing.T) {
	stale := time.Now().Add(-time.Hour)
	ent := &fakeEntitlementService{result: core.VerificationResult{IsPremium: true, LastVerified: time.Now()}}
	us := &fakeUserService{user: premiumUser(stale)}
	poller := core.NewStatusPoller(ent, time.Hour, zap.NewNop())
	handler := NewPremiumHandler(us, ent, poller, 5*time.Minute, zap.NewNop())

	router := gin.New()
	router.GET("/gated", asUser("u1", "alice@example.com"), handler.RequirePremium(), func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
	})

	w := doJSON(t, router, http.MethodGet, "/gated", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after re-verification, got %d", w.Code)
	}
	if ent.verifyCalls() != 1 {
		t.Fatalf("a stale flag must trigger exactly one re-verification, got %d", ent.verifyCalls())
	}
}

func TestRequirePremiumRejectsLapsedSubscriber(t *testing.T) {
	stale := time.Now().Add(-time.Hour)
	ent := &fakeEntitlementService{result: core.VerificationResult{IsPremium: false, LastVerified: time.Now()}}
	us := &fakeUserService{user: premiumUser(stale)}
	poller := core.NewStatusPoller(ent, time.Hour, zap.NewNop())
	handler := NewPremiumHandler(us, ent, poller, 5*time.Minute, zap.NewNop())

	router := gin.New()
	router.GET("/gated", asUser("u1", "alice@example.com"), handler.RequirePremium(), func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
	})

	w := doJSON(t, router, http.MethodGet, "/gated", nil, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a lapsed subscriber, got %d", w.Code)
	}
}

func TestRequirePremiumFailsClosedOnVerifyError(t *testing.T) {
	stale := time.Now().Add(-time.Hour)
	ent := &fakeEntitlementService{err: errors.New("backend unavailable")}
	us := &fakeUserService{user: premiumUser(stale)}
	poller := core.NewStatusPoller(ent, time.Hour, zap.NewNop())
	handler := NewPremiumHandler(us, ent, poller, 5*time.Minute, zap.NewNop())

	router := gin.New()
	router.GET("/gated", asUser("u1", "alice@example.com"), handler.RequirePremium(), func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
	})

	w := doJSON(t, router, http.MethodGet, "/gated", nil, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when verification errors, got %d", w.Code)
	}
}

func TestRequirePremiumWithoutIdentity(t *testing.T) {
	ent := &fakeEntitlementService{}
	poller := core.NewStatusPoller(ent, time.Hour, zap.NewNop())
	handler := NewPremiumHandler(&fakeUserService{user: premiumUser(time.Now())}, ent, poller, 5*time.Minute, zap.NewNop())

	router := gin.New()
	router.GET("/gated", handler.RequirePremium(), func(c *gin.Context) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
	})

	w := doJSON(t, router, http.MethodGet, "/gated", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without an identity, got %d", w.Code)
	}
}

func TestGetStatusFallsBackToOnDemandVerify(t *testing.T) {
	ent := &fakeEntitlementService{result: core.VerificationResult{IsPremium: true, LastVerified: time.Now()}}
	poller := core.NewStatusPoller(ent, time.Hour, zap.NewNop())
	handler := NewPremiumHandler(&fakeUserService{user: premiumUser(time.Now())}, ent, poller, 5*time.Minute, zap.NewNop())

	router := gin.New()
	router.GET("/status", asUser("u1", "alice@example.com"), handler.GetStatus)

	// u1 is not tracked by the poller, so the endpoint verifies on demand.
	w := doJSON(t, router, http.MethodGet, "/status", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var status core.PollStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if !status.IsPremium {
		t.Fatal("expected a premium status from the on-demand verification")
	}
	if ent.verifyCalls() != 1 {
		t.Fatalf("expected one on-demand verification, got %d", ent.verifyCalls())
	}
}

func TestCreateCheckoutSessionForwardsOrigin(t *testing.T) {
	bs := &fakeBillingService{url: "https://checkout.stripe.com/pay/cs_test_new"}
	handler := NewBillingHandler(bs, &fakeUserService{user: premiumUser(time.Now())})

	router := gin.New()
	router.POST("/checkout", asUser("u1", "alice@example.com"), handler.CreateCheckoutSession)

	w := doJSON(t, router, http.MethodPost, "/checkout", nil, map[string]string{
		"Origin": "https://preview.whatcanicook.app",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if bs.lastOrigin != "https://preview.whatcanicook.app" {
		t.Fatalf("origin header not forwarded, got %q", bs.lastOrigin)
	}
	var resp CheckoutSessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "https://checkout.stripe.com/") {
		t.Fatalf("unexpected redirect URL: %q", resp.URL)
	}
}

func TestFinalizePaymentStatusMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
	}{
		{nil, http.StatusOK},
		{core.ErrSessionNotPaid, http.StatusBadRequest},
		{core.ErrSessionMismatch, http.StatusBadRequest},
		{core.ErrPaymentProvider, http.StatusServiceUnavailable},
		{core.ErrVerificationFailed, http.StatusInternalServerError},
		{core.ErrUserNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		bs := &fakeBillingService{user: premiumUser(time.Now()), err: tc.err}
		handler := NewBillingHandler(bs, &fakeUserService{user: premiumUser(time.Now())})

		router := gin.New()
		router.POST("/finalize", asUser("u1", "alice@example.com"), handler.FinalizePayment)

		w := doJSON(t, router, http.MethodPost, "/finalize", models.FinalizePaymentRequest{SessionID: "cs_test_123"}, nil)
		if w.Code != tc.wantStatus {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.wantStatus, w.Code)
		}
		if tc.err == nil && bs.lastSession != "cs_test_123" {
			t.Fatalf("session ID not forwarded, got %q", bs.lastSession)
		}
	}
}

func TestFinalizePaymentRequiresSessionID(t *testing.T) {
	handler := NewBillingHandler(&fakeBillingService{}, &fakeUserService{user: premiumUser(time.Now())})
	router := gin.New()
	router.POST("/finalize", asUser("u1", "alice@example.com"), handler.FinalizePayment)

	w := doJSON(t, router, http.MethodPost, "/finalize", map[string]string{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing session ID, got %d", w.Code)
	}
}

func TestStripeWebhookRequiresSignatureHeader(t *testing.T) {
	handler := NewBillingHandler(&fakeBillingService{}, &fakeUserService{user: premiumUser(time.Now())})
	router := gin.New()
	router.POST("/webhook", handler.HandleStripeWebhook)

	w := doJSON(t, router, http.MethodPost, "/webhook", map[string]string{"type": "x"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a Stripe-Signature header, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/webhook", map[string]string{"type": "x"}, map[string]string{
		"Stripe-Signature": "t=1,v1=abc",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a signed webhook, got %d", w.Code)
	}
}

func TestStripeWebhookMapsSignatureFailure(t *testing.T) {
	handler := NewBillingHandler(&fakeBillingService{err: core.ErrWebhookSignature}, &fakeUserService{user: premiumUser(time.Now())})
	router := gin.New()
	router.POST("/webhook", handler.HandleStripeWebhook)

	w := doJSON(t, router, http.MethodPost, "/webhook", map[string]string{"type": "x"}, map[string]string{
		"Stripe-Signature": "t=1,v1=bad",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad signature, got %d", w.Code)
	}
}
