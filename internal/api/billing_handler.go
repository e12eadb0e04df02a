package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"whatcanicook-backend-go/internal/core"
	"whatcanicook-backend-go/internal/middleware"
	"whatcanicook-backend-go/internal/models"
)

// BillingHandler handles billing-related API endpoints.
type BillingHandler struct {
	billingService core.BillingService
	userService    core.UserService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService, us core.UserService) *BillingHandler {
	return &BillingHandler{billingService: bs, userService: us}
}

// mapBillingErrorToStatus maps errors from core.BillingService to HTTP
// status codes. Partial finalization state is possible and not rolled back,
// so failures there surface as a "contact support" message.
func mapBillingErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrNotSignedIn):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: "Must be signed in to upgrade to premium"}
	case errors.Is(err, core.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: "User profile not found"}
	case errors.Is(err, core.ErrSessionNotPaid), errors.Is(err, core.ErrSessionMismatch):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Checkout session could not be confirmed", Details: err.Error()}
	case errors.Is(err, core.ErrPaymentProvider):
		statusCode = http.StatusServiceUnavailable
		errResponse = ErrorResponse{Error: "Payment provider error", Details: "Could not complete the operation with the payment provider."}
		log.Printf("Payment provider error: %v", err)
	case errors.Is(err, core.ErrWebhookSignature):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Webhook signature verification failed"}
	case errors.Is(err, core.ErrVerificationFailed):
		// Partial state is possible here (the optimistic write may have
		// landed without a confirmed grant).
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "Something went wrong finalizing your payment. Please contact support.", Details: err.Error()}
		log.Printf("Payment finalization verification failed: %v", err)
	default:
		log.Printf("Internal Server Error in BillingHandler: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "Something went wrong finalizing your payment. Please contact support."}
	}
	c.JSON(statusCode, errResponse)
}

// CreateCheckoutSession handles POST /api/v1/billing/create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Must be signed in to upgrade to premium"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		mapBillingErrorToStatus(c, err)
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), user, c.GetHeader("Origin"))
	if err != nil {
		mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckoutSessionResponse{URL: url})
}

// FinalizePayment handles POST /api/v1/billing/finalize, called by the
// client when it lands on the success URL after checkout.
func (h *BillingHandler) FinalizePayment(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Must be signed in to upgrade to premium"})
		return
	}

	var req models.FinalizePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, err := h.billingService.FinalizePayment(c.Request.Context(), userID, req.SessionID)
	if err != nil {
		mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// HandleStripeWebhook handles POST /api/v1/billing/webhooks/stripe. The
// endpoint is public; Stripe authenticates via the Stripe-Signature header.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Stripe-Signature header"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read webhook payload", Details: err.Error()})
		return
	}

	if err := h.billingService.HandleStripeWebhook(c.Request.Context(), signature, payload); err != nil {
		log.Printf("Stripe webhook: error handling event: %v", err)
		mapBillingErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received successfully"})
}
