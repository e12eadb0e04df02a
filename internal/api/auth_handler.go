package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"whatcanicook-backend-go/internal/core"
	"whatcanicook-backend-go/internal/middleware"
	"whatcanicook-backend-go/internal/models"
)

// authErrorMessage maps authentication error codes onto the fixed
// user-facing messages the client shows in its auth form.
func authErrorMessage(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrEmailAlreadyInUse):
		return http.StatusConflict, "This email is already registered. Please sign in instead."
	case errors.Is(err, core.ErrInvalidEmail):
		return http.StatusBadRequest, "Please enter a valid email address."
	case errors.Is(err, core.ErrWeakPassword):
		return http.StatusBadRequest, "Password should be at least 6 characters long."
	case errors.Is(err, core.ErrUserNotFound):
		return http.StatusNotFound, "No account found with this email. Please sign up instead."
	default:
		return http.StatusInternalServerError, "An error occurred. Please try again."
	}
}

// AuthHandler handles account lifecycle endpoints.
type AuthHandler struct {
	userService core.UserService
	poller      *core.StatusPoller
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService, poller *core.StatusPoller) *AuthHandler {
	return &AuthHandler{userService: us, poller: poller}
}

// SignUp handles POST /api/v1/auth/signup. It creates the auth account and
// the user document; the client then signs in against Firebase directly.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), req)
	if err != nil {
		status, message := authErrorMessage(err)
		if status == http.StatusInternalServerError {
			log.Printf("SignUp: userService.SignUp failed: %v", err)
		}
		c.JSON(status, ErrorResponse{Error: message})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// InitializeSession handles POST /api/v1/users/initialize. Called after a
// client-side sign-in: it ensures the user document exists, reconciles the
// cached premium flag and starts the status poller for this user.
func (h *AuthHandler) InitializeSession(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}
	email := c.GetString(middleware.ContextUserEmail)
	displayName := c.GetString(middleware.ContextDisplayName)

	user, err := h.userService.InitializeSession(c.Request.Context(), userID, email, displayName)
	if err != nil {
		status, message := authErrorMessage(err)
		if status == http.StatusInternalServerError {
			log.Printf("InitializeSession: failed for userID %s: %v", userID, err)
		}
		c.JSON(status, ErrorResponse{Error: message})
		return
	}

	h.poller.Track(userID)

	c.JSON(http.StatusOK, user)
}

// SignOut handles POST /api/v1/auth/signout. Firebase sessions end on the
// client; the server's part is stopping the poller and resetting its state.
func (h *AuthHandler) SignOut(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}

	h.poller.Untrack(userID)

	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}
