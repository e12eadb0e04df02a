package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whatcanicook-backend-go/internal/core"
	"whatcanicook-backend-go/internal/middleware"
)

// PremiumHandler exposes entitlement status and gates premium routes.
type PremiumHandler struct {
	userService core.UserService
	entitlement core.EntitlementService
	poller      *core.StatusPoller
	// maxStale bounds how old a cached premium flag may be before the gate
	// re-verifies it against the grant record.
	maxStale time.Duration
	logger   *zap.Logger
}

// NewPremiumHandler creates a new PremiumHandler.
func NewPremiumHandler(us core.UserService, es core.EntitlementService, poller *core.StatusPoller, maxStale time.Duration, logger *zap.Logger) *PremiumHandler {
	return &PremiumHandler{
		userService: us,
		entitlement: es,
		poller:      poller,
		maxStale:    maxStale,
		logger:      logger,
	}
}

// GetStatus handles GET /api/v1/premium/status. Tracked users answer from
// the poller snapshot; untracked users get an on-demand verification so the
// endpoint never reports a stale flag.
func (h *PremiumHandler) GetStatus(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}

	if status, tracked := h.poller.Status(userID); tracked {
		c.JSON(http.StatusOK, status)
		return
	}

	result, err := h.entitlement.Verify(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to verify premium status", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, core.PollStatus{
		IsPremium:    result.IsPremium,
		LastVerified: &result.LastVerified,
		Err:          result.Err,
	})
}

// RequirePremium gates a route group on an active premium grant. The cached
// flag on the user document is trusted only within the staleness window;
// otherwise the grant record is consulted again. Verification failures fail
// closed into a 403.
func (h *PremiumHandler) RequirePremium() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.ContextUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
			return
		}

		user, err := h.userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, core.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to check premium status", Details: err.Error()})
			return
		}

		if user.IsPremium && user.LastVerified != nil && time.Since(*user.LastVerified) <= h.maxStale {
			c.Next()
			return
		}

		result, err := h.entitlement.Verify(c.Request.Context(), userID)
		if err != nil || !result.IsPremium {
			if err != nil {
				h.logger.Warn("premium gate verification failed", zap.String("userID", userID), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Premium subscription required"})
			return
		}
		c.Next()
	}
}
