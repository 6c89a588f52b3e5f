package api

import (
	"errors"
	"fmt"
	"net/http"

	"coachpack/internal/domain"
	"coachpack/internal/service"

	"github.com/gin-gonic/gin"
)

// BillingHandler holds the billing and auth service dependencies. It
// needs the auth service to resolve the token's user id into the full
// account record the payment processor calls require.
type BillingHandler struct {
	billingService service.BillingService
	authService    service.AuthService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService, authService service.AuthService) *BillingHandler {
	return &BillingHandler{billingService: billingService, authService: authService}
}

// --- Request/Response Structs ---

type ConfirmCheckoutRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// --- Handler Methods ---

// CreateCheckout godoc
// @Summary Start a premium upgrade checkout
// @Description Creates a hosted checkout session; the client redirects the user to the returned URL.
// @Tags Billing
// @Produce json
// @Success 200 {object} service.CheckoutSession
// @Failure 503 {object} gin.H "Payments not configured"
// @Router /billing/checkout [post]
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	sess, err := h.billingService.CreateCheckoutSession(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, service.ErrBillingNotConfigured) {
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create checkout session")
		}
		return
	}
	c.JSON(http.StatusOK, sess)
}

// ConfirmCheckout godoc
// @Summary Confirm a completed checkout
// @Description Verifies the session belongs to this user and was paid, then upgrades the plan to premium.
// @Tags Billing
// @Accept json
// @Produce json
// @Param body body ConfirmCheckoutRequest true "Checkout session ID"
// @Success 200 {object} UserResponse "Upgraded account"
// @Failure 402 {object} gin.H "Session not paid"
// @Failure 403 {object} gin.H "Session belongs to another user"
// @Router /billing/confirm [post]
func (h *BillingHandler) ConfirmCheckout(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req ConfirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	upgraded, err := h.billingService.ConfirmCheckout(c.Request.Context(), user, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBillingNotConfigured):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrCheckoutNotPaid):
			abortWithError(c, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, service.ErrCheckoutMismatch):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm checkout")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(upgraded))
}

// currentUser resolves the token's user id into the full account record.
func (h *BillingHandler) currentUser(c *gin.Context) (*domain.User, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return nil, false
	}
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load user")
		}
		return nil, false
	}
	return user, true
}
