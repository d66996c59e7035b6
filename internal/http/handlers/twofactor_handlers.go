package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/kitchensink/domain"
	"github.com/you/kitchensink/internal/http/middleware"
	"github.com/you/kitchensink/internal/services"
)

// TwoFactorHandlers exposes second-factor enrollment for the
// authenticated caller.
type TwoFactorHandlers struct {
	enrollment *services.TwoFactorEnrollment
}

func NewTwoFactorHandlers(enrollment *services.TwoFactorEnrollment) *TwoFactorHandlers {
	return &TwoFactorHandlers{enrollment: enrollment}
}

type TwoFactorCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// Setup generates and stores a fresh secret for the caller.
func (h *TwoFactorHandlers) Setup(c *gin.Context) {
	identity := c.GetString(middleware.CtxIdentity)

	setup, err := h.enrollment.Setup(c.Request.Context(), identity)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":           setup.Secret,
		"provisioning_url": setup.ProvisioningURL,
	})
}

// Verify enables the login challenge after a correct code.
func (h *TwoFactorHandlers) Verify(c *gin.Context) {
	var req TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := c.GetString(middleware.CtxIdentity)
	if err := h.enrollment.Enable(c.Request.Context(), identity, req.Code); err != nil {
		respondTwoFactorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "two-factor authentication enabled"})
}

// Disable removes the second factor after a final code check.
func (h *TwoFactorHandlers) Disable(c *gin.Context) {
	var req TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := c.GetString(middleware.CtxIdentity)
	if err := h.enrollment.Disable(c.Request.Context(), identity, req.Code); err != nil {
		respondTwoFactorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "two-factor authentication disabled"})
}

func respondTwoFactorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTwoFactorNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"code": "TWO_FACTOR_NOT_CONFIGURED", "error": "two-factor authentication is not set up"})
	case errors.Is(err, domain.ErrTwoFactorCodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"code": "TWO_FACTOR_CODE_INVALID", "error": "invalid two-factor code"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "USER_NOT_FOUND", "error": "no account for that email"})
	default:
		internalError(c)
	}
}
