package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/kitchensink/domain"
	"github.com/you/kitchensink/internal/http/middleware"
	"github.com/you/kitchensink/internal/services"
)

// AuthHandlers exposes the authentication flows over HTTP. Every
// failure maps to one stable machine-readable code plus a message;
// store keys and secrets never leave this layer.
type AuthHandlers struct {
	authSvc   domain.AuthService
	forgotSvc *services.ForgotPasswordService
}

func NewAuthHandlers(authSvc domain.AuthService, forgotSvc *services.ForgotPasswordService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc, forgotSvc: forgotSvc}
}

type RegisterRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register handles account creation.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password, req.Roles)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"code": "USER_EXISTS", "error": "email already registered"})
			return
		}
		internalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "account created, verification code sent",
		"email":    user.Email,
		"username": user.Username,
	})
}

// Login resolves a login attempt to one of the five outcomes, each
// with its own response shape and status.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, req.TOTPCode)
	if err != nil {
		internalError(c)
		return
	}

	switch result.Status {
	case domain.StatusCredentialsRejected:
		c.JSON(http.StatusUnauthorized, gin.H{"code": "INVALID_CREDENTIALS", "error": "invalid credentials"})
	case domain.StatusAccountInactive:
		c.JSON(http.StatusForbidden, gin.H{"code": "ACCOUNT_INACTIVE", "error": "account is inactive"})
	case domain.StatusVerificationPending:
		c.JSON(http.StatusAccepted, gin.H{
			"code":    "VERIFICATION_PENDING",
			"message": "account verification pending, a code has been emailed",
		})
	case domain.StatusTwoFactorRequired:
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "TWO_FACTOR_REQUIRED",
			"message": "a valid two-factor code is required",
		})
	case domain.StatusAuthenticated:
		c.JSON(http.StatusOK, gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"identity":      result.Identity,
			"roles":         result.Roles,
		})
	default:
		internalError(c)
	}
}

// Logout tears down the caller's session. Idempotent.
func (h *AuthHandlers) Logout(c *gin.Context) {
	identity := c.GetString(middleware.CtxIdentity)
	if err := h.authSvc.Logout(c.Request.Context(), identity); err != nil {
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Refresh exchanges a valid, still-active refresh token for a new
// access token.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"code": "SESSION_EXPIRED", "error": "session expired, log in again"})
		case errors.Is(err, domain.ErrTokenMalformed):
			c.JSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN", "error": "invalid token"})
		default:
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    pair.ExpiresIn,
	})
}

// ValidateSession reports whether the presented token is well-formed,
// unexpired and currently active.
func (h *AuthHandlers) ValidateSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true, "identity": c.GetString(middleware.CtxIdentity)})
}

// Me returns the authenticated caller's claims.
func (h *AuthHandlers) Me(c *gin.Context) {
	roles, _ := c.Get(middleware.CtxRoles)
	c.JSON(http.StatusOK, gin.H{
		"identity": c.GetString(middleware.CtxIdentity),
		"roles":    roles,
	})
}

// VerifyAccount consumes an ACCOUNT_VERIFICATION code.
func (h *AuthHandlers) VerifyAccount(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authSvc.VerifyAccount(c.Request.Context(), req.Email, req.Code); err != nil {
		respondOTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account verified"})
}

// ResendVerification re-sends the active verification code.
func (h *AuthHandlers) ResendVerification(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authSvc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondOTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

// RequestPasswordReset issues and mails a FORGOT_PASSWORD code.
func (h *AuthHandlers) RequestPasswordReset(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.forgotSvc.RequestReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "USER_NOT_FOUND", "error": "no account for that email"})
			return
		}
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset code sent"})
}

// VerifyPasswordReset consumes a FORGOT_PASSWORD code.
func (h *AuthHandlers) VerifyPasswordReset(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.forgotSvc.VerifyResetCode(c.Request.Context(), req.Email, req.Code); err != nil {
		respondOTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code verified"})
}

// ResetPassword sets the new password after a verified reset code.
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.forgotSvc.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "USER_NOT_FOUND", "error": "no account for that email"})
			return
		}
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

func respondOTPError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_OR_EXPIRED_OTP", "error": "invalid or expired code"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "USER_NOT_FOUND", "error": "no account for that email"})
	default:
		internalError(c)
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "error": "internal error"})
}
