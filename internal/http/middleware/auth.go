package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/kitchensink/domain"
)

// Context keys set by the auth middleware.
const (
	CtxIdentity = "identity"
	CtxRoles    = "roles"
)

// AuthMW guards routes with the two-step session check: stateless
// signature/expiry verification first, then the store-backed
// active-token check (which also slides the session window).
type AuthMW struct {
	authSvc domain.AuthService
}

func NewAuthMW(authSvc domain.AuthService) *AuthMW {
	return &AuthMW{authSvc: authSvc}
}

// WithSession returns the middleware function.
func (mw *AuthMW) WithSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "authorization header required"})
			c.Abort()
			return
		}

		claims, err := mw.authSvc.ValidateSession(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"code": "TOKEN_EXPIRED", "error": "token expired, log in again"})
			case errors.Is(err, domain.ErrSessionExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"code": "SESSION_EXPIRED", "error": "session expired or superseded"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN", "error": "invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(CtxIdentity, claims.Identity)
		c.Set(CtxRoles, claims.Roles)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
