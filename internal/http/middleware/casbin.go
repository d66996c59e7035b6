package middleware

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// CasbinMW enforces role policies (role_admin, role_user) on protected
// routes. A request passes when any of the caller's roles is allowed
// for the matched path and method.
type CasbinMW struct {
	enforcer *casbin.Enforcer
}

func NewCasbinMW(enforcer *casbin.Enforcer) *CasbinMW {
	return &CasbinMW{enforcer: enforcer}
}

// Enforce returns the authorization middleware. It expects AuthMW to
// have populated the identity and roles context keys.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawRoles, ok := c.Get(CtxRoles)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "roles not found in context"})
			c.Abort()
			return
		}
		roles, _ := rawRoles.([]string)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		for _, role := range roles {
			allowed, err := mw.enforcer.Enforce("role_"+role, path, method)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"code": "AUTHZ_FAILED", "error": "authorization check failed"})
				c.Abort()
				return
			}
			if allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"code": "FORBIDDEN", "error": "access denied"})
		c.Abort()
	}
}
