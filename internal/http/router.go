package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/kitchensink/internal/http/handlers"
	"github.com/you/kitchensink/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, tfh *handlers.TwoFactorHandlers, authMW *middleware.AuthMW, casbinMW *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/verify-account", ah.VerifyAccount)
	auth.POST("/resend-verification", ah.ResendVerification)
	auth.POST("/forgot-password/request-otp", ah.RequestPasswordReset)
	auth.POST("/forgot-password/verify-otp", ah.VerifyPasswordReset)
	auth.POST("/forgot-password/reset", ah.ResetPassword)

	protected := r.Group("/").Use(authMW.WithSession(), casbinMW.Enforce())
	protected.GET("/auth/me", ah.Me)
	protected.GET("/auth/validate-session", ah.ValidateSession)
	protected.POST("/auth/logout", ah.Logout)
	protected.POST("/2fa/setup", tfh.Setup)
	protected.POST("/2fa/verify", tfh.Verify)
	protected.POST("/2fa/disable", tfh.Disable)

	return r
}
