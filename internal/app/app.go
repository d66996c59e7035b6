package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/you/kitchensink/domain"
	"github.com/you/kitchensink/internal/config"
	httpx "github.com/you/kitchensink/internal/http"
	"github.com/you/kitchensink/internal/http/handlers"
	"github.com/you/kitchensink/internal/http/middleware"
	"github.com/you/kitchensink/internal/infrastructure/auth"
	"github.com/you/kitchensink/internal/infrastructure/database"
	"github.com/you/kitchensink/internal/infrastructure/notifications"
	"github.com/you/kitchensink/internal/infrastructure/repositories"
	"github.com/you/kitchensink/internal/infrastructure/store"
	"github.com/you/kitchensink/internal/services"
)

func Run(cfg *config.Config) error {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx); err != nil {
		return err
	}
	kv := store.NewRedisStore(rdb.Client)

	// Infrastructure services
	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.Issuer, cfg.AccessTTL, cfg.RefreshTTL)
	totpSvc := auth.NewTOTPService(cfg.Issuer)
	mailer := notifications.NewSMTPService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)

	// Repositories and core services
	userRepo := repositories.NewUserRepository(gdb)
	otpSvc := services.NewOTPService(kv, services.OTPConfig{
		Length: cfg.OTPLength,
		PurposeTTLs: map[domain.OTPPurpose]time.Duration{
			domain.PurposeAccountVerification: cfg.OTPAccountVerificationTTL,
			domain.PurposeForgotPassword:      cfg.OTPForgotPasswordTTL,
		},
	}, log)
	sessionSvc := services.NewSessionService(kv, services.SessionConfig{
		AccessTTL: cfg.SessionTTL,
	}, log)

	authSvc := services.NewAuthService(userRepo, otpSvc, sessionSvc, tokenSvc, passwordSvc, totpSvc, mailer, log)
	forgotSvc := services.NewForgotPasswordService(userRepo, otpSvc, passwordSvc, mailer, log)
	enrollment := services.NewTwoFactorEnrollment(userRepo, totpSvc)

	// HTTP layer
	authH := handlers.NewAuthHandlers(authSvc, forgotSvc)
	tfH := handlers.NewTwoFactorHandlers(enrollment)
	authMW := middleware.NewAuthMW(authSvc)
	casbinMW := middleware.NewCasbinMW(cas.E)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := httpx.BuildRouter(authH, tfH, authMW, casbinMW)

	policies, _ := cas.E.GetPolicy()
	if len(policies) == 0 {
		cas.E.AddPolicy("role_admin", "/auth/*", "(GET|POST)")
		cas.E.AddPolicy("role_admin", "/2fa/*", "POST")
		cas.E.AddPolicy("role_user", "/auth/me", "GET")
		cas.E.AddPolicy("role_user", "/auth/validate-session", "GET")
		cas.E.AddPolicy("role_user", "/auth/logout", "POST")
		cas.E.AddPolicy("role_user", "/2fa/setup", "POST")
		cas.E.AddPolicy("role_user", "/2fa/verify", "POST")
		cas.E.AddPolicy("role_user", "/2fa/disable", "POST")
		_ = cas.E.SavePolicy()
		log.Info("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("listening")
	return http.ListenAndServe(addr, r)
}
