package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfigYAML = `
app:
  port: 8080
  gin_mode: release
  issuer: kitchensink
database:
  dsn: "host=localhost user=app dbname=app sslmode=disable"
redis:
  addr: "localhost:6379"
  db: 0
jwt:
  secret: file-secret
  access_ttl: 15m
  refresh_ttl: 168h
session:
  ttl: 30m
otp:
  length: 6
  account_verification_ttl: 5m
  forgot_password_ttl: 10m
smtp:
  host: localhost
  port: 1025
  from: noreply@example.com
casbin:
  model_path: config/rbac_model.conf
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.Issuer != "kitchensink" {
		t.Errorf("expected issuer kitchensink, got %s", cfg.Issuer)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("expected 15m access TTL, got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("expected 168h refresh TTL, got %v", cfg.RefreshTTL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.OTPAccountVerificationTTL != 5*time.Minute {
		t.Errorf("expected 5m verification TTL, got %v", cfg.OTPAccountVerificationTTL)
	}
	if cfg.OTPForgotPasswordTTL != 10*time.Minute {
		t.Errorf("expected 10m reset TTL, got %v", cfg.OTPForgotPasswordTTL)
	}
	if cfg.OTPLength != 6 {
		t.Errorf("expected OTP length 6, got %d", cfg.OTPLength)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.JWTSecret != "env-secret" {
		t.Errorf("expected env secret to win, got %s", cfg.JWTSecret)
	}
	if cfg.RedisAddr != "redis.internal:6379" {
		t.Errorf("expected env redis addr to win, got %s", cfg.RedisAddr)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing file", ""},
		{"bad yaml", "app: ["},
		{"bad duration", "jwt:\n  access_ttl: nope\n  refresh_ttl: 1h\nsession:\n  ttl: 1h\notp:\n  account_verification_ttl: 1m\n  forgot_password_ttl: 1m\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yml")
			if tt.content != "" {
				path = writeTestConfig(t, tt.content)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
