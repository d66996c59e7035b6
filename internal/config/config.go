package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	Issuer  string `yaml:"issuer"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type SessionConfig struct {
	// TTL is the sliding session window re-applied on every validated
	// request.
	TTL string `yaml:"ttl"`
}

type OTPConfig struct {
	Length                 int    `yaml:"length"`
	AccountVerificationTTL string `yaml:"account_verification_ttl"`
	ForgotPasswordTTL      string `yaml:"forgot_password_ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Session  SessionConfig  `yaml:"session"`
	OTP      OTPConfig      `yaml:"otp"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

// Config is the resolved runtime configuration handed to the app
// container. TTLs and secrets are injected into each component at
// construction; nothing reads them from ambient state afterwards.
type Config struct {
	Port                      string
	GinMode                   string
	Issuer                    string
	DSN                       string
	RedisAddr                 string
	RedisPassword             string
	RedisDB                   int
	JWTSecret                 string
	AccessTTL                 time.Duration
	RefreshTTL                time.Duration
	SessionTTL                time.Duration
	OTPLength                 int
	OTPAccountVerificationTTL time.Duration
	OTPForgotPasswordTTL      time.Duration
	SMTPHost                  string
	SMTPPort                  int
	SMTPFrom                  string
	SMTPUsername              string
	SMTPPassword              string
	CasbinModelPath           string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load(path string) (*Config, error) {
	raw, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(raw.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt access TTL: %w", err)
	}
	refTTL, err := time.ParseDuration(raw.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt refresh TTL: %w", err)
	}
	sessTTL, err := time.ParseDuration(raw.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}
	verifyTTL, err := time.ParseDuration(raw.OTP.AccountVerificationTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid account verification otp TTL: %w", err)
	}
	forgotTTL, err := time.ParseDuration(raw.OTP.ForgotPasswordTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid forgot password otp TTL: %w", err)
	}

	return &Config{
		Port:                      fmt.Sprintf("%d", raw.App.Port),
		GinMode:                   raw.App.GinMode,
		Issuer:                    raw.App.Issuer,
		DSN:                       env("DATABASE_DSN", raw.Database.DSN),
		RedisAddr:                 env("REDIS_ADDR", raw.Redis.Addr),
		RedisPassword:             env("REDIS_PASSWORD", raw.Redis.Password),
		RedisDB:                   raw.Redis.DB,
		JWTSecret:                 env("JWT_SECRET", raw.JWT.Secret),
		AccessTTL:                 accTTL,
		RefreshTTL:                refTTL,
		SessionTTL:                sessTTL,
		OTPLength:                 raw.OTP.Length,
		OTPAccountVerificationTTL: verifyTTL,
		OTPForgotPasswordTTL:      forgotTTL,
		SMTPHost:                  env("SMTP_HOST", raw.SMTP.Host),
		SMTPPort:                  raw.SMTP.Port,
		SMTPFrom:                  raw.SMTP.From,
		SMTPUsername:              env("SMTP_USERNAME", raw.SMTP.Username),
		SMTPPassword:              env("SMTP_PASSWORD", raw.SMTP.Password),
		CasbinModelPath:           raw.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}
	return &cfg, nil
}
