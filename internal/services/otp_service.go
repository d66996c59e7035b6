package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/kitchensink/domain"
	"github.com/you/kitchensink/internal/infrastructure/store"
)

// OTPConfig carries code shape and per-purpose lifetimes. TTLs keyed by
// purpose form the closed set of purposes the service accepts.
type OTPConfig struct {
	Length      int
	PurposeTTLs map[domain.OTPPurpose]time.Duration
}

// OTPServiceImpl implements domain.OTPService against the shared TTL
// store. At most one valid code exists per (purpose, identity) pair;
// issuing while one is live returns it unchanged without touching its
// TTL, so repeated requests cannot renew a code indefinitely.
type OTPServiceImpl struct {
	kv     store.KV
	config OTPConfig
	log    *logrus.Logger
}

func NewOTPService(kv store.KV, config OTPConfig, log *logrus.Logger) domain.OTPService {
	if config.Length <= 0 {
		config.Length = 6
	}
	return &OTPServiceImpl{kv: kv, config: config, log: log}
}

func otpKey(identity string, purpose domain.OTPPurpose) string {
	return fmt.Sprintf("OTP:%s:%s", purpose, strings.ToLower(identity))
}

func (s *OTPServiceImpl) defaultTTL(purpose domain.OTPPurpose) (time.Duration, error) {
	ttl, ok := s.config.PurposeTTLs[purpose]
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownOTPPurpose, purpose)
	}
	return ttl, nil
}

// Generate implements domain.OTPService.
func (s *OTPServiceImpl) Generate(ctx context.Context, identity string, purpose domain.OTPPurpose, ttlOverride time.Duration) (string, error) {
	defTTL, err := s.defaultTTL(purpose)
	if err != nil {
		return "", err
	}

	key := otpKey(identity, purpose)
	existing, err := store.GetValue[string](ctx, s.kv, key)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.IsValid() {
		s.log.WithFields(logrus.Fields{"purpose": purpose}).Debug("returning existing active otp")
		return existing.Val, nil
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}

	ttl := defTTL
	if ttlOverride > 0 {
		ttl = ttlOverride
	}
	if err := store.SetValue(ctx, s.kv, key, store.NewValue(code, ttl)); err != nil {
		return "", err
	}
	s.log.WithFields(logrus.Fields{"purpose": purpose, "ttl": ttl}).Debug("issued new otp")
	return code, nil
}

// Verify implements domain.OTPService. The record is consumed only on
// an exact match; a mismatch leaves it intact for retries within the
// TTL window, and an absent or expired record is a plain false.
func (s *OTPServiceImpl) Verify(ctx context.Context, identity string, purpose domain.OTPPurpose, code string) (bool, error) {
	if _, err := s.defaultTTL(purpose); err != nil {
		return false, err
	}

	key := otpKey(identity, purpose)
	stored, err := store.GetValue[string](ctx, s.kv, key)
	if err != nil {
		return false, err
	}
	if stored == nil || !stored.IsValid() {
		return false, nil
	}
	if stored.Val != code {
		return false, nil
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		return false, err
	}
	return true, nil
}

// Clear implements domain.OTPService.
func (s *OTPServiceImpl) Clear(ctx context.Context, identity string, purpose domain.OTPPurpose) error {
	if _, err := s.defaultTTL(purpose); err != nil {
		return err
	}
	return s.kv.Delete(ctx, otpKey(identity, purpose))
}

// generateSecureCode draws a fixed-width, left-zero-padded decimal code
// from a cryptographically secure source.
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
