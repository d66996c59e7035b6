package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/you/kitchensink/domain"
)

// TwoFactorEnrollment manages a user's second factor: generating and
// storing the shared secret, then enabling or disabling the challenge
// after the user proves they hold a working authenticator.
type TwoFactorEnrollment struct {
	userRepo  domain.UserRepository
	twoFactor domain.TwoFactorService
}

func NewTwoFactorEnrollment(userRepo domain.UserRepository, twoFactor domain.TwoFactorService) *TwoFactorEnrollment {
	return &TwoFactorEnrollment{userRepo: userRepo, twoFactor: twoFactor}
}

// Setup generates a fresh secret, stores it on the account (without
// enabling the challenge yet) and returns it with the provisioning URL
// for QR enrollment.
func (s *TwoFactorEnrollment) Setup(ctx context.Context, email string) (*domain.TwoFactorSetup, error) {
	email = strings.ToLower(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	secret, err := s.twoFactor.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	user.TwoFactorSecret = secret
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store secret: %w", err)
	}

	return &domain.TwoFactorSetup{
		Secret:          secret,
		ProvisioningURL: s.twoFactor.ProvisioningURL(email, secret),
	}, nil
}

// Enable turns on the login challenge once the submitted code proves
// the authenticator was provisioned correctly.
func (s *TwoFactorEnrollment) Enable(ctx context.Context, email, code string) error {
	email = strings.ToLower(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == "" {
		return domain.ErrTwoFactorNotConfigured
	}
	if !s.twoFactor.VerifyCode(user.TwoFactorSecret, code) {
		return domain.ErrTwoFactorCodeInvalid
	}

	user.TwoFactorEnabled = true
	return s.userRepo.Update(ctx, user)
}

// Disable removes the second factor after a final code check.
func (s *TwoFactorEnrollment) Disable(ctx context.Context, email, code string) error {
	email = strings.ToLower(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == "" {
		return domain.ErrTwoFactorNotConfigured
	}
	if !s.twoFactor.VerifyCode(user.TwoFactorSecret, code) {
		return domain.ErrTwoFactorCodeInvalid
	}

	user.TwoFactorEnabled = false
	user.TwoFactorSecret = ""
	return s.userRepo.Update(ctx, user)
}
