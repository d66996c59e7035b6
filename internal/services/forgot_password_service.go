package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/you/kitchensink/domain"
)

const (
	passwordResetSubject = "Password reset code"
	passwordResetBody    = "Hello %s,\n\nYour password reset code is: %s\n\nIf you did not request a reset, you can ignore this message."
)

// ForgotPasswordService drives the email-based password reset flow:
// request a code, verify it, set the new password. The OTP record is
// always cleared after a successful reset so a consumed code cannot be
// replayed against a second reset.
type ForgotPasswordService struct {
	userRepo    domain.UserRepository
	otpSvc      domain.OTPService
	passwordSvc domain.PasswordService
	mailer      domain.Mailer
	log         *logrus.Logger
}

func NewForgotPasswordService(
	userRepo domain.UserRepository,
	otpSvc domain.OTPService,
	passwordSvc domain.PasswordService,
	mailer domain.Mailer,
	log *logrus.Logger,
) *ForgotPasswordService {
	return &ForgotPasswordService{
		userRepo:    userRepo,
		otpSvc:      otpSvc,
		passwordSvc: passwordSvc,
		mailer:      mailer,
		log:         log,
	}
}

// RequestReset issues (or re-sends) a FORGOT_PASSWORD code and mails it.
func (s *ForgotPasswordService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.otpSvc.Generate(ctx, email, domain.PurposeForgotPassword, 0)
	if err != nil {
		return fmt.Errorf("failed to issue reset otp: %w", err)
	}
	if err := s.mailer.Send(email, passwordResetSubject, fmt.Sprintf(passwordResetBody, user.Username, code)); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

// VerifyResetCode consumes the code on match.
func (s *ForgotPasswordService) VerifyResetCode(ctx context.Context, email, code string) error {
	ok, err := s.otpSvc.Verify(ctx, strings.ToLower(email), domain.PurposeForgotPassword, code)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOTP
	}
	return nil
}

// ResetPassword rehashes and saves the new password, then clears any
// leftover reset code so it cannot be reused.
func (s *ForgotPasswordService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.ToLower(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save new password: %w", err)
	}

	if err := s.otpSvc.Clear(ctx, email, domain.PurposeForgotPassword); err != nil {
		return err
	}
	s.log.WithField("identity", email).Info("password reset")
	return nil
}
