package mocks

import (
	"context"
	"time"

	"github.com/you/kitchensink/domain"
)

// MockOTPService implements domain.OTPService for testing.
type MockOTPService struct {
	GenerateFunc func(ctx context.Context, identity string, purpose domain.OTPPurpose, ttlOverride time.Duration) (string, error)
	VerifyFunc   func(ctx context.Context, identity string, purpose domain.OTPPurpose, code string) (bool, error)
	ClearFunc    func(ctx context.Context, identity string, purpose domain.OTPPurpose) error
}

func (m *MockOTPService) Generate(ctx context.Context, identity string, purpose domain.OTPPurpose, ttlOverride time.Duration) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, identity, purpose, ttlOverride)
	}
	return "123456", nil
}

func (m *MockOTPService) Verify(ctx context.Context, identity string, purpose domain.OTPPurpose, code string) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, identity, purpose, code)
	}
	return code == "123456", nil
}

func (m *MockOTPService) Clear(ctx context.Context, identity string, purpose domain.OTPPurpose) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, identity, purpose)
	}
	return nil
}

var _ domain.OTPService = (*MockOTPService)(nil)
