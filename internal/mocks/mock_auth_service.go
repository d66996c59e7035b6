package mocks

import (
	"context"

	"github.com/you/kitchensink/domain"
)

// MockAuthService implements domain.AuthService. There are no default
// behaviors; handler tests set exactly the function fields they need.
type MockAuthService struct {
	RegisterFunc           func(ctx context.Context, email, password string, roles []string) (*domain.User, error)
	LoginFunc              func(ctx context.Context, email, password, totpCode string) (*domain.AuthResult, error)
	LogoutFunc             func(ctx context.Context, identity string) error
	RefreshFunc            func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	VerifyAccountFunc      func(ctx context.Context, email, code string) error
	ResendVerificationFunc func(ctx context.Context, email string) error
	ValidateSessionFunc    func(ctx context.Context, token string) (*domain.TokenClaims, error)
}

func (m *MockAuthService) Register(ctx context.Context, email, password string, roles []string) (*domain.User, error) {
	return m.RegisterFunc(ctx, email, password, roles)
}

func (m *MockAuthService) Login(ctx context.Context, email, password, totpCode string) (*domain.AuthResult, error) {
	return m.LoginFunc(ctx, email, password, totpCode)
}

func (m *MockAuthService) Logout(ctx context.Context, identity string) error {
	return m.LogoutFunc(ctx, identity)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return m.RefreshFunc(ctx, refreshToken)
}

func (m *MockAuthService) VerifyAccount(ctx context.Context, email, code string) error {
	return m.VerifyAccountFunc(ctx, email, code)
}

func (m *MockAuthService) ResendVerification(ctx context.Context, email string) error {
	return m.ResendVerificationFunc(ctx, email)
}

func (m *MockAuthService) ValidateSession(ctx context.Context, token string) (*domain.TokenClaims, error) {
	return m.ValidateSessionFunc(ctx, token)
}

var _ domain.AuthService = (*MockAuthService)(nil)
