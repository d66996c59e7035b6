package mocks

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/you/kitchensink/domain"
)

// MockTokenService implements domain.TokenService. By default it issues
// opaque sequence-numbered tokens and accepts any token it has issued,
// returning the identity encoded at issue time.
type MockTokenService struct {
	IssueAccessFunc   func(identity string, roles []string) (string, error)
	IssueRefreshFunc  func(identity string) (string, error)
	VerifyAccessFunc  func(token string) (*domain.TokenClaims, error)
	VerifyRefreshFunc func(token string) (*domain.TokenClaims, error)
	AccessTTLValue    time.Duration
	RefreshTTLValue   time.Duration

	seq    atomic.Int64
	issued map[string]*domain.TokenClaims
}

func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		AccessTTLValue:  15 * time.Minute,
		RefreshTTLValue: 7 * 24 * time.Hour,
		issued:          make(map[string]*domain.TokenClaims),
	}
}

func (m *MockTokenService) issue(kind, identity string, roles []string) string {
	token := fmt.Sprintf("%s-%s-%d", kind, identity, m.seq.Add(1))
	now := time.Now()
	m.issued[token] = &domain.TokenClaims{
		Identity:  identity,
		Roles:     roles,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.AccessTTLValue).Unix(),
	}
	return token
}

func (m *MockTokenService) IssueAccess(identity string, roles []string) (string, error) {
	if m.IssueAccessFunc != nil {
		return m.IssueAccessFunc(identity, roles)
	}
	return m.issue("access", identity, roles), nil
}

func (m *MockTokenService) IssueRefresh(identity string) (string, error) {
	if m.IssueRefreshFunc != nil {
		return m.IssueRefreshFunc(identity)
	}
	return m.issue("refresh", identity, nil), nil
}

func (m *MockTokenService) VerifyAccess(token string) (*domain.TokenClaims, error) {
	if m.VerifyAccessFunc != nil {
		return m.VerifyAccessFunc(token)
	}
	claims, ok := m.issued[token]
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}

func (m *MockTokenService) VerifyRefresh(token string) (*domain.TokenClaims, error) {
	if m.VerifyRefreshFunc != nil {
		return m.VerifyRefreshFunc(token)
	}
	claims, ok := m.issued[token]
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}

func (m *MockTokenService) AccessTTL() time.Duration  { return m.AccessTTLValue }
func (m *MockTokenService) RefreshTTL() time.Duration { return m.RefreshTTLValue }

var _ domain.TokenService = (*MockTokenService)(nil)
