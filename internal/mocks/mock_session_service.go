package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/kitchensink/domain"
)

// MockSessionService implements domain.SessionService with an in-memory
// token map. TTLs are recorded but not enforced; override the function
// fields for expiry scenarios.
type MockSessionService struct {
	StoreAccessTokenFunc     func(ctx context.Context, identity, token string, ttl time.Duration) error
	StoreRefreshTokenFunc    func(ctx context.Context, identity, token string, ttl time.Duration) error
	ValidateAccessTokenFunc  func(ctx context.Context, identity, token string) (bool, error)
	ValidateRefreshTokenFunc func(ctx context.Context, identity, token string) (bool, error)
	SessionExistsFunc        func(ctx context.Context, identity string) (bool, error)
	ActiveTokenFunc          func(ctx context.Context, identity string) (string, error)
	InvalidateFunc           func(ctx context.Context, identity string) error

	mu      sync.Mutex
	access  map[string]string
	refresh map[string]string
}

func NewMockSessionService() *MockSessionService {
	return &MockSessionService{
		access:  make(map[string]string),
		refresh: make(map[string]string),
	}
}

func (m *MockSessionService) StoreAccessToken(ctx context.Context, identity, token string, ttl time.Duration) error {
	if m.StoreAccessTokenFunc != nil {
		return m.StoreAccessTokenFunc(ctx, identity, token, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access[identity] = token
	return nil
}

func (m *MockSessionService) StoreRefreshToken(ctx context.Context, identity, token string, ttl time.Duration) error {
	if m.StoreRefreshTokenFunc != nil {
		return m.StoreRefreshTokenFunc(ctx, identity, token, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[identity] = token
	return nil
}

func (m *MockSessionService) ValidateAccessToken(ctx context.Context, identity, token string) (bool, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(ctx, identity, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access[identity] == token && token != "", nil
}

func (m *MockSessionService) ValidateRefreshToken(ctx context.Context, identity, token string) (bool, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(ctx, identity, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh[identity] == token && token != "", nil
}

func (m *MockSessionService) SessionExists(ctx context.Context, identity string) (bool, error) {
	if m.SessionExistsFunc != nil {
		return m.SessionExistsFunc(ctx, identity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.access[identity]
	return ok, nil
}

func (m *MockSessionService) ActiveToken(ctx context.Context, identity string) (string, error) {
	if m.ActiveTokenFunc != nil {
		return m.ActiveTokenFunc(ctx, identity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access[identity], nil
}

func (m *MockSessionService) Invalidate(ctx context.Context, identity string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, identity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.access, identity)
	delete(m.refresh, identity)
	return nil
}

var _ domain.SessionService = (*MockSessionService)(nil)
