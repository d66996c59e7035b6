package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/you/kitchensink/domain"
)

// MockUserRepository implements domain.UserRepository for testing. The
// default behavior is a small in-memory map; individual methods can be
// overridden via the corresponding function fields.
type MockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *domain.User) error
	FindByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	UpdateFunc         func(ctx context.Context, user *domain.User) error
	ExistsByEmailFunc  func(ctx context.Context, email string) (bool, error)

	mu     sync.Mutex
	users  map[string]*domain.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User), nextID: 1}
}

// Seed stores a user directly into the in-memory map.
func (m *MockUserRepository) Seed(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[strings.ToLower(user.Email)] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[strings.ToLower(user.Email)]; ok {
		return domain.ErrUserAlreadyExists
	}
	user.ID = m.nextID
	m.nextID++
	m.users[strings.ToLower(user.Email)] = user
	return nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[strings.ToLower(user.Email)] = &copied
	return nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[strings.ToLower(email)]
	return ok, nil
}

var _ domain.UserRepository = (*MockUserRepository)(nil)
