package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/kitchensink/domain"
)

// setupTestDB opens an in-memory SQLite database with the users table
// migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&DBUser{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testUser() *domain.User {
	return &domain.User{
		Email:               "user@example.com",
		Username:            "user",
		PasswordHash:        "$2a$10$fakehash",
		Roles:               []string{"user"},
		Active:              true,
		VerificationPending: true,
		FirstLogin:          true,
	}
}

func TestUserRepositoryImpl_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := testUser()
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected assigned ID after create")
	}

	found, err := repo.FindByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("find by email failed: %v", err)
	}
	if found.Email != user.Email || found.Username != user.Username {
		t.Errorf("unexpected user: %+v", found)
	}
	if len(found.Roles) != 1 || found.Roles[0] != "user" {
		t.Errorf("roles did not round-trip, got %v", found.Roles)
	}
	if !found.Active || !found.VerificationPending || !found.FirstLogin {
		t.Errorf("flags did not round-trip: %+v", found)
	}

	byName, err := repo.FindByUsername(ctx, "user")
	if err != nil {
		t.Fatalf("find by username failed: %v", err)
	}
	if byName.ID != found.ID {
		t.Error("expected the same record by username")
	}
}

func TestUserRepositoryImpl_FindMissing(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryImpl_Update(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := testUser()
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	user.VerificationPending = false
	user.TwoFactorEnabled = true
	user.TwoFactorSecret = "JBSWY3DPEHPK3PXP"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.VerificationPending {
		t.Error("expected pending flag cleared")
	}
	if !found.TwoFactorEnabled || found.TwoFactorSecret != "JBSWY3DPEHPK3PXP" {
		t.Error("two-factor fields did not persist")
	}
}

func TestUserRepositoryImpl_ExistsByEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	exists, err := repo.ExistsByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Error("expected no user before create")
	}

	if err := repo.Create(ctx, testUser()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	exists, err = repo.ExistsByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Error("expected user after create")
	}
}

func TestUserRepositoryImpl_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testUser()); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, testUser()); err == nil {
		t.Error("expected unique constraint violation on duplicate email")
	}
}
