package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/kitchensink/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM.
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser is the database model for User.
type DBUser struct {
	ID                  uint            `gorm:"primaryKey"`
	Email               string          `gorm:"uniqueIndex;size:255"`
	Username            string          `gorm:"uniqueIndex;size:128"`
	PasswordHash        string          `gorm:"column:password"`
	Roles               domain.RoleList `gorm:"type:text"`
	Active              bool            `gorm:"index"`
	VerificationPending bool
	FirstLogin          bool
	TwoFactorEnabled    bool
	TwoFactorSecret     string
	CreatedAt           time.Time `gorm:"index"`
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (DBUser) TableName() string { return "users" }

func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := toDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByEmail implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toDomain(&dbUser), nil
}

// FindByUsername implements domain.UserRepository.
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toDomain(&dbUser), nil
}

// Update implements domain.UserRepository.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(toDB(user)).Error
}

// ExistsByEmail implements domain.UserRepository.
func (r *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func toDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:                  user.ID,
		Email:               user.Email,
		Username:            user.Username,
		PasswordHash:        user.PasswordHash,
		Roles:               user.Roles,
		Active:              user.Active,
		VerificationPending: user.VerificationPending,
		FirstLogin:          user.FirstLogin,
		TwoFactorEnabled:    user.TwoFactorEnabled,
		TwoFactorSecret:     user.TwoFactorSecret,
	}
}

func toDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                  dbUser.ID,
		Email:               dbUser.Email,
		Username:            dbUser.Username,
		PasswordHash:        dbUser.PasswordHash,
		Roles:               dbUser.Roles,
		Active:              dbUser.Active,
		VerificationPending: dbUser.VerificationPending,
		FirstLogin:          dbUser.FirstLogin,
		TwoFactorEnabled:    dbUser.TwoFactorEnabled,
		TwoFactorSecret:     dbUser.TwoFactorSecret,
		CreatedAt:           dbUser.CreatedAt,
		UpdatedAt:           dbUser.UpdatedAt,
	}
}
