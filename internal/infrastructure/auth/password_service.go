package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/you/kitchensink/domain"
)

// PasswordService implements domain.PasswordService with bcrypt.
type PasswordService struct {
	cost int
}

func NewPasswordService() domain.PasswordService {
	return &PasswordService{cost: bcrypt.DefaultCost}
}

// Hash implements domain.PasswordService.
func (p *PasswordService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify implements domain.PasswordService.
func (p *PasswordService) Verify(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
