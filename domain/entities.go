package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User represents an account. Persistence mapping lives on the
// repository's own model, not here.
type User struct {
	ID                  uint
	Email               string
	Username            string
	PasswordHash        string
	Roles               RoleList
	Active              bool
	VerificationPending bool
	FirstLogin          bool
	TwoFactorEnabled    bool
	TwoFactorSecret     string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RoleList stores a user's roles as a JSON array column.
type RoleList []string

func (r RoleList) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (r *RoleList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported role list type %T", src)
	}
}

// OTPPurpose scopes a one-time code to the flow it was issued for.
// The set is closed: the OTP service rejects purposes it was not
// configured with.
type OTPPurpose string

const (
	PurposeAccountVerification OTPPurpose = "ACCOUNT_VERIFICATION"
	PurposeForgotPassword      OTPPurpose = "FORGOT_PASSWORD"
)

// AuthStatus is the outcome of a login attempt. Only StatusAuthenticated
// carries tokens; the others describe why none were minted.
type AuthStatus string

const (
	StatusCredentialsRejected AuthStatus = "CREDENTIALS_REJECTED"
	StatusAccountInactive     AuthStatus = "ACCOUNT_INACTIVE"
	StatusVerificationPending AuthStatus = "VERIFICATION_PENDING"
	StatusTwoFactorRequired   AuthStatus = "TWO_FACTOR_REQUIRED"
	StatusAuthenticated       AuthStatus = "AUTHENTICATED"
)

// AuthResult represents a resolved login attempt.
type AuthResult struct {
	Status       AuthStatus
	Identity     string
	Roles        []string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenPair is returned by the refresh flow.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenClaims carries the verified payload of a signed token.
type TokenClaims struct {
	Identity  string
	Roles     []string
	IssuedAt  int64
	ExpiresAt int64
}

// TwoFactorSetup is handed back to a user enrolling a second factor.
type TwoFactorSetup struct {
	Secret          string
	ProvisioningURL string
}
