package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// OTPService issues and validates one-time codes scoped by
// (identity, purpose). At most one valid code exists per pair.
type OTPService interface {
	// Generate returns the currently valid code for the pair, minting a
	// fresh one only when none exists. ttlOverride <= 0 selects the
	// purpose's configured default.
	Generate(ctx context.Context, identity string, purpose OTPPurpose, ttlOverride time.Duration) (string, error)
	// Verify consumes the code on the first exact match. A mismatch
	// leaves the record intact so the caller may retry within the TTL.
	Verify(ctx context.Context, identity string, purpose OTPPurpose, code string) (bool, error)
	Clear(ctx context.Context, identity string, purpose OTPPurpose) error
}

// SessionService tracks the single active access/refresh token pair per
// identity against the shared TTL store.
type SessionService interface {
	StoreAccessToken(ctx context.Context, identity, token string, ttl time.Duration) error
	StoreRefreshToken(ctx context.Context, identity, token string, ttl time.Duration) error
	// ValidateAccessToken reports whether token is the currently active
	// access token and, when it is, extends the session window from now.
	ValidateAccessToken(ctx context.Context, identity, token string) (bool, error)
	ValidateRefreshToken(ctx context.Context, identity, token string) (bool, error)
	SessionExists(ctx context.Context, identity string) (bool, error)
	ActiveToken(ctx context.Context, identity string) (string, error)
	Invalidate(ctx context.Context, identity string) error
}

// TokenService is the stateless signed-token provider. Verification
// answers "well-formed and unexpired", never "currently active"; that
// second check belongs to SessionService.
type TokenService interface {
	IssueAccess(identity string, roles []string) (string, error)
	IssueRefresh(identity string) (string, error)
	VerifyAccess(token string) (*TokenClaims, error)
	VerifyRefresh(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// PasswordService is a pluggable one-way hash/verify capability.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TwoFactorService computes time-based one-time codes from a shared
// secret, independent of any store.
type TwoFactorService interface {
	GenerateSecret() (string, error)
	CurrentCode(secret string) (string, error)
	VerifyCode(secret, code string) bool
	ProvisioningURL(identity, secret string) string
}

// Mailer delivers messages out of band. Fire-and-forget from the
// orchestrator's perspective: a delivery failure surfaces to the caller
// but never rolls back OTP issuance.
type Mailer interface {
	Send(to, subject, body string) error
}

// AuthService drives the login/verification state machine.
type AuthService interface {
	Register(ctx context.Context, email, password string, roles []string) (*User, error)
	Login(ctx context.Context, email, password, totpCode string) (*AuthResult, error)
	Logout(ctx context.Context, identity string) error
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	VerifyAccount(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	ValidateSession(ctx context.Context, token string) (*TokenClaims, error)
}
