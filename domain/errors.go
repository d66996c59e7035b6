package domain

import "errors"

// Credential and account errors. ErrInvalidCredentials covers both
// unknown identity and wrong password so callers cannot probe which
// accounts exist.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// OTP errors
var (
	ErrInvalidOTP        = errors.New("invalid or expired otp")
	ErrUnknownOTPPurpose = errors.New("unknown otp purpose")
)

// Token errors. Expired and malformed are kept distinct: the former
// should prompt a re-login, the latter may indicate tampering.
var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed or invalid token")
)

// Session errors. A well-formed, unexpired token that no longer matches
// the stored record resolves to ErrSessionExpired; superseded and
// expired sessions are deliberately indistinguishable.
var (
	ErrSessionExpired = errors.New("session has expired")
)

// Two-factor errors
var (
	ErrTwoFactorNotConfigured = errors.New("two-factor authentication not configured")
	ErrTwoFactorCodeInvalid   = errors.New("invalid two-factor code")
)
