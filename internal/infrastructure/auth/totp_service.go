package auth

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod     = 30
	totpSecretSize = 20
	// totpSkew widens verification to the adjacent time steps, so a code
	// is accepted for one step either side of now to tolerate clock
	// drift between issuer and verifier.
	totpSkew = 1
)

// TOTPService implements domain.TwoFactorService. Codes are a pure
// function of the shared secret and the current 30s time step; no store
// is involved.
type TOTPService struct {
	issuer string
}

func NewTOTPService(issuer string) *TOTPService {
	return &TOTPService{issuer: issuer}
}

// GenerateSecret implements domain.TwoFactorService. The secret is 20
// random bytes, base32-encoded without padding for provisioning apps.
func (s *TOTPService) GenerateSecret() (string, error) {
	buf := make([]byte, totpSecretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// CurrentCode implements domain.TwoFactorService.
func (s *TOTPService) CurrentCode(secret string) (string, error) {
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to compute totp code: %w", err)
	}
	return code, nil
}

// VerifyCode implements domain.TwoFactorService.
func (s *TOTPService) VerifyCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// ProvisioningURL implements domain.TwoFactorService, producing the
// otpauth URL encoded into enrollment QR codes.
func (s *TOTPService) ProvisioningURL(identity, secret string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s",
		url.PathEscape(s.issuer), url.PathEscape(identity), secret, url.QueryEscape(s.issuer))
}
