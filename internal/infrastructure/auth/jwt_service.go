package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you/kitchensink/domain"
)

// JWTService implements domain.TokenService with HS256 signatures.
// Verification is purely local: it answers "well-formed and unexpired",
// never "currently active". That check lives in the session service.
type JWTService struct {
	secretKey  []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTService(secretKey, issuer string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (j *JWTService) AccessTTL() time.Duration  { return j.accessTTL }
func (j *JWTService) RefreshTTL() time.Duration { return j.refreshTTL }

// IssueAccess implements domain.TokenService.
func (j *JWTService) IssueAccess(identity string, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   identity,
		"roles": roles,
		"iss":   j.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(j.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// IssueRefresh implements domain.TokenService. Refresh tokens carry no
// role claim; roles are re-read from the user store on refresh.
func (j *JWTService) IssueRefresh(identity string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": identity,
		"iss": j.issuer,
		"iat": now.Unix(),
		"exp": now.Add(j.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// VerifyAccess implements domain.TokenService.
func (j *JWTService) VerifyAccess(token string) (*domain.TokenClaims, error) {
	return j.verify(token)
}

// VerifyRefresh implements domain.TokenService.
func (j *JWTService) VerifyRefresh(token string) (*domain.TokenClaims, error) {
	return j.verify(token)
}

func (j *JWTService) verify(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	})
	if err != nil {
		// Expired is kept distinct from malformed: expiry prompts a
		// re-login, a bad signature may indicate tampering.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenMalformed
	}
	if !token.Valid {
		return nil, domain.ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	identity, ok := claims["sub"].(string)
	if !ok || identity == "" {
		return nil, domain.ErrTokenMalformed
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	out := &domain.TokenClaims{
		Identity:  identity,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}
	if raw, ok := claims["roles"].([]interface{}); ok {
		roles := make([]string, 0, len(raw))
		for _, r := range raw {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
		out.Roles = roles
	}
	return out, nil
}
