package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/you/kitchensink/domain"
)

func createJWTServiceForTest(t *testing.T) *JWTService {
	t.Helper()
	return NewJWTService("test-secret-key", "kitchensink", 15*time.Minute, 7*24*time.Hour)
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := createJWTServiceForTest(t)

	token, err := svc.IssueAccess("user@example.com", []string{"user", "admin"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Identity != "user@example.com" {
		t.Errorf("expected identity user@example.com, got %s", claims.Identity)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "user" || claims.Roles[1] != "admin" {
		t.Errorf("expected roles [user admin], got %v", claims.Roles)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Error("expected expiry after issuance")
	}

	ttl := time.Unix(claims.ExpiresAt, 0).Sub(time.Unix(claims.IssuedAt, 0))
	if ttl != 15*time.Minute {
		t.Errorf("expected 15m access lifetime, got %v", ttl)
	}
}

func TestJWTService_RefreshTokenCarriesNoRoles(t *testing.T) {
	svc := createJWTServiceForTest(t)

	token, err := svc.IssueRefresh("user@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := svc.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Identity != "user@example.com" {
		t.Errorf("expected identity user@example.com, got %s", claims.Identity)
	}
	if len(claims.Roles) != 0 {
		t.Errorf("refresh token must not carry roles, got %v", claims.Roles)
	}
}

func TestJWTService_Verify_Errors(t *testing.T) {
	svc := createJWTServiceForTest(t)

	tests := []struct {
		name        string
		token       func(t *testing.T) string
		expectedErr error
	}{
		{
			name: "garbage token is malformed",
			token: func(t *testing.T) string {
				return "not.a.jwt"
			},
			expectedErr: domain.ErrTokenMalformed,
		},
		{
			name: "token signed with another key is malformed",
			token: func(t *testing.T) string {
				other := NewJWTService("different-secret", "kitchensink", 15*time.Minute, time.Hour)
				token, err := other.IssueAccess("user@example.com", nil)
				if err != nil {
					t.Fatalf("issue failed: %v", err)
				}
				return token
			},
			expectedErr: domain.ErrTokenMalformed,
		},
		{
			name: "expired token is reported as expired",
			token: func(t *testing.T) string {
				expired := NewJWTService("test-secret-key", "kitchensink", -time.Minute, time.Hour)
				token, err := expired.IssueAccess("user@example.com", nil)
				if err != nil {
					t.Fatalf("issue failed: %v", err)
				}
				return token
			},
			expectedErr: domain.ErrTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccess(tt.token(t))
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestJWTService_TTLAccessors(t *testing.T) {
	svc := NewJWTService("k", "iss", 10*time.Minute, 48*time.Hour)
	if svc.AccessTTL() != 10*time.Minute {
		t.Errorf("expected 10m, got %v", svc.AccessTTL())
	}
	if svc.RefreshTTL() != 48*time.Hour {
		t.Errorf("expected 48h, got %v", svc.RefreshTTL())
	}
}
