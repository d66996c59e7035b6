package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/kitchensink/domain"
	"github.com/you/kitchensink/internal/mocks"
	"github.com/you/kitchensink/internal/services"
)

func createAuthHandlersForTest(authSvc domain.AuthService) *AuthHandlers {
	log := logrus.New()
	log.SetOutput(io.Discard)
	forgotSvc := services.NewForgotPasswordService(
		mocks.NewMockUserRepository(),
		&mocks.MockOTPService{},
		&mocks.MockPasswordService{},
		&mocks.MockMailer{},
		log,
	)
	return NewAuthHandlers(authSvc, forgotSvc)
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestAuthHandlers_Login_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		result         *domain.AuthResult
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "rejected credentials",
			result:         &domain.AuthResult{Status: domain.StatusCredentialsRejected},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "INVALID_CREDENTIALS",
		},
		{
			name:           "inactive account",
			result:         &domain.AuthResult{Status: domain.StatusAccountInactive},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "ACCOUNT_INACTIVE",
		},
		{
			name:           "verification pending",
			result:         &domain.AuthResult{Status: domain.StatusVerificationPending},
			expectedStatus: http.StatusAccepted,
			expectedCode:   "VERIFICATION_PENDING",
		},
		{
			name:           "two-factor required",
			result:         &domain.AuthResult{Status: domain.StatusTwoFactorRequired},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "TWO_FACTOR_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := &mocks.MockAuthService{
				LoginFunc: func(ctx context.Context, email, password, totpCode string) (*domain.AuthResult, error) {
					return tt.result, nil
				},
			}
			h := createAuthHandlersForTest(authSvc)

			w := performJSON(t, h.Login, "POST", "/auth/login", LoginRequest{
				Email:    "user@example.com",
				Password: "secret123",
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body["code"])
		})
	}
}

func TestAuthHandlers_Login_Authenticated(t *testing.T) {
	authSvc := &mocks.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password, totpCode string) (*domain.AuthResult, error) {
			return &domain.AuthResult{
				Status:       domain.StatusAuthenticated,
				Identity:     "user@example.com",
				Roles:        []string{"user"},
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
				ExpiresIn:    int64((15 * time.Minute).Seconds()),
			}, nil
		},
	}
	h := createAuthHandlersForTest(authSvc)

	w := performJSON(t, h.Login, "POST", "/auth/login", LoginRequest{
		Email:    "user@example.com",
		Password: "secret123",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "access-1", body["access_token"])
	assert.Equal(t, "refresh-1", body["refresh_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	assert.Equal(t, float64(900), body["expires_in"])
}

func TestAuthHandlers_Login_ValidationError(t *testing.T) {
	h := createAuthHandlersForTest(&mocks.MockAuthService{})

	w := performJSON(t, h.Login, "POST", "/auth/login", map[string]string{
		"email": "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestAuthHandlers_Register(t *testing.T) {
	tests := []struct {
		name           string
		registerErr    error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "created",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate email",
			registerErr:    domain.ErrUserAlreadyExists,
			expectedStatus: http.StatusConflict,
			expectedCode:   "USER_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := &mocks.MockAuthService{
				RegisterFunc: func(ctx context.Context, email, password string, roles []string) (*domain.User, error) {
					if tt.registerErr != nil {
						return nil, tt.registerErr
					}
					return &domain.User{Email: email, Username: "user"}, nil
				},
			}
			h := createAuthHandlersForTest(authSvc)

			w := performJSON(t, h.Register, "POST", "/auth/register", RegisterRequest{
				Email:    "user@example.com",
				Password: "secret123",
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedCode, body["code"])
			}
		})
	}
}

func TestAuthHandlers_Refresh_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		refreshErr     error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "expired session",
			refreshErr:     domain.ErrSessionExpired,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "SESSION_EXPIRED",
		},
		{
			name:           "malformed token",
			refreshErr:     domain.ErrTokenMalformed,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "INVALID_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := &mocks.MockAuthService{
				RefreshFunc: func(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
					return nil, tt.refreshErr
				},
			}
			h := createAuthHandlersForTest(authSvc)

			w := performJSON(t, h.Refresh, "POST", "/auth/refresh", RefreshRequest{RefreshToken: "t"})

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body["code"])
		})
	}
}

func TestAuthHandlers_VerifyAccount(t *testing.T) {
	tests := []struct {
		name           string
		verifyErr      error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "verified",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong code",
			verifyErr:      domain.ErrInvalidOTP,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_OR_EXPIRED_OTP",
		},
		{
			name:           "unknown account",
			verifyErr:      domain.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "USER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := &mocks.MockAuthService{
				VerifyAccountFunc: func(ctx context.Context, email, code string) error {
					return tt.verifyErr
				},
			}
			h := createAuthHandlersForTest(authSvc)

			w := performJSON(t, h.VerifyAccount, "POST", "/auth/verify-account", VerifyOTPRequest{
				Email: "user@example.com",
				Code:  "123456",
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedCode, body["code"])
			}
		})
	}
}
