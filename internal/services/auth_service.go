package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/kitchensink/domain"
)

const (
	accountVerificationSubject = "Verify your account"
	accountVerificationBody    = "Hello %s,\n\nYour account verification code is: %s\n\nThe code expires shortly, please use it promptly."

	// maxUsernameAttempts bounds the suffix retry loop; distinct emails
	// sharing a local part are routine, ten collisions in a row are not.
	maxUsernameAttempts = 10
)

// AuthServiceImpl implements domain.AuthService. It owns the login
// state machine and composes the OTP, session, token, password and
// two-factor services; it holds no state of its own.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	otpSvc      domain.OTPService
	sessionSvc  domain.SessionService
	tokenSvc    domain.TokenService
	passwordSvc domain.PasswordService
	twoFactor   domain.TwoFactorService
	mailer      domain.Mailer
	log         *logrus.Logger
}

func NewAuthService(
	userRepo domain.UserRepository,
	otpSvc domain.OTPService,
	sessionSvc domain.SessionService,
	tokenSvc domain.TokenService,
	passwordSvc domain.PasswordService,
	twoFactor domain.TwoFactorService,
	mailer domain.Mailer,
	log *logrus.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		otpSvc:      otpSvc,
		sessionSvc:  sessionSvc,
		tokenSvc:    tokenSvc,
		passwordSvc: passwordSvc,
		twoFactor:   twoFactor,
		mailer:      mailer,
		log:         log,
	}
}

// Register implements domain.AuthService. New accounts start with
// verification pending; the verification code is issued and mailed
// immediately. A mail failure surfaces as an error but the issued code
// stays in the store.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string, roles []string) (*domain.User, error) {
	email = strings.ToLower(email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if len(roles) == 0 {
		roles = []string{"user"}
	}
	username, err := s.uniqueUsername(ctx, email)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:               email,
		Username:            username,
		PasswordHash:        hashed,
		Roles:               roles,
		Active:              true,
		VerificationPending: true,
		FirstLogin:          true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	code, err := s.otpSvc.Generate(ctx, email, domain.PurposeAccountVerification, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification otp: %w", err)
	}
	if err := s.mailer.Send(email, accountVerificationSubject, fmt.Sprintf(accountVerificationBody, user.Username, code)); err != nil {
		return nil, fmt.Errorf("failed to send verification mail: %w", err)
	}
	return user, nil
}

// Login implements domain.AuthService. The attempt resolves to exactly
// one of the five states; tokens are minted only for Authenticated.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, totpCode string) (*domain.AuthResult, error) {
	email = strings.ToLower(email)

	// Unknown identity and wrong password are the same outcome so the
	// response never reveals which accounts exist.
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return &domain.AuthResult{Status: domain.StatusCredentialsRejected}, nil
		}
		return nil, err
	}
	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return &domain.AuthResult{Status: domain.StatusCredentialsRejected}, nil
	}

	if !user.Active {
		return &domain.AuthResult{Status: domain.StatusAccountInactive, Identity: email}, nil
	}

	if user.VerificationPending {
		return s.verificationPending(ctx, user)
	}

	if user.TwoFactorEnabled {
		if totpCode == "" || !s.twoFactor.VerifyCode(user.TwoFactorSecret, totpCode) {
			return &domain.AuthResult{Status: domain.StatusTwoFactorRequired, Identity: email}, nil
		}
	}

	return s.establishSession(ctx, user)
}

// verificationPending re-issues the account verification code, mails
// it, and clears the first-login flag to record that a login was
// already attempted. No session is minted in this state.
func (s *AuthServiceImpl) verificationPending(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	code, err := s.otpSvc.Generate(ctx, user.Email, domain.PurposeAccountVerification, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification otp: %w", err)
	}

	if user.FirstLogin {
		user.FirstLogin = false
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to clear first-login flag: %w", err)
		}
	}

	if err := s.mailer.Send(user.Email, accountVerificationSubject, fmt.Sprintf(accountVerificationBody, user.Username, code)); err != nil {
		return nil, fmt.Errorf("failed to send verification mail: %w", err)
	}
	return &domain.AuthResult{Status: domain.StatusVerificationPending, Identity: user.Email}, nil
}

// establishSession mints the token pair and persists it as the single
// active session. An earlier session for the same identity is silently
// superseded by these writes.
func (s *AuthServiceImpl) establishSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	accessToken, err := s.tokenSvc.IssueAccess(user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, err := s.tokenSvc.IssueRefresh(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.sessionSvc.StoreAccessToken(ctx, user.Email, accessToken, s.tokenSvc.AccessTTL()); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}
	if err := s.sessionSvc.StoreRefreshToken(ctx, user.Email, refreshToken, s.tokenSvc.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.log.WithField("identity", user.Email).Info("session established")
	return &domain.AuthResult{
		Status:       domain.StatusAuthenticated,
		Identity:     user.Email,
		Roles:        user.Roles,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL() / time.Second),
	}, nil
}

// Logout implements domain.AuthService. Idempotent: tearing down an
// absent session is not an error.
func (s *AuthServiceImpl) Logout(ctx context.Context, identity string) error {
	return s.sessionSvc.Invalidate(ctx, strings.ToLower(identity))
}

// Refresh implements domain.AuthService. The token must be both
// cryptographically valid and the currently stored refresh record; any
// mismatch resolves to ErrSessionExpired. The refresh token itself is
// not rotated, only a fresh access token is minted and persisted.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenSvc.VerifyRefresh(refreshToken)
	if err != nil {
		if err == domain.ErrTokenExpired {
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}

	matches, err := s.sessionSvc.ValidateRefreshToken(ctx, claims.Identity, refreshToken)
	if err != nil {
		return nil, err
	}
	if !matches {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Identity)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}

	accessToken, err := s.tokenSvc.IssueAccess(user.Email, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	if err := s.sessionSvc.StoreAccessToken(ctx, user.Email, accessToken, s.tokenSvc.AccessTTL()); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL() / time.Second),
	}, nil
}

// VerifyAccount implements domain.AuthService, consuming the
// verification code and clearing the pending flag.
func (s *AuthServiceImpl) VerifyAccount(ctx context.Context, email, code string) error {
	email = strings.ToLower(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.otpSvc.Verify(ctx, email, domain.PurposeAccountVerification, code)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOTP
	}

	user.VerificationPending = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to mark account verified: %w", err)
	}
	s.log.WithField("identity", email).Info("account verified")
	return nil
}

// ResendVerification implements domain.AuthService. A still-valid code
// is re-sent unchanged; a fresh one is minted only after the old one
// expired or was consumed.
func (s *AuthServiceImpl) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.VerificationPending {
		return nil
	}

	code, err := s.otpSvc.Generate(ctx, email, domain.PurposeAccountVerification, 0)
	if err != nil {
		return fmt.Errorf("failed to issue verification otp: %w", err)
	}
	if err := s.mailer.Send(email, accountVerificationSubject, fmt.Sprintf(accountVerificationBody, user.Username, code)); err != nil {
		return fmt.Errorf("failed to send verification mail: %w", err)
	}
	return nil
}

// ValidateSession implements domain.AuthService. Two deliberately
// separate checks: the stateless signature/expiry verification, then
// the store-backed "is this the currently active token" check, which
// also slides the session window.
func (s *AuthServiceImpl) ValidateSession(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.tokenSvc.VerifyAccess(token)
	if err != nil {
		return nil, err
	}

	active, err := s.sessionSvc.ValidateAccessToken(ctx, claims.Identity, token)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, domain.ErrSessionExpired
	}
	return claims, nil
}

// uniqueUsername derives the username from the email's local part and
// deduplicates against existing accounts by appending a random numeric
// suffix until a free one is found. Distinct emails can share a local
// part, so collisions here are expected, not exceptional.
func (s *AuthServiceImpl) uniqueUsername(ctx context.Context, email string) (string, error) {
	base := usernameFromEmail(email)
	candidate := base
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		_, err := s.userRepo.FindByUsername(ctx, candidate)
		if err == domain.ErrUserNotFound {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check username availability: %w", err)
		}
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return "", fmt.Errorf("failed to generate username suffix: %w", err)
		}
		candidate = fmt.Sprintf("%s%04d", base, n.Int64())
	}
	return "", fmt.Errorf("could not allocate a unique username for %s", email)
}

func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
