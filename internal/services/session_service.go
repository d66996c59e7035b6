package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/you/kitchensink/domain"
	"github.com/you/kitchensink/internal/infrastructure/store"
)

const (
	accessTokenKeyPrefix  = "ACTIVE_ACCESS_TOKEN:"
	refreshTokenKeyPrefix = "REFRESH_TOKEN:"
)

// SessionConfig carries the session window applied on sliding refresh.
// Refresh records never slide, so their lifetime arrives per call from
// the token provider instead of living here.
type SessionConfig struct {
	AccessTTL time.Duration
}

// SessionServiceImpl implements domain.SessionService. The shared TTL
// store is the single source of truth: one access record and one
// refresh record per identity, each silently superseded by a new store.
// A token that no longer matches the stored record is indistinguishable
// from an expired one, which is what makes logout-everywhere a plain
// overwrite or delete.
type SessionServiceImpl struct {
	kv     store.KV
	config SessionConfig
	log    *logrus.Logger
}

func NewSessionService(kv store.KV, config SessionConfig, log *logrus.Logger) domain.SessionService {
	return &SessionServiceImpl{kv: kv, config: config, log: log}
}

func accessKey(identity string) string  { return accessTokenKeyPrefix + identity }
func refreshKey(identity string) string { return refreshTokenKeyPrefix + identity }

// StoreAccessToken implements domain.SessionService.
func (s *SessionServiceImpl) StoreAccessToken(ctx context.Context, identity, token string, ttl time.Duration) error {
	return store.SetValue(ctx, s.kv, accessKey(identity), store.NewValue(token, ttl))
}

// StoreRefreshToken implements domain.SessionService.
func (s *SessionServiceImpl) StoreRefreshToken(ctx context.Context, identity, token string, ttl time.Duration) error {
	return store.SetValue(ctx, s.kv, refreshKey(identity), store.NewValue(token, ttl))
}

// ValidateAccessToken implements domain.SessionService. On success the
// record's window restarts from now (sliding expiry): an idle session
// times out from its last use, not from issuance. The re-persist is
// best-effort; a lost update under a race costs one refresh, not
// correctness.
func (s *SessionServiceImpl) ValidateAccessToken(ctx context.Context, identity, token string) (bool, error) {
	key := accessKey(identity)
	value, err := store.GetValue[string](ctx, s.kv, key)
	if err != nil {
		return false, err
	}
	if value == nil {
		return false, nil
	}
	if !value.IsValid() {
		// Expired record still sitting in the store; clean it up.
		if err := s.kv.Delete(ctx, key); err != nil {
			return false, err
		}
		return false, nil
	}
	if value.Val != token {
		// Superseded by a newer login. Treated as benign staleness, not
		// a tamper signal: the concurrent-login race makes it routine.
		s.log.WithField("identity", identity).Debug("access token mismatch, session superseded")
		return false, nil
	}

	value.Refresh(s.config.AccessTTL)
	if err := store.SetValue(ctx, s.kv, key, value); err != nil {
		return false, err
	}
	return true, nil
}

// ValidateRefreshToken implements domain.SessionService. Refresh
// records are matched exactly but never slide; their lifetime is fixed
// at issuance.
func (s *SessionServiceImpl) ValidateRefreshToken(ctx context.Context, identity, token string) (bool, error) {
	key := refreshKey(identity)
	value, err := store.GetValue[string](ctx, s.kv, key)
	if err != nil {
		return false, err
	}
	if value == nil {
		return false, nil
	}
	if !value.IsValid() {
		if err := s.kv.Delete(ctx, key); err != nil {
			return false, err
		}
		return false, nil
	}
	return value.Val == token, nil
}

// SessionExists implements domain.SessionService, lazily deleting an
// expired record found on read.
func (s *SessionServiceImpl) SessionExists(ctx context.Context, identity string) (bool, error) {
	key := accessKey(identity)
	value, err := store.GetValue[string](ctx, s.kv, key)
	if err != nil {
		return false, err
	}
	if value == nil {
		return false, nil
	}
	if !value.IsValid() {
		if err := s.kv.Delete(ctx, key); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// ActiveToken implements domain.SessionService, returning "" when no
// live session exists.
func (s *SessionServiceImpl) ActiveToken(ctx context.Context, identity string) (string, error) {
	key := accessKey(identity)
	value, err := store.GetValue[string](ctx, s.kv, key)
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	if !value.IsValid() {
		if err := s.kv.Delete(ctx, key); err != nil {
			return "", err
		}
		return "", nil
	}
	return value.Val, nil
}

// Invalidate implements domain.SessionService. Both entries go in one
// variadic delete; per-key atomicity is all the store guarantees, and
// all this flow needs.
func (s *SessionServiceImpl) Invalidate(ctx context.Context, identity string) error {
	return s.kv.Delete(ctx, accessKey(identity), refreshKey(identity))
}
