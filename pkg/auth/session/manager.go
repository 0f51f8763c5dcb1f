package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/priyansupat/farmdirect-backend/pkg/config"
	redisclient "github.com/priyansupat/farmdirect-backend/pkg/redis"
)

const refreshTokenBytes = 32

// ErrInvalidRefreshToken covers every refresh failure the client may see:
// unknown access id, expired session, or a token that does not match.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// backend is the slice of the redis client the manager needs.
type backend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// Manager stores one refresh token per access id (the JWT jti). Logout and
// rotation both work by deleting that mapping; an access token whose jti has
// no mapping is treated as signed out even before it expires.
type Manager struct {
	redis backend
	ttl   time.Duration
}

// AccessSessionChecker is the read-only surface the auth middleware needs.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager validates the TTL configuration and binds the redis client.
// The refresh TTL must outlive the access token or every refresh would find
// its session already gone.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	if accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute; ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{redis: client, ttl: ttl}, nil
}

// NewAccessID mints the identifier shared by the JWT jti and the redis key.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate issues and stores a fresh refresh token for accessID.
func (m *Manager) Generate(ctx context.Context, accessID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	token, err := mintRefreshToken()
	if err != nil {
		return "", err
	}
	if err := m.redis.Set(ctx, m.redis.AccessSessionKey(accessID), token, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Rotate exchanges a valid (accessID, refresh token) pair for a new one and
// retires the old session. The comparison is constant-time; a mismatch or a
// missing session both come back as ErrInvalidRefreshToken.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}

	oldKey := m.redis.AccessSessionKey(oldAccessID)
	stored, err := m.redis.Get(ctx, oldKey)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return "", "", ErrInvalidRefreshToken
	}

	accessID := NewAccessID()
	token, err := mintRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := m.redis.Set(ctx, m.redis.AccessSessionKey(accessID), token, m.ttl); err != nil {
		return "", "", err
	}
	if err := m.redis.Del(ctx, oldKey); err != nil {
		return "", "", err
	}
	return accessID, token, nil
}

// Revoke ends the session tied to accessID. Deleting an already-absent key
// is not an error, so logout is idempotent.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.redis.Del(ctx, m.redis.AccessSessionKey(accessID))
}

// HasSession reports whether accessID still maps to a live refresh session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.redis.Get(ctx, m.redis.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func mintRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
