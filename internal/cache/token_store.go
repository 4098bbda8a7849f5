package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"lenshive/internal/config"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked-token:"

// TokenStore keeps revoked token ids in redis until the tokens would have
// expired on their own. A nil store is valid and means logout is stateless.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore connects to redis when an address is configured; it returns
// (nil, nil) otherwise so callers can treat the store as optional.
func NewTokenStore(cfg config.Config) (*TokenStore, error) {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &TokenStore{client: client}, nil
}

// RevokeToken marks a token id as revoked for the remainder of its lifetime.
func (s *TokenStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	trimmed := strings.TrimSpace(jti)
	if trimmed == "" {
		return errors.New("token id is empty")
	}
	if ttl <= 0 {
		// Already past its expiry; nothing to remember.
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+trimmed, "1", ttl).Err()
}

// IsTokenRevoked reports whether the token id has been revoked.
func (s *TokenStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	trimmed := strings.TrimSpace(jti)
	if trimmed == "" {
		return false, nil
	}
	_, err := s.client.Get(ctx, revokedKeyPrefix+trimmed).Result()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, err
}
