package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore remembers revoked access tokens and counts login attempts.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// AllowLogin counts one attempt for key and reports whether it is within the limit.
	AllowLogin(ctx context.Context, key string) (bool, error)
}

// NoopSessionStore is used when Redis is not configured: logout is client-side
// only and logins are not throttled.
type NoopSessionStore struct{}

func (NoopSessionStore) Revoke(context.Context, string, time.Time) error { return nil }
func (NoopSessionStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
func (NoopSessionStore) AllowLogin(context.Context, string) (bool, error) { return true, nil }

type RedisSessionStore struct {
	Client      *redis.Client
	Prefix      string
	LoginLimit  int64
	LoginWindow time.Duration
}

func NewRedisSessionStore(client *redis.Client, loginLimit int, loginWindow time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		Client:      client,
		Prefix:      "hotel:",
		LoginLimit:  int64(loginLimit),
		LoginWindow: loginWindow,
	}
}

func (s *RedisSessionStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.Client.Set(ctx, s.Prefix+"revoked:"+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.Client.Get(ctx, s.Prefix+"revoked:"+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return true, nil
}

// AllowLogin is a fixed-window counter: INCR, and set the expiry on the first hit.
func (s *RedisSessionStore) AllowLogin(ctx context.Context, key string) (bool, error) {
	if s.LoginLimit <= 0 {
		return true, nil
	}
	k := s.Prefix + "login:" + key
	pipe := s.Client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, s.LoginWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("count login attempt: %w", err)
	}
	return incr.Val() <= s.LoginLimit, nil
}
