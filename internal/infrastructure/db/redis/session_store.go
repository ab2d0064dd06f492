// Package redis provides the Redis-backed persisted session storage.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

const (
	defaultTimeout = 5 * time.Second
	identityKey    = "fitpulse:session:identity"
	tokenKey       = "fitpulse:session:token"
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// SessionStore persists the identity blob and the bearer token under two
// dedicated keys. No TTL: the session survives until explicitly cleared.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) ReadIdentity(ctx context.Context) ([]byte, error) {
	blob, err := s.client.Get(ctx, identityKey).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}
	return blob, nil
}

func (s *SessionStore) WriteIdentity(ctx context.Context, blob []byte) error {
	if err := s.client.Set(ctx, identityKey, blob, 0).Err(); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}

func (s *SessionStore) ReadToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, tokenKey).Result()
	if err == redis.Nil {
		return "", domain.ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

func (s *SessionStore) WriteToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, tokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear removes both keys together.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, identityKey, tokenKey).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
