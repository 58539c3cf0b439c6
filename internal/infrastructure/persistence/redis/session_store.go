// Package redis provides a Redis-backed session store implementation
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/domain/session"
	"github.com/questkitchen/backend/internal/infrastructure/config"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps sessions in Redis so multiple instances can share
// them. Records carry a native TTL matching the session expiry.
type SessionStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSessionStore creates a Redis session store and verifies connectivity
func NewSessionStore(cfg *config.Config, logger *zap.Logger) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SessionStore{client: client, logger: logger}, nil
}

// Save stores a session with a TTL matching its expiry
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := sess.TTL()
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	if err := s.client.Set(ctx, sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Find retrieves a session by ID
func (s *SessionStore) Find(ctx context.Context, id string) (*session.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Redis TTL normally reaps expired records before this point
	if sess.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, session.ErrNotFound
	}

	return &sess, nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteExpired is a no-op: Redis evicts expired records via native TTLs
func (s *SessionStore) DeleteExpired(ctx context.Context) (int, error) {
	return 0, nil
}

// Close releases the underlying Redis connection pool
func (s *SessionStore) Close() error {
	return s.client.Close()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
