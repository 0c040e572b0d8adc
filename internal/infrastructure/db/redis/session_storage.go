package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/woundashare/report-service/internal/core/ports"
)

// SessionStore keeps session records in Redis, one key per session id.
// Key format: <item key>:<session id>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. Records expire after ttl; a zero
// ttl keeps them until removed.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// ForSession returns storage scoped to sessionID.
func (s *SessionStore) ForSession(sessionID string) ports.SessionStorage {
	return &sessionStorage{store: s, sessionID: sessionID}
}

type sessionStorage struct {
	store     *SessionStore
	sessionID string
}

func (s *sessionStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.store.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get: %w", err)
	}
	return v, true, nil
}

func (s *sessionStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.store.client.Set(ctx, s.key(key), value, s.store.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *sessionStorage) RemoveItem(ctx context.Context, key string) error {
	if err := s.store.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("session remove: %w", err)
	}
	return nil
}

func (s *sessionStorage) key(item string) string {
	return item + ":" + s.sessionID
}
