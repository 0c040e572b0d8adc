package memory

import (
	"context"
	"sync"

	"github.com/woundashare/report-service/internal/core/ports"
)

// SessionStorage is a process-local key/value store.
type SessionStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{items: make(map[string]string)}
}

func (s *SessionStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *SessionStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *SessionStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// SessionStore keeps one SessionStorage per session id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*SessionStorage
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*SessionStorage)}
}

func (s *SessionStore) ForSession(sessionID string) ports.SessionStorage {
	s.mu.Lock()
	defer s.mu.Unlock()

	storage, ok := s.sessions[sessionID]
	if !ok {
		storage = NewSessionStorage()
		s.sessions[sessionID] = storage
	}
	return storage
}
