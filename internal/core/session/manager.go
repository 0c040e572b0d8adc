package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/woundashare/report-service/internal/core/ports"
)

// ErrNoSession is returned by Manager.Restore when the session id has no
// persisted principal.
var ErrNoSession = errors.New("session not found")

// StorageFactory hands out storage scoped to one session id.
type StorageFactory interface {
	ForSession(sessionID string) ports.SessionStorage
}

// Manager builds holders bound to a session id, so one process can serve
// many independent sessions.
type Manager struct {
	storage   StorageFactory
	directory ports.CredentialDirectory
	latency   time.Duration
	logger    zerolog.Logger
}

func NewManager(storage StorageFactory, directory ports.CredentialDirectory, latency time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{storage: storage, directory: directory, latency: latency, logger: logger}
}

// Open returns an initialised holder for sessionID. A fresh id yields an
// anonymous holder.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Holder, error) {
	h := NewHolder(
		m.storage.ForSession(sessionID),
		m.directory,
		m.logger.With().Str("session_id", sessionID).Logger(),
		WithLatency(m.latency),
	)
	if err := h.Init(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Restore opens sessionID and fails with ErrNoSession unless a principal
// is signed in.
func (m *Manager) Restore(ctx context.Context, sessionID string) (*Holder, error) {
	h, err := m.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if h.State() != StateAuthenticated {
		return nil, ErrNoSession
	}
	return h, nil
}
