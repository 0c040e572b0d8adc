package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
)

// StorageKey is where the current principal is persisted.
const StorageKey = "woundashare_user"

// State is the holder's view of who is signed in.
type State int

const (
	// StateLoading means Init has not finished; identity is unknown.
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Holder owns the current principal for one session. It is the only writer
// of that principal and of its persisted copy.
type Holder struct {
	mu        sync.RWMutex
	storage   ports.SessionStorage
	directory ports.CredentialDirectory
	latency   time.Duration
	sleep     func(time.Duration)
	logger    zerolog.Logger

	state   State
	current *domain.Principal
}

// Option configures a Holder.
type Option func(*Holder)

// WithLatency delays Login and Register by d.
func WithLatency(d time.Duration) Option {
	return func(h *Holder) { h.latency = d }
}

func NewHolder(storage ports.SessionStorage, directory ports.CredentialDirectory, logger zerolog.Logger, opts ...Option) *Holder {
	h := &Holder{
		storage:   storage,
		directory: directory,
		sleep:     time.Sleep,
		logger:    logger,
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Init restores a persisted principal. A record that cannot be decoded is
// removed and the session starts anonymous.
func (h *Holder) Init(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	raw, found, err := h.storage.GetItem(ctx, StorageKey)
	if err != nil {
		h.setAnonymous()
		return fmt.Errorf("restore session: %w", err)
	}
	if !found {
		h.setAnonymous()
		return nil
	}

	var p domain.Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID == "" {
		h.logger.Warn().Err(err).Msg("discarding corrupt session record")
		if rmErr := h.storage.RemoveItem(ctx, StorageKey); rmErr != nil {
			h.logger.Error().Err(rmErr).Msg("failed to remove corrupt session record")
		}
		h.setAnonymous()
		return nil
	}

	h.current = &p
	h.state = StateAuthenticated
	return nil
}

// Login checks the credentials and makes the matching principal current.
// On failure the current principal is left as it was.
func (h *Holder) Login(ctx context.Context, email, password string) (*domain.Principal, error) {
	h.wait()

	p, err := h.directory.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.persist(ctx, p); err != nil {
		return nil, err
	}
	h.logger.Info().Str("user_id", p.ID).Bool("is_admin", p.IsAdmin).Msg("logged in")
	return clonePrincipal(p), nil
}

// Register creates a non-admin principal and makes it current.
func (h *Holder) Register(ctx context.Context, email, password, name string) (*domain.Principal, error) {
	h.wait()

	p, err := h.directory.NewPrincipal(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.persist(ctx, p); err != nil {
		return nil, err
	}
	h.logger.Info().Str("user_id", p.ID).Msg("registered")
	return clonePrincipal(p), nil
}

// Logout clears the current principal and its persisted copy. Storage
// failures are logged, never returned.
func (h *Holder) Logout(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil {
		h.logger.Info().Str("user_id", h.current.ID).Msg("logged out")
	}
	h.setAnonymous()
	if err := h.storage.RemoveItem(ctx, StorageKey); err != nil {
		h.logger.Error().Err(err).Msg("failed to remove session record")
	}
}

// Current returns a copy of the signed-in principal, or nil.
func (h *Holder) Current() *domain.Principal {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clonePrincipal(h.current)
}

func (h *Holder) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Holder) IsAdmin() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current != nil && h.current.IsAdmin
}

// persist must be called with mu held.
func (h *Holder) persist(ctx context.Context, p *domain.Principal) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode principal: %w", err)
	}
	if err := h.storage.SetItem(ctx, StorageKey, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	h.current = clonePrincipal(p)
	h.state = StateAuthenticated
	return nil
}

func (h *Holder) setAnonymous() {
	h.current = nil
	h.state = StateAnonymous
}

func (h *Holder) wait() {
	if h.latency > 0 {
		h.sleep(h.latency)
	}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
