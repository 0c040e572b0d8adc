package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
)

type mapStorage struct {
	mu      sync.Mutex
	items   map[string]string
	failGet error
	failSet error
	failDel error
}

func newMapStorage() *mapStorage { return &mapStorage{items: map[string]string{}} }

func (s *mapStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return "", false, s.failGet
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *mapStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet != nil {
		return s.failSet
	}
	s.items[key] = value
	return nil
}

func (s *mapStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel != nil {
		return s.failDel
	}
	delete(s.items, key)
	return nil
}

type stubDirectory struct{}

var (
	adminPrincipal   = domain.Principal{ID: "admin-1", Email: "admin@woundashare.com", Name: "Admin User", IsAdmin: true}
	patientPrincipal = domain.Principal{ID: "user-1", Email: "user@example.com", Name: "Demo Patient"}
)

func (stubDirectory) Authenticate(_ context.Context, email, password string) (*domain.Principal, error) {
	switch {
	case email == adminPrincipal.Email && password == "admin123":
		p := adminPrincipal
		return &p, nil
	case email == patientPrincipal.Email && password == "user123":
		p := patientPrincipal
		return &p, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func (stubDirectory) NewPrincipal(_ context.Context, email, _, name string) (*domain.Principal, error) {
	return &domain.Principal{ID: "user-new", Email: email, Name: name}, nil
}

func newHolder(t *testing.T, storage *mapStorage) *Holder {
	t.Helper()
	h := NewHolder(storage, stubDirectory{}, zerolog.Nop())
	require.Equal(t, StateLoading, h.State())
	require.NoError(t, h.Init(context.Background()))
	return h
}

func TestHolder_InitEmptyIsAnonymous(t *testing.T) {
	h := newHolder(t, newMapStorage())

	assert.Equal(t, StateAnonymous, h.State())
	assert.Nil(t, h.Current())
	assert.False(t, h.IsAdmin())
}

func TestHolder_LoadingUntilInit(t *testing.T) {
	h := NewHolder(newMapStorage(), stubDirectory{}, zerolog.Nop())

	assert.Equal(t, StateLoading, h.State())
	assert.Equal(t, "loading", h.State().String())
	assert.Nil(t, h.Current())
}

func TestHolder_LoginAdminPersists(t *testing.T) {
	storage := newMapStorage()
	h := newHolder(t, storage)

	p, err := h.Login(context.Background(), "admin@woundashare.com", "admin123")
	require.NoError(t, err)
	assert.True(t, p.IsAdmin)
	assert.True(t, h.IsAdmin())
	assert.Equal(t, StateAuthenticated, h.State())

	var stored domain.Principal
	require.NoError(t, json.Unmarshal([]byte(storage.items[StorageKey]), &stored))
	assert.Equal(t, adminPrincipal, stored)
}

func TestHolder_FailedLoginLeavesCurrentUnchanged(t *testing.T) {
	storage := newMapStorage()
	h := newHolder(t, storage)

	_, err := h.Login(context.Background(), "user@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, h.Current())
	assert.Empty(t, storage.items)

	_, err = h.Login(context.Background(), "user@example.com", "user123")
	require.NoError(t, err)
	_, err = h.Login(context.Background(), "admin@woundashare.com", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, "user-1", h.Current().ID)
}

func TestHolder_RestoreAcrossHolders(t *testing.T) {
	storage := newMapStorage()
	first := newHolder(t, storage)
	_, err := first.Login(context.Background(), "user@example.com", "user123")
	require.NoError(t, err)

	second := newHolder(t, storage)
	assert.Equal(t, StateAuthenticated, second.State())
	assert.Equal(t, patientPrincipal, *second.Current())
}

func TestHolder_CorruptRecordIsDiscarded(t *testing.T) {
	storage := newMapStorage()
	storage.items[StorageKey] = "{not json"

	h := newHolder(t, storage)
	assert.Equal(t, StateAnonymous, h.State())
	assert.NotContains(t, storage.items, StorageKey)
}

func TestHolder_InitStorageError(t *testing.T) {
	storage := newMapStorage()
	storage.failGet = errors.New("connection refused")

	h := NewHolder(storage, stubDirectory{}, zerolog.Nop())
	assert.Error(t, h.Init(context.Background()))
	assert.Equal(t, StateAnonymous, h.State())
}

func TestHolder_RegisterIsNeverAdmin(t *testing.T) {
	storage := newMapStorage()
	h := newHolder(t, storage)

	p, err := h.Register(context.Background(), "jane@example.com", "secret1", "Jane Doe")
	require.NoError(t, err)
	assert.False(t, p.IsAdmin)
	assert.Equal(t, "Jane Doe", h.Current().Name)
	assert.Contains(t, storage.items, StorageKey)
}

func TestHolder_PersistFailureKeepsPreviousPrincipal(t *testing.T) {
	storage := newMapStorage()
	h := newHolder(t, storage)
	storage.failSet = errors.New("disk full")

	_, err := h.Login(context.Background(), "user@example.com", "user123")
	assert.Error(t, err)
	assert.Nil(t, h.Current())
	assert.Equal(t, StateAnonymous, h.State())
}

func TestHolder_LogoutClearsEverything(t *testing.T) {
	storage := newMapStorage()
	h := newHolder(t, storage)
	_, err := h.Login(context.Background(), "admin@woundashare.com", "admin123")
	require.NoError(t, err)

	h.Logout(context.Background())
	assert.Nil(t, h.Current())
	assert.Equal(t, StateAnonymous, h.State())
	assert.Empty(t, storage.items)
}

func TestHolder_LogoutSwallowsStorageErrors(t *testing.T) {
	storage := newMapStorage()
	h := newHolder(t, storage)
	_, _ = h.Login(context.Background(), "user@example.com", "user123")
	storage.failDel = errors.New("connection reset")

	h.Logout(context.Background())
	assert.Nil(t, h.Current())
}

func TestHolder_CurrentReturnsCopy(t *testing.T) {
	h := newHolder(t, newMapStorage())
	_, _ = h.Login(context.Background(), "user@example.com", "user123")

	h.Current().IsAdmin = true
	assert.False(t, h.IsAdmin())
}

func TestHolder_LatencyAppliesToLogin(t *testing.T) {
	h := NewHolder(newMapStorage(), stubDirectory{}, zerolog.Nop(), WithLatency(time.Second))
	var slept time.Duration
	h.sleep = func(d time.Duration) { slept += d }
	require.NoError(t, h.Init(context.Background()))

	_, _ = h.Login(context.Background(), "user@example.com", "user123")
	assert.Equal(t, time.Second, slept)
}

type mapFactory struct {
	sessions map[string]*mapStorage
}

func (f *mapFactory) ForSession(sid string) ports.SessionStorage {
	s, ok := f.sessions[sid]
	if !ok {
		s = newMapStorage()
		f.sessions[sid] = s
	}
	return s
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	factory := &mapFactory{sessions: map[string]*mapStorage{}}
	m := NewManager(factory, stubDirectory{}, 0, zerolog.Nop())
	ctx := context.Background()

	a, err := m.Open(ctx, "sid-a")
	require.NoError(t, err)
	_, err = a.Login(ctx, "admin@woundashare.com", "admin123")
	require.NoError(t, err)

	b, err := m.Open(ctx, "sid-b")
	require.NoError(t, err)
	assert.Equal(t, StateAnonymous, b.State())

	restored, err := m.Restore(ctx, "sid-a")
	require.NoError(t, err)
	assert.True(t, restored.IsAdmin())
}

func TestManager_RestoreAfterLogout(t *testing.T) {
	factory := &mapFactory{sessions: map[string]*mapStorage{}}
	m := NewManager(factory, stubDirectory{}, 0, zerolog.Nop())
	ctx := context.Background()

	h, _ := m.Open(ctx, "sid-a")
	_, _ = h.Login(ctx, "user@example.com", "user123")
	h.Logout(ctx)

	_, err := m.Restore(ctx, "sid-a")
	assert.ErrorIs(t, err, ErrNoSession)
}
