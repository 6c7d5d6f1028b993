package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/store"
)

// SessionStore implements store.SessionStore with a map guarded by a mutex.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.User
	logger   *slog.Logger
}

// Ensure SessionStore implements store.SessionStore interface
var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty SessionStore.
func NewSessionStore(logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions: make(map[uuid.UUID]*domain.User),
		logger:   logger.With(slog.String("component", "memory_session_store")),
	}
}

// Create implements store.SessionStore.Create
func (s *SessionStore) Create(ctx context.Context, user *domain.User) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}
	if user == nil {
		return uuid.Nil, store.NewStoreError("session", "create", "user cannot be nil", domain.ErrValidation)
	}

	id := uuid.New()

	s.mu.Lock()
	s.sessions[id] = user
	s.mu.Unlock()

	s.logger.Debug("session created",
		slog.String("session_id", id.String()),
		slog.String("username", user.Username))
	return id, nil
}

// Get implements store.SessionStore.Get
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return user, nil
}

// Delete implements store.SessionStore.Delete
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return store.ErrSessionNotFound
	}
	delete(s.sessions, id)

	s.logger.Debug("session deleted", slog.String("session_id", id.String()))
	return nil
}
