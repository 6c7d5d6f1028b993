package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/platform/logger"
	"github.com/phrazzld/calshare/internal/store"
)

// UserStore implements store.UserStore with a map guarded by a mutex.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	order  []string
	logger *slog.Logger
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty UserStore.
func NewUserStore(logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		users:  make(map[string]*domain.User),
		logger: logger.With(slog.String("component", "memory_user_store")),
	}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user == nil {
		return store.NewStoreError("user", "create", "user cannot be nil", domain.ErrValidation)
	}
	if err := domain.ValidateUsername(user.Username); err != nil {
		return store.NewStoreError("user", "create", "invalid username", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		log.Debug("username already registered", slog.String("username", user.Username))
		return store.ErrUsernameExists
	}
	s.users[user.Username] = user
	s.order = append(s.order, user.Username)

	log.Debug("user stored",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// List implements store.UserStore.List
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.order))
	for _, username := range s.order {
		users = append(users, s.users[username])
	}
	return users, nil
}

// Count implements store.UserStore.Count
func (s *UserStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
