package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/calshare/internal/domain"
)

// SessionStore keeps track of active sessions.
type SessionStore interface {
	// Create records a new session for user and returns its ID.
	Create(ctx context.Context, user *domain.User) (uuid.UUID, error)

	// Get returns the user bound to the session.
	// Returns ErrSessionNotFound if the session is unknown or has ended.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Delete ends the session.
	// Returns ErrSessionNotFound if the session is unknown or has already ended.
	Delete(ctx context.Context, id uuid.UUID) error
}
