package store

import (
	"context"

	"github.com/phrazzld/calshare/internal/domain"
)

// UserStore defines the interface for the username directory.
type UserStore interface {
	// Create stores a new user. The uniqueness check and the insertion happen
	// atomically, so concurrent registrations of the same username cannot both
	// succeed. Returns ErrUsernameExists if the username is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by exact username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns every registered user in registration order.
	List(ctx context.Context) ([]*domain.User, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
}
