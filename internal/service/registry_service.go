package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/store"
)

// usernameRules mirrors domain.ValidateUsername for the checks validator can express.
const usernameRules = "required,min=1,max=64,excludesall= "

// RegistryService manages the set of registered users.
type RegistryService interface {
	// Register creates a user. Fails with domain.ErrDuplicateUser if the
	// username is taken and domain.ErrValidation if it is malformed.
	Register(ctx context.Context, username string) (*domain.User, error)

	// Authenticate returns the user registered under exactly username.
	// Fails with domain.ErrNotFound otherwise.
	Authenticate(ctx context.Context, username string) (*domain.User, error)

	// Lookup is Authenticate without the login semantics, used to resolve
	// share recipients and calendar owners.
	Lookup(ctx context.Context, username string) (*domain.User, error)

	// List returns every registered user in registration order.
	List(ctx context.Context) ([]*domain.User, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
}

type registryService struct {
	users    store.UserStore
	validate *validator.Validate
	recorder Recorder
	logger   *slog.Logger
}

// NewRegistryService creates a RegistryService backed by users.
func NewRegistryService(users store.UserStore, recorder Recorder, logger *slog.Logger) RegistryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &registryService{
		users:    users,
		validate: validator.New(),
		recorder: recorderOrNop(recorder),
		logger:   logger.With("component", "registry_service"),
	}
}

func (s *registryService) Register(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.register(ctx, username)
	s.recorder.RecordOperation("register", err)
	return user, err
}

func (s *registryService) register(ctx context.Context, username string) (*domain.User, error) {
	if err := s.validate.Var(username, usernameRules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, domain.NewValidationError("username", usernameRuleMessage(verrs[0].Tag()), nil)
		}
		return nil, domain.NewValidationError("username", "is invalid", nil)
	}

	user, err := domain.NewUser(username)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("username already registered", "username", username)
			return nil, fmt.Errorf("failed to register user: %w", err)
		}
		s.logger.Error("failed to store user", "error", err, "username", username)
		return nil, NewServiceError("registry", "register", err)
	}

	s.recorder.UserRegistered()
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func usernameRuleMessage(tag string) string {
	switch tag {
	case "required", "min":
		return "cannot be empty"
	case "max":
		return "is too long"
	case "excludesall":
		return "cannot contain whitespace"
	default:
		return "is invalid"
	}
}

func (s *registryService) Authenticate(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.Lookup(ctx, username)
	s.recorder.RecordOperation("authenticate", err)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("user authenticated", "username", username)
	return user, nil
}

func (s *registryService) Lookup(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("user %q: %w", username, err)
		}
		s.logger.Error("failed to look up user", "error", err, "username", username)
		return nil, NewServiceError("registry", "lookup", err)
	}
	return user, nil
}

func (s *registryService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, NewServiceError("registry", "list", err)
	}
	return users, nil
}

func (s *registryService) Count(ctx context.Context) (int, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return 0, NewServiceError("registry", "count", err)
	}
	return n, nil
}
