package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/store"
)

// Session is the explicit actor context of every calendar operation.
type Session struct {
	ID   uuid.UUID
	User *domain.User
}

// Username returns the acting username, or "" for a nil session.
func (s *Session) Username() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Username
}

// SessionService starts and ends sessions.
type SessionService interface {
	// Login authenticates username and starts a session for it. A non-nil
	// current session is ended first, so a login replaces the caller's
	// session. On failure current is left untouched.
	Login(ctx context.Context, current *Session, username string) (*Session, error)

	// Logout ends session. Fails with domain.ErrNoSession if session is nil
	// or has already ended.
	Logout(ctx context.Context, session *Session) error

	// Resolve returns the live session with the given ID.
	// Fails with domain.ErrNoSession if it is unknown or has ended.
	Resolve(ctx context.Context, id uuid.UUID) (*Session, error)
}

type sessionService struct {
	registry RegistryService
	sessions store.SessionStore
	recorder Recorder
	logger   *slog.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(
	registry RegistryService,
	sessions store.SessionStore,
	recorder Recorder,
	logger *slog.Logger,
) SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		registry: registry,
		sessions: sessions,
		recorder: recorderOrNop(recorder),
		logger:   logger.With("component", "session_service"),
	}
}

func (s *sessionService) Login(ctx context.Context, current *Session, username string) (*Session, error) {
	user, err := s.registry.Authenticate(ctx, username)
	if err != nil {
		s.recorder.RecordOperation("login", err)
		return nil, err
	}

	if current != nil {
		err := s.sessions.Delete(ctx, current.ID)
		switch {
		case err == nil:
			s.recorder.SessionEnded()
			s.logger.Debug("replaced previous session",
				"session_id", current.ID,
				"username", current.Username())
		case errors.Is(err, store.ErrSessionNotFound):
			// Already gone; nothing to replace.
		default:
			s.recorder.RecordOperation("login", err)
			return nil, NewServiceError("session", "login", err)
		}
	}

	id, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.recorder.RecordOperation("login", err)
		s.logger.Error("failed to create session", "error", err, "username", username)
		return nil, NewServiceError("session", "login", err)
	}

	s.recorder.RecordOperation("login", nil)
	s.recorder.SessionStarted()
	s.logger.Info("user logged in", "session_id", id, "username", user.Username)
	return &Session{ID: id, User: user}, nil
}

func (s *sessionService) Logout(ctx context.Context, session *Session) error {
	err := s.logout(ctx, session)
	s.recorder.RecordOperation("logout", err)
	return err
}

func (s *sessionService) logout(ctx context.Context, session *Session) error {
	if session == nil {
		return domain.ErrNoSession
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return err
		}
		return NewServiceError("session", "logout", err)
	}

	s.recorder.SessionEnded()
	s.logger.Info("user logged out", "session_id", session.ID, "username", session.Username())
	return nil
}

func (s *sessionService) Resolve(ctx context.Context, id uuid.UUID) (*Session, error) {
	user, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return nil, err
		}
		return nil, NewServiceError("session", "resolve", err)
	}
	return &Session{ID: id, User: user}, nil
}
