// Package testutils provides helpers shared by tests across the codebase.
//
// Helper functions follow these naming conventions:
//   - New*: build a ready-to-use fixture
//   - Must*: perform an operation and fail the test on error
package testutils

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/calshare/internal/config"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/events"
	"github.com/phrazzld/calshare/internal/platform/memory"
	"github.com/phrazzld/calshare/internal/service"
	"github.com/phrazzld/calshare/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// TestTokenSecret is long enough to satisfy the token secret validation.
const TestTokenSecret = "test-secret-that-is-long-enough-for-testing"

// Services is an in-memory service stack. Notifications are delivered
// synchronously to Inbox.
type Services struct {
	Registry  service.RegistryService
	Sessions  service.SessionService
	Calendars service.CalendarService
	Emitter   *events.InMemoryEventEmitter
	Inbox     *events.Inbox
}

// NewServices builds a Services stack logging to logger. A nil logger uses
// slog.Default.
func NewServices(t *testing.T, logger *slog.Logger) *Services {
	t.Helper()

	registry := service.NewRegistryService(memory.NewUserStore(logger), nil, logger)
	emitter := events.NewInMemoryEventEmitter(logger)
	inbox := events.NewInbox(0)
	emitter.RegisterHandler(inbox)

	return &Services{
		Registry:  registry,
		Sessions:  service.NewSessionService(registry, memory.NewSessionStore(logger), nil, logger),
		Calendars: service.NewCalendarService(registry, emitter, nil, logger),
		Emitter:   emitter,
		Inbox:     inbox,
	}
}

// MustRegister registers every username.
func (s *Services) MustRegister(t *testing.T, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		_, err := s.Registry.Register(context.Background(), username)
		require.NoError(t, err, "register %s", username)
	}
}

// MustLogin starts a fresh session for username.
func (s *Services) MustLogin(t *testing.T, username string) *service.Session {
	t.Helper()
	session, err := s.Sessions.Login(context.Background(), nil, username)
	require.NoError(t, err, "login %s", username)
	return session
}

// NewJWTService creates a token service signing with TestTokenSecret.
func NewJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		TokenSecret:          TestTokenSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc
}

// MustParseTime parses raw in domain.TimeLayout as UTC.
func MustParseTime(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(domain.TimeLayout, raw, time.UTC)
	require.NoError(t, err)
	return ts
}
