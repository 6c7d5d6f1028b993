// Package middleware contains the HTTP middleware of the calendar API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/calshare/internal/api/shared"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/platform/logger"
	"github.com/phrazzld/calshare/internal/redact"
	"github.com/phrazzld/calshare/internal/service"
	"github.com/phrazzld/calshare/internal/service/auth"
)

// AuthMiddleware resolves bearer tokens into live sessions.
type AuthMiddleware struct {
	jwtService auth.JWTService
	sessions   service.SessionService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, sessions service.SessionService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// Authenticate requires a bearer token naming a live session and adds the
// session to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		session, err := m.resolve(r.Context(), authHeader)
		if err != nil {
			m.respondAuthError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// Optional attaches the session when a valid bearer token is present and
// otherwise lets the request through unauthenticated. Login uses it so a new
// login can replace the caller's session.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.resolve(r.Context(), authHeader)
		if err != nil {
			logger.FromContext(r.Context()).Debug("ignoring unusable bearer token",
				"error", redact.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

var errMalformedHeader = errors.New("invalid authorization format")

func (m *AuthMiddleware) resolve(ctx context.Context, authHeader string) (*service.Session, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errMalformedHeader
	}

	claims, err := m.jwtService.ValidateToken(ctx, parts[1])
	if err != nil {
		return nil, err
	}

	session, err := m.sessions.Resolve(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Username() != claims.Username {
		return nil, auth.ErrInvalidToken
	}
	return session, nil
}

func (m *AuthMiddleware) respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errMalformedHeader):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, domain.ErrNoSession):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Session has ended")
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
	}
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *service.Session) context.Context {
	return context.WithValue(ctx, shared.SessionContextKey, session)
}

// GetSession extracts the session from the request context.
// Returns the session and a boolean indicating if it was found.
func GetSession(r *http.Request) (*service.Session, bool) {
	session, ok := r.Context().Value(shared.SessionContextKey).(*service.Session)
	return session, ok && session != nil
}
