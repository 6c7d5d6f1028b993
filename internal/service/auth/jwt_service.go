// Package auth issues and validates the signed tokens that identify a
// session to the HTTP API. A token names a session; it does not prove
// anything beyond that, since users have no credentials.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing session tokens.
type JWTService interface {
	// GenerateToken creates a signed token naming the session and its user.
	// Returns the token string and its expiry time.
	GenerateToken(ctx context.Context, sessionID uuid.UUID, username string) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated content of a session token.
type Claims struct {
	// SessionID identifies the server-side session the token belongs to.
	SessionID uuid.UUID `json:"sid,omitempty"`

	// Username is the user the session was opened for.
	Username string `json:"sub,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
