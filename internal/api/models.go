package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64,excludesall= "`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
}

// UserResponse describes a registered user.
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	TimezoneOffset int       `json:"timezone_offset"`
	CreatedAt      time.Time `json:"created_at"`
}

// SessionResponse is returned by a successful login.
type SessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Username  string    `json:"username"`

	// Token is the bearer token naming the session.
	Token string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the token expires.
	ExpiresAt string `json:"expires_at"`
}

// SetTimezoneRequest accepts the offset as a JSON number or numeric string.
type SetTimezoneRequest struct {
	Offset json.Number `json:"offset" validate:"required"`
}

// TimezoneResponse reports the offset now in effect.
type TimezoneResponse struct {
	Offset int    `json:"offset"`
	Label  string `json:"label"`
}

// CreateCalendarRequest defines the payload for creating a calendar.
type CreateCalendarRequest struct {
	Name     string `json:"name"      validate:"required,max=128"`
	TimeZone string `json:"time_zone" validate:"max=64"`
	IsPublic bool   `json:"is_public"`
}

// ShareRequest names the user a calendar or event is shared with.
type ShareRequest struct {
	Username string `json:"username" validate:"required"`
}

// ShareResponse reports whether the share list changed.
type ShareResponse struct {
	Username string `json:"username"`
	Added    bool   `json:"added"`
}

// VisibilityResponse reports the calendar's visibility after a toggle.
type VisibilityResponse struct {
	Calendar string `json:"calendar"`
	IsPublic bool   `json:"is_public"`
}

// CreateEventRequest defines the payload for adding an event. Times use the
// "2006-01-02 15:04" layout and are interpreted as UTC.
type CreateEventRequest struct {
	Title string `json:"title" validate:"required,max=256"`
	Start string `json:"start" validate:"required,datetime=2006-01-02 15:04"`
	End   string `json:"end"   validate:"required,datetime=2006-01-02 15:04"`
}

// UpdateEventRequest replaces the fields that are present.
type UpdateEventRequest struct {
	Title *string `json:"title" validate:"omitempty,max=256"`
	Start *string `json:"start" validate:"omitempty,datetime=2006-01-02 15:04"`
	End   *string `json:"end"   validate:"omitempty,datetime=2006-01-02 15:04"`
}

// ImportResponse reports how many events an iCalendar upload added.
type ImportResponse struct {
	Calendar string `json:"calendar"`
	Imported int    `json:"imported"`
}
