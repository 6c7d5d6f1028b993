package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	TypeCalendarShared    = "calendar.shared"
	TypeEventShared       = "event.shared"
	TypeVisibilityChanged = "calendar.visibility_changed"
)

// Notification describes something that happened to a calendar that other
// users may want to know about.
type Notification struct {
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Actor is the username that caused the notification.
	Actor string `json:"actor"`

	// Recipients are the usernames the notification is addressed to.
	Recipients []string `json:"recipients"`

	// Calendar is the name of the calendar concerned.
	Calendar string `json:"calendar"`

	// Payload contains type-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the notification payload into v.
func (n *Notification) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(n.Payload, v)
}

// NewNotification creates a Notification with a fresh ID and a JSON-encoded payload.
// A nil payload is omitted.
func NewNotification(
	notificationType, actor, calendar string,
	recipients []string,
	payload interface{},
) (*Notification, error) {
	n := &Notification{
		ID:         uuid.New(),
		Type:       notificationType,
		Actor:      actor,
		Recipients: recipients,
		Calendar:   calendar,
		CreatedAt:  time.Now().UTC(),
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		n.Payload = b
	}
	return n, nil
}

// EventShared is the payload of a TypeEventShared notification.
type EventShared struct {
	Event string `json:"event"`
}

// VisibilityChanged is the payload of a TypeVisibilityChanged notification.
type VisibilityChanged struct {
	IsPublic bool `json:"is_public"`
}

// EventHandler defines an interface for components that consume notifications.
type EventHandler interface {
	// HandleEvent processes the given notification.
	HandleEvent(ctx context.Context, n *Notification) error
}

// EventEmitter defines an interface for components that publish notifications.
type EventEmitter interface {
	// EmitEvent publishes the notification to all registered handlers.
	EmitEvent(ctx context.Context, n *Notification) error
}
