package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the minute-precision "date space time" format used for
// textual timestamps.
const TimeLayout = "2006-01-02 15:04"

// clockLayout renders the 24-hour local time of an event in month views.
const clockLayout = "15:04"

// Event is a titled, half-open time interval [Start, End) together with the
// usernames it has been shared with. Overlap with other events is the
// containing Calendar's concern; an Event only guarantees Start < End.
type Event struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	sharedWith []string
}

// EventUpdate carries the fields of a partial event update. Nil fields keep
// their current value.
type EventUpdate struct {
	Title *string
	Start *time.Time
	End   *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (u EventUpdate) IsEmpty() bool {
	return u.Title == nil && u.Start == nil && u.End == nil
}

// EventSnapshot is a read-only copy of an Event, safe to hand out after the
// owning calendar's lock is released.
type EventSnapshot struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	SharedWith []string  `json:"shared_with"`
}

// NewEvent creates a new Event with a fresh ID.
// Returns a *ValidationError if the title is blank or start is not before end.
func NewEvent(title string, start, end time.Time, sharedWith ...string) (*Event, error) {
	e := &Event{
		ID:    uuid.New(),
		Title: strings.TrimSpace(title),
		Start: start,
		End:   end,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	for _, username := range sharedWith {
		e.Share(username)
	}
	return e, nil
}

// Validate checks the event invariants.
func (e *Event) Validate() error {
	return validateEvent(e.ID, e.Title, e.Start, e.End)
}

func validateEvent(id uuid.UUID, title string, start, end time.Time) error {
	if id == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "cannot be empty", ErrValidation)
	}
	if !start.Before(end) {
		return NewValidationError("end_time", "must be after start_time", ErrValidation)
	}
	return nil
}

// Update replaces the provided fields and revalidates the result.
// On failure the event is left unchanged.
func (e *Event) Update(u EventUpdate) error {
	title, start, end := e.Title, e.Start, e.End
	if u.Title != nil {
		title = strings.TrimSpace(*u.Title)
	}
	if u.Start != nil {
		start = *u.Start
	}
	if u.End != nil {
		end = *u.End
	}

	if err := validateEvent(e.ID, title, start, end); err != nil {
		return err
	}

	e.Title, e.Start, e.End = title, start, end
	return nil
}

// Share adds username to the event's visibility list.
// It reports whether the user was newly added.
func (e *Event) Share(username string) bool {
	if username == "" || slices.Contains(e.sharedWith, username) {
		return false
	}
	e.sharedWith = append(e.sharedWith, username)
	return true
}

// IsVisibleTo reports whether the event was shared with username. Ownership
// and calendar visibility are not considered here.
func (e *Event) IsVisibleTo(username string) bool {
	return slices.Contains(e.sharedWith, username)
}

// SharedWith returns a copy of the usernames the event is shared with.
func (e *Event) SharedWith() []string {
	return slices.Clone(e.sharedWith)
}

// Overlaps reports whether [start, end) intersects the event's interval.
// Touching endpoints do not overlap.
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && start.Before(e.End)
}

// Shift moves both endpoints by d.
func (e *Event) Shift(d time.Duration) {
	e.Start = e.Start.Add(d)
	e.End = e.End.Add(d)
}

// Snapshot returns a read-only copy of the event.
func (e *Event) Snapshot() EventSnapshot {
	return EventSnapshot{
		ID:         e.ID,
		Title:      e.Title,
		Start:      e.Start,
		End:        e.End,
		SharedWith: e.SharedWith(),
	}
}
