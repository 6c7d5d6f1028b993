package domain

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeZone is the label given to calendars created without one.
const DefaultTimeZone = "UTC"

// Calendar is a named collection of non-overlapping events owned by a single
// user. Private calendars are visible to the owner and to the users listed in
// its share list; public calendars are visible to everyone.
//
// All methods are safe for concurrent use.
type Calendar struct {
	ID        uuid.UUID
	Name      string
	Owner     string
	TimeZone  string
	CreatedAt time.Time

	mu         sync.Mutex
	isPublic   bool
	events     []*Event
	sharedWith []string
}

// CalendarSnapshot is a read-only copy of a calendar's state.
type CalendarSnapshot struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Owner      string          `json:"owner"`
	TimeZone   string          `json:"time_zone"`
	IsPublic   bool            `json:"is_public"`
	SharedWith []string        `json:"shared_with"`
	Events     []EventSnapshot `json:"events"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewCalendar creates an empty calendar owned by owner.
// An empty time zone defaults to DefaultTimeZone.
func NewCalendar(name, owner, timeZone string, isPublic bool) (*Calendar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "cannot be empty", ErrValidation)
	}
	if owner == "" {
		return nil, NewValidationError("owner", "cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(timeZone) == "" {
		timeZone = DefaultTimeZone
	}

	return &Calendar{
		ID:        uuid.New(),
		Name:      name,
		Owner:     owner,
		TimeZone:  strings.TrimSpace(timeZone),
		CreatedAt: time.Now().UTC(),
		isPublic:  isPublic,
	}, nil
}

// IsPublic reports whether the calendar is visible to everyone.
func (c *Calendar) IsPublic() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isPublic
}

// SharedWith returns a copy of the usernames the calendar is shared with.
func (c *Calendar) SharedWith() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sharedWith)
}

// Events returns snapshots of the calendar's events in insertion order.
func (c *Calendar) Events() []EventSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EventSnapshot, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Snapshot())
	}
	return out
}

// Len returns the number of events in the calendar.
func (c *Calendar) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Snapshot returns a read-only copy of the calendar.
func (c *Calendar) Snapshot() CalendarSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// SnapshotFor returns the snapshot if actor may view the calendar and
// ErrAccessDenied otherwise. The check and the copy happen under one lock.
func (c *Calendar) SnapshotFor(actor string) (CalendarSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.canView(actor) {
		return CalendarSnapshot{}, ErrAccessDenied
	}
	return c.snapshot(), nil
}

// snapshot copies the calendar state. Caller must hold c.mu.
func (c *Calendar) snapshot() CalendarSnapshot {
	events := make([]EventSnapshot, 0, len(c.events))
	for _, e := range c.events {
		events = append(events, e.Snapshot())
	}
	return CalendarSnapshot{
		ID:         c.ID,
		Name:       c.Name,
		Owner:      c.Owner,
		TimeZone:   c.TimeZone,
		IsPublic:   c.isPublic,
		SharedWith: slices.Clone(c.sharedWith),
		Events:     events,
		CreatedAt:  c.CreatedAt,
	}
}

// AddEvent appends e unless it overlaps an existing event, in which case an
// *OverlapError naming the conflicting event is returned and the calendar is
// left unchanged.
func (c *Calendar) AddEvent(e *Event) error {
	if e == nil {
		return NewValidationError("event", "cannot be nil", ErrValidation)
	}
	if err := e.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if conflict := c.findOverlap(e.Start, e.End, nil); conflict != nil {
		return &OverlapError{Conflict: conflict.Snapshot()}
	}
	c.events = append(c.events, e)
	return nil
}

// AddEvents adds a batch of events all-or-nothing. Each event is checked
// against the existing events and against the earlier events of the batch.
func (c *Calendar) AddEvents(events ...*Event) error {
	for _, e := range events {
		if e == nil {
			return NewValidationError("event", "cannot be nil", ErrValidation)
		}
		if err := e.Validate(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range events {
		if conflict := c.findOverlap(e.Start, e.End, nil); conflict != nil {
			return &OverlapError{Conflict: conflict.Snapshot()}
		}
		for _, prev := range events[:i] {
			if prev.Overlaps(e.Start, e.End) {
				return &OverlapError{Conflict: prev.Snapshot()}
			}
		}
	}
	c.events = append(c.events, events...)
	return nil
}

// findOverlap returns the first event other than skip that overlaps
// [start, end). Caller must hold c.mu.
func (c *Calendar) findOverlap(start, end time.Time, skip *Event) *Event {
	for _, existing := range c.events {
		if existing == skip {
			continue
		}
		if existing.Overlaps(start, end) {
			return existing
		}
	}
	return nil
}

// RemoveEvent removes the first event whose title matches case-insensitively.
func (c *Calendar) RemoveEvent(title string) (EventSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.events, func(e *Event) bool {
		return strings.EqualFold(e.Title, title)
	})
	if idx < 0 {
		return EventSnapshot{}, ErrEventNotFound
	}

	removed := c.events[idx]
	c.events = slices.Delete(c.events, idx, idx+1)
	return removed.Snapshot(), nil
}

// Event returns the event with exactly the given title.
func (c *Calendar) Event(title string) (EventSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.eventByTitle(title)
	if e == nil {
		return EventSnapshot{}, ErrEventNotFound
	}
	return e.Snapshot(), nil
}

// eventByTitle finds an event by exact, case-sensitive title. Caller must hold c.mu.
func (c *Calendar) eventByTitle(title string) *Event {
	for _, e := range c.events {
		if e.Title == title {
			return e
		}
	}
	return nil
}

// UpdateEvent applies u to the event with exactly the given title.
// The updated interval must not overlap any other event of the calendar.
// On any failure the event is left unchanged.
func (c *Calendar) UpdateEvent(title string, u EventUpdate) (EventSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.eventByTitle(title)
	if e == nil {
		return EventSnapshot{}, ErrEventNotFound
	}

	candidate := *e
	if err := candidate.Update(u); err != nil {
		return EventSnapshot{}, err
	}
	if conflict := c.findOverlap(candidate.Start, candidate.End, e); conflict != nil {
		return EventSnapshot{}, &OverlapError{Conflict: conflict.Snapshot()}
	}

	// candidate was validated above, so applying the same update cannot fail.
	if err := e.Update(u); err != nil {
		return EventSnapshot{}, err
	}
	return e.Snapshot(), nil
}

// ShareEvent shares the event with exactly the given title with username.
// It reports whether the user was newly added.
func (c *Calendar) ShareEvent(title, username string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.eventByTitle(title)
	if e == nil {
		return false, ErrEventNotFound
	}
	return e.Share(username), nil
}

// Share grants username access to the calendar while it is private.
// It reports whether the user was newly added.
func (c *Calendar) Share(username string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if username == "" || slices.Contains(c.sharedWith, username) {
		return false
	}
	c.sharedWith = append(c.sharedWith, username)
	return true
}

// TogglePublic flips the calendar's visibility and returns the new state.
// Becoming public clears the share list; becoming private leaves it as is.
func (c *Calendar) TogglePublic() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isPublic = !c.isPublic
	if c.isPublic {
		c.sharedWith = nil
	}
	return c.isPublic
}

// CanView reports whether username may view the calendar.
func (c *Calendar) CanView(username string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canView(username)
}

// canView implements the visibility rule. Caller must hold c.mu.
func (c *Calendar) canView(username string) bool {
	return c.isPublic || username == c.Owner || slices.Contains(c.sharedWith, username)
}

// shift moves every event by d. Caller must not hold c.mu.
func (c *Calendar) shift(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		e.Shift(d)
	}
}
