package domain

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Offset bounds, in whole hours from UTC.
const (
	MinTimezoneOffset = -12
	MaxTimezoneOffset = 14
)

// MaxUsernameLength is the longest accepted username.
const MaxUsernameLength = 64

// User is a registered identity owning zero or more calendars.
// All methods are safe for concurrent use.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`

	mu        sync.RWMutex
	calendars []*Calendar
	offset    int
}

// NewUser creates a new User with a fresh ID and a UTC offset of zero.
func NewUser(username string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return &User{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ValidateUsername checks that a username is non-empty, bounded and free of whitespace.
func ValidateUsername(username string) error {
	if username == "" {
		return NewValidationError("username", "cannot be empty", ErrValidation)
	}
	if len(username) > MaxUsernameLength {
		return NewValidationError("username", "is too long", ErrValidation)
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return NewValidationError("username", "cannot contain whitespace", ErrValidation)
	}
	return nil
}

// CreateCalendar creates a calendar owned by u and appends it to u's collection.
// Calendar names are not required to be unique.
func (u *User) CreateCalendar(name, timeZone string, isPublic bool) (*Calendar, error) {
	c, err := NewCalendar(name, u.Username, timeZone, isPublic)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.calendars = append(u.calendars, c)
	return c, nil
}

// DeleteCalendar removes the first calendar named exactly name.
func (u *User) DeleteCalendar(name string) (*Calendar, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := slices.IndexFunc(u.calendars, func(c *Calendar) bool { return c.Name == name })
	if idx < 0 {
		return nil, ErrCalendarNotFound
	}
	removed := u.calendars[idx]
	u.calendars = slices.Delete(u.calendars, idx, idx+1)
	return removed, nil
}

// Calendar returns the first calendar named exactly name.
func (u *User) Calendar(name string) (*Calendar, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	for _, c := range u.calendars {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, ErrCalendarNotFound
}

// CalendarFold returns the first calendar whose name matches name ignoring case.
func (u *User) CalendarFold(name string) (*Calendar, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	for _, c := range u.calendars {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, ErrCalendarNotFound
}

// Calendars returns u's calendars in creation order.
func (u *User) Calendars() []*Calendar {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Clone(u.calendars)
}

// TimezoneOffset returns the user's current offset in hours from UTC.
func (u *User) TimezoneOffset() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.offset
}

// SetTimezone records a new offset and shifts every event of every owned
// calendar by the difference to the previous offset. Stored instants are
// translated in place, not reinterpreted.
func (u *User) SetTimezone(offset int) error {
	if offset < MinTimezoneOffset || offset > MaxTimezoneOffset {
		return NewValidationError("timezone_offset", "must be between -12 and 14", ErrValidation)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	delta := time.Duration(offset-u.offset) * time.Hour
	if delta != 0 {
		for _, c := range u.calendars {
			c.shift(delta)
		}
	}
	u.offset = offset
	return nil
}

// ParseOffset converts textual input such as "-5" or "+3" into an offset in hours.
func ParseOffset(raw string) (int, error) {
	offset, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, NewValidationError("timezone_offset", "must be an integer number of hours", ErrValidation)
	}
	if offset < MinTimezoneOffset || offset > MaxTimezoneOffset {
		return 0, NewValidationError("timezone_offset", "must be between -12 and 14", ErrValidation)
	}
	return offset, nil
}

// FormatOffset renders an offset as "UTC+3" / "UTC-5" / "UTC+0".
func FormatOffset(offset int) string {
	if offset < 0 {
		return "UTC" + strconv.Itoa(offset)
	}
	return "UTC+" + strconv.Itoa(offset)
}
