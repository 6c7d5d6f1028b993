// Package command turns the operations of the terminal client into values
// that can be dispatched against the services and rendered as text.
package command

import (
	"strings"
	"time"

	"github.com/phrazzld/calshare/internal/domain"
)

// TimeLayout is the textual timestamp format accepted from the terminal.
const TimeLayout = domain.TimeLayout

// Command is a single parsed user instruction.
type Command interface {
	Name() string
}

// Command names, as typed at the prompt.
const (
	NameRegister       = "register"
	NameLogin          = "login"
	NameLogout         = "logout"
	NameCreateCalendar = "create_calendar"
	NameAddEvent       = "add_event"
	NameViewCalendar   = "view_calendar"
	NameUpdateEvent    = "update_event"
	NameDeleteEvent    = "delete_event"
	NameDeleteCalendar = "delete_calendar"
	NameSetTimezone    = "set_timezone"
	NameShareCalendar  = "share_calendar"
	NameShareEvent     = "share_event"
	NameTogglePrivacy  = "toggle_privacy"
)

type Register struct{ Username string }

type Login struct{ Username string }

type Logout struct{}

type CreateCalendar struct {
	Calendar string
	TimeZone string
	IsPublic bool
}

type AddEvent struct {
	Calendar string
	Title    string
	Start    time.Time
	End      time.Time
}

// ViewCalendar shows one month of a calendar. An empty Owner means the
// logged-in user.
type ViewCalendar struct {
	Owner    string
	Calendar string
	Year     int
	Month    int
}

type UpdateEvent struct {
	Calendar string
	Title    string
	Update   domain.EventUpdate
}

type DeleteEvent struct {
	Calendar string
	Title    string
}

type DeleteCalendar struct{ Calendar string }

// SetTimezone carries the raw offset text; parsing happens in the service.
type SetTimezone struct{ Offset string }

type ShareCalendar struct {
	Calendar  string
	Recipient string
}

type ShareEvent struct {
	Calendar  string
	Title     string
	Recipient string
}

type TogglePrivacy struct{ Calendar string }

func (Register) Name() string       { return NameRegister }
func (Login) Name() string          { return NameLogin }
func (Logout) Name() string         { return NameLogout }
func (CreateCalendar) Name() string { return NameCreateCalendar }
func (AddEvent) Name() string       { return NameAddEvent }
func (ViewCalendar) Name() string   { return NameViewCalendar }
func (UpdateEvent) Name() string    { return NameUpdateEvent }
func (DeleteEvent) Name() string    { return NameDeleteEvent }
func (DeleteCalendar) Name() string { return NameDeleteCalendar }
func (SetTimezone) Name() string    { return NameSetTimezone }
func (ShareCalendar) Name() string  { return NameShareCalendar }
func (ShareEvent) Name() string     { return NameShareEvent }
func (TogglePrivacy) Name() string  { return NameTogglePrivacy }

// ParseTime parses raw in TimeLayout as a UTC instant.
func ParseTime(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError("time", "must use the YYYY-MM-DD HH:MM format", domain.ErrValidation)
	}
	return t, nil
}
