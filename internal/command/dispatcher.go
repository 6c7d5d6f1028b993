package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/service"
)

// Result is the outcome of a successfully dispatched command. Only the
// fields relevant to Command are set.
type Result struct {
	Command   string
	Username  string
	Calendar  string
	Title     string
	Recipient string
	Event     domain.EventSnapshot
	// Added reports whether a share introduced a new recipient.
	Added    bool
	IsPublic bool
	Offset   int
	View     *domain.MonthView
}

// Dispatcher executes commands on behalf of a single terminal user. It owns
// that user's session: Login replaces it and Logout clears it.
type Dispatcher struct {
	registry  service.RegistryService
	sessions  service.SessionService
	calendars service.CalendarService

	mu      sync.Mutex
	session *service.Session
}

// NewDispatcher creates a Dispatcher with no active session.
func NewDispatcher(
	registry service.RegistryService,
	sessions service.SessionService,
	calendars service.CalendarService,
) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		sessions:  sessions,
		calendars: calendars,
	}
}

// Session returns the active session, or nil when nobody is logged in.
func (d *Dispatcher) Session() *service.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

// Dispatch executes cmd. Errors carry the domain error kinds unchanged so
// they can be rendered with RenderError.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := Result{Command: cmd.Name()}
	s := d.session

	switch c := cmd.(type) {
	case Register:
		user, err := d.registry.Register(ctx, c.Username)
		if err != nil {
			return res, err
		}
		res.Username = user.Username

	case Login:
		next, err := d.sessions.Login(ctx, s, c.Username)
		if err != nil {
			return res, err
		}
		d.session = next
		res.Username = next.Username()

	case Logout:
		if err := d.sessions.Logout(ctx, s); err != nil {
			return res, err
		}
		res.Username = s.Username()
		d.session = nil

	case CreateCalendar:
		cal, err := d.calendars.CreateCalendar(ctx, s, c.Calendar, c.TimeZone, c.IsPublic)
		if err != nil {
			return res, err
		}
		res.Calendar = cal.Name
		res.IsPublic = cal.IsPublic

	case AddEvent:
		ev, err := d.calendars.AddEvent(ctx, s, c.Calendar, c.Title, c.Start, c.End)
		if err != nil {
			return res, err
		}
		res.Calendar = c.Calendar
		res.Title = ev.Title
		res.Event = ev

	case ViewCalendar:
		view, err := d.calendars.ViewCalendar(ctx, s, c.Owner, c.Calendar, c.Year, c.Month)
		if err != nil {
			return res, err
		}
		res.Calendar = view.Calendar
		res.View = view

	case UpdateEvent:
		ev, err := d.calendars.UpdateEvent(ctx, s, c.Calendar, c.Title, c.Update)
		if err != nil {
			return res, err
		}
		res.Calendar = c.Calendar
		res.Title = ev.Title
		res.Event = ev

	case DeleteEvent:
		ev, err := d.calendars.RemoveEvent(ctx, s, c.Calendar, c.Title)
		if err != nil {
			return res, err
		}
		res.Calendar = c.Calendar
		res.Title = ev.Title
		res.Event = ev

	case DeleteCalendar:
		if err := d.calendars.DeleteCalendar(ctx, s, c.Calendar); err != nil {
			return res, err
		}
		res.Calendar = c.Calendar

	case SetTimezone:
		offset, err := d.calendars.SetTimezone(ctx, s, c.Offset)
		if err != nil {
			return res, err
		}
		res.Offset = offset

	case ShareCalendar:
		added, err := d.calendars.ShareCalendar(ctx, s, c.Calendar, c.Recipient)
		if err != nil {
			return res, err
		}
		res.Calendar = c.Calendar
		res.Recipient = c.Recipient
		res.Added = added

	case ShareEvent:
		added, err := d.calendars.ShareEvent(ctx, s, c.Calendar, c.Title, c.Recipient)
		if err != nil {
			return res, err
		}
		res.Calendar = c.Calendar
		res.Title = c.Title
		res.Recipient = c.Recipient
		res.Added = added

	case TogglePrivacy:
		isPublic, err := d.calendars.TogglePrivacy(ctx, s, c.Calendar)
		if err != nil {
			return res, err
		}
		res.Calendar = c.Calendar
		res.IsPublic = isPublic

	default:
		return res, fmt.Errorf("unknown command %q", cmd.Name())
	}

	return res, nil
}
