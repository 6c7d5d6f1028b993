package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/events"
	"github.com/phrazzld/calshare/internal/ics"
)

// CalendarService implements the calendar use cases of a logged-in user.
// Every method fails with domain.ErrNoSession when session is nil.
//
// Mutating methods act on the session user's own calendars, looked up by
// exact name. RemoveEvent alone matches the calendar name ignoring case. Read methods take an owner so that public and shared calendars
// of other users can be viewed; an empty owner means the session user.
type CalendarService interface {
	CreateCalendar(ctx context.Context, session *Session, name, timeZone string, isPublic bool) (domain.CalendarSnapshot, error)
	DeleteCalendar(ctx context.Context, session *Session, name string) error
	ListCalendars(ctx context.Context, session *Session) ([]domain.CalendarSnapshot, error)

	AddEvent(ctx context.Context, session *Session, calendar, title string, start, end time.Time) (domain.EventSnapshot, error)
	RemoveEvent(ctx context.Context, session *Session, calendar, title string) (domain.EventSnapshot, error)
	UpdateEvent(ctx context.Context, session *Session, calendar, title string, update domain.EventUpdate) (domain.EventSnapshot, error)

	// ShareEvent and ShareCalendar require the recipient to be registered and
	// report whether the recipient was newly added.
	ShareEvent(ctx context.Context, session *Session, calendar, title, recipient string) (bool, error)
	ShareCalendar(ctx context.Context, session *Session, calendar, recipient string) (bool, error)

	// TogglePrivacy flips the calendar's visibility and returns the new value.
	TogglePrivacy(ctx context.Context, session *Session, calendar string) (bool, error)

	ViewCalendar(ctx context.Context, session *Session, owner, calendar string, year, month int) (*domain.MonthView, error)

	// SetTimezone parses raw as an hour offset and shifts every event the
	// session user owns. Returns the new offset.
	SetTimezone(ctx context.Context, session *Session, raw string) (int, error)

	ExportICS(ctx context.Context, session *Session, owner, calendar string, w io.Writer) error

	// ImportICS adds every VEVENT in r to the calendar, all or nothing.
	// Returns the number of events added.
	ImportICS(ctx context.Context, session *Session, calendar string, r io.Reader) (int, error)
}

type calendarService struct {
	registry RegistryService
	emitter  events.EventEmitter
	recorder Recorder
	logger   *slog.Logger
}

// NewCalendarService creates a CalendarService. A nil emitter disables
// notifications; a nil recorder disables instrumentation.
func NewCalendarService(
	registry RegistryService,
	emitter events.EventEmitter,
	recorder Recorder,
	logger *slog.Logger,
) CalendarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &calendarService{
		registry: registry,
		emitter:  emitter,
		recorder: recorderOrNop(recorder),
		logger:   logger.With("component", "calendar_service"),
	}
}

func actor(session *Session) (*domain.User, error) {
	if session == nil || session.User == nil {
		return nil, domain.ErrNoSession
	}
	return session.User, nil
}

// ownCalendar resolves a calendar owned by the session user.
func ownCalendar(session *Session, name string) (*domain.User, *domain.Calendar, error) {
	user, err := actor(session)
	if err != nil {
		return nil, nil, err
	}
	cal, err := user.Calendar(name)
	if err != nil {
		return nil, nil, fmt.Errorf("calendar %q: %w", name, err)
	}
	return user, cal, nil
}

// finish records the outcome of op and logs unexpected failures.
func (s *calendarService) finish(op string, err error) {
	s.recorder.RecordOperation(op, err)
	if err != nil && !isExpected(err) {
		s.logger.Error("calendar operation failed", "operation", op, "error", err)
	}
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrOverlap) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrAccessDenied) ||
		errors.Is(err, domain.ErrNoSession) ||
		errors.Is(err, domain.ErrDuplicateUser)
}

func (s *calendarService) notify(ctx context.Context, kind, actor, calendar string, recipients []string, payload interface{}) {
	if s.emitter == nil || len(recipients) == 0 {
		return
	}
	n, err := events.NewNotification(kind, actor, calendar, recipients, payload)
	if err != nil {
		s.logger.Error("failed to build notification", "error", err, "type", kind)
		return
	}
	if err := s.emitter.EmitEvent(ctx, n); err != nil {
		s.logger.Warn("failed to deliver notification",
			"error", err,
			"notification_id", n.ID,
			"type", kind)
	}
}

func (s *calendarService) CreateCalendar(
	ctx context.Context,
	session *Session,
	name, timeZone string,
	isPublic bool,
) (snap domain.CalendarSnapshot, err error) {
	defer func() { s.finish("create_calendar", err) }()

	user, err := actor(session)
	if err != nil {
		return domain.CalendarSnapshot{}, err
	}
	cal, err := user.CreateCalendar(name, timeZone, isPublic)
	if err != nil {
		return domain.CalendarSnapshot{}, err
	}

	s.logger.Info("calendar created",
		"username", user.Username,
		"calendar", cal.Name,
		"calendar_id", cal.ID,
		"is_public", isPublic)
	return cal.Snapshot(), nil
}

func (s *calendarService) DeleteCalendar(ctx context.Context, session *Session, name string) (err error) {
	defer func() { s.finish("delete_calendar", err) }()

	user, err := actor(session)
	if err != nil {
		return err
	}
	removed, err := user.DeleteCalendar(name)
	if err != nil {
		return fmt.Errorf("calendar %q: %w", name, err)
	}

	s.logger.Info("calendar deleted",
		"username", user.Username,
		"calendar", removed.Name,
		"calendar_id", removed.ID)
	return nil
}

func (s *calendarService) ListCalendars(ctx context.Context, session *Session) ([]domain.CalendarSnapshot, error) {
	user, err := actor(session)
	if err != nil {
		return nil, err
	}
	cals := user.Calendars()
	out := make([]domain.CalendarSnapshot, 0, len(cals))
	for _, c := range cals {
		out = append(out, c.Snapshot())
	}
	return out, nil
}

func (s *calendarService) AddEvent(
	ctx context.Context,
	session *Session,
	calendar, title string,
	start, end time.Time,
) (snap domain.EventSnapshot, err error) {
	defer func() { s.finish("add_event", err) }()

	user, cal, err := ownCalendar(session, calendar)
	if err != nil {
		return domain.EventSnapshot{}, err
	}
	e, err := domain.NewEvent(title, start, end)
	if err != nil {
		return domain.EventSnapshot{}, err
	}
	if err := cal.AddEvent(e); err != nil {
		s.logger.Debug("event rejected", "calendar", cal.Name, "title", e.Title, "error", err)
		return domain.EventSnapshot{}, err
	}

	s.logger.Info("event added",
		"username", user.Username,
		"calendar", cal.Name,
		"event_id", e.ID,
		"title", e.Title)
	return e.Snapshot(), nil
}

func (s *calendarService) RemoveEvent(
	ctx context.Context,
	session *Session,
	calendar, title string,
) (snap domain.EventSnapshot, err error) {
	defer func() { s.finish("remove_event", err) }()

	user, err := actor(session)
	if err != nil {
		return domain.EventSnapshot{}, err
	}
	cal, err := user.CalendarFold(calendar)
	if err != nil {
		return domain.EventSnapshot{}, fmt.Errorf("calendar %q: %w", calendar, err)
	}
	removed, err := cal.RemoveEvent(title)
	if err != nil {
		return domain.EventSnapshot{}, fmt.Errorf("event %q: %w", title, err)
	}

	s.logger.Info("event removed",
		"username", user.Username,
		"calendar", cal.Name,
		"event_id", removed.ID,
		"title", removed.Title)
	return removed, nil
}

func (s *calendarService) UpdateEvent(
	ctx context.Context,
	session *Session,
	calendar, title string,
	update domain.EventUpdate,
) (snap domain.EventSnapshot, err error) {
	defer func() { s.finish("update_event", err) }()

	user, cal, err := ownCalendar(session, calendar)
	if err != nil {
		return domain.EventSnapshot{}, err
	}
	updated, err := cal.UpdateEvent(title, update)
	if err != nil {
		return domain.EventSnapshot{}, err
	}

	s.logger.Info("event updated",
		"username", user.Username,
		"calendar", cal.Name,
		"event_id", updated.ID,
		"title", updated.Title)
	return updated, nil
}

func (s *calendarService) ShareEvent(
	ctx context.Context,
	session *Session,
	calendar, title, recipient string,
) (added bool, err error) {
	defer func() { s.finish("share_event", err) }()

	user, cal, err := ownCalendar(session, calendar)
	if err != nil {
		return false, err
	}
	if _, err := s.registry.Lookup(ctx, recipient); err != nil {
		return false, err
	}
	added, err = cal.ShareEvent(title, recipient)
	if err != nil {
		return false, fmt.Errorf("event %q: %w", title, err)
	}

	if added {
		s.logger.Info("event shared",
			"username", user.Username,
			"calendar", cal.Name,
			"title", title,
			"recipient", recipient)
		s.notify(ctx, events.TypeEventShared, user.Username, cal.Name,
			[]string{recipient}, events.EventShared{Event: title})
	}
	return added, nil
}

func (s *calendarService) ShareCalendar(
	ctx context.Context,
	session *Session,
	calendar, recipient string,
) (added bool, err error) {
	defer func() { s.finish("share_calendar", err) }()

	user, cal, err := ownCalendar(session, calendar)
	if err != nil {
		return false, err
	}
	if _, err := s.registry.Lookup(ctx, recipient); err != nil {
		return false, err
	}

	added = cal.Share(recipient)
	if added {
		s.logger.Info("calendar shared",
			"username", user.Username,
			"calendar", cal.Name,
			"recipient", recipient)
		s.notify(ctx, events.TypeCalendarShared, user.Username, cal.Name, []string{recipient}, nil)
	}
	return added, nil
}

func (s *calendarService) TogglePrivacy(
	ctx context.Context,
	session *Session,
	calendar string,
) (isPublic bool, err error) {
	defer func() { s.finish("toggle_privacy", err) }()

	user, cal, err := ownCalendar(session, calendar)
	if err != nil {
		return false, err
	}

	// Sharees are told before a switch to public clears the share list.
	previouslyShared := cal.SharedWith()
	isPublic = cal.TogglePublic()

	s.logger.Info("calendar visibility changed",
		"username", user.Username,
		"calendar", cal.Name,
		"is_public", isPublic)
	s.notify(ctx, events.TypeVisibilityChanged, user.Username, cal.Name,
		previouslyShared, events.VisibilityChanged{IsPublic: isPublic})
	return isPublic, nil
}

// targetCalendar resolves a calendar of owner (the session user if empty).
func (s *calendarService) targetCalendar(
	ctx context.Context,
	session *Session,
	owner, name string,
) (*domain.User, *domain.Calendar, error) {
	user, err := actor(session)
	if err != nil {
		return nil, nil, err
	}

	target := user
	if owner != "" && owner != user.Username {
		target, err = s.registry.Lookup(ctx, owner)
		if err != nil {
			return nil, nil, err
		}
	}

	cal, err := target.Calendar(name)
	if err != nil {
		return nil, nil, fmt.Errorf("calendar %q: %w", name, err)
	}
	return user, cal, nil
}

func (s *calendarService) ViewCalendar(
	ctx context.Context,
	session *Session,
	owner, calendar string,
	year, month int,
) (view *domain.MonthView, err error) {
	defer func() { s.finish("view_calendar", err) }()

	user, cal, err := s.targetCalendar(ctx, session, owner, calendar)
	if err != nil {
		return nil, err
	}
	view, err = cal.ViewMonth(user.Username, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			s.logger.Info("calendar view denied",
				"username", user.Username,
				"owner", cal.Owner,
				"calendar", cal.Name)
		}
		return nil, err
	}
	return view, nil
}

func (s *calendarService) SetTimezone(ctx context.Context, session *Session, raw string) (offset int, err error) {
	defer func() { s.finish("set_timezone", err) }()

	user, err := actor(session)
	if err != nil {
		return 0, err
	}
	offset, err = domain.ParseOffset(raw)
	if err != nil {
		return 0, err
	}
	previous := user.TimezoneOffset()
	if err := user.SetTimezone(offset); err != nil {
		return 0, err
	}

	s.logger.Info("timezone changed",
		"username", user.Username,
		"from", domain.FormatOffset(previous),
		"to", domain.FormatOffset(offset))
	return offset, nil
}

func (s *calendarService) ExportICS(
	ctx context.Context,
	session *Session,
	owner, calendar string,
	w io.Writer,
) (err error) {
	defer func() { s.finish("export_ics", err) }()

	user, cal, err := s.targetCalendar(ctx, session, owner, calendar)
	if err != nil {
		return err
	}
	snap, err := cal.SnapshotFor(user.Username)
	if err != nil {
		return err
	}
	if err := ics.Encode(w, snap); err != nil {
		return NewServiceError("calendar", "export_ics", err)
	}
	return nil
}

func (s *calendarService) ImportICS(
	ctx context.Context,
	session *Session,
	calendar string,
	r io.Reader,
) (n int, err error) {
	defer func() { s.finish("import_ics", err) }()

	user, cal, err := ownCalendar(session, calendar)
	if err != nil {
		return 0, err
	}
	imported, err := ics.Decode(r)
	if err != nil {
		return 0, err
	}
	for i, e := range imported {
		if imported[i], err = s.withRegisteredAttendees(ctx, e); err != nil {
			return 0, err
		}
	}
	if err := cal.AddEvents(imported...); err != nil {
		return 0, err
	}

	s.logger.Info("events imported",
		"username", user.Username,
		"calendar", cal.Name,
		"count", len(imported))
	for _, e := range imported {
		s.notify(ctx, events.TypeEventShared, user.Username, cal.Name,
			e.SharedWith(), events.EventShared{Event: e.Title})
	}
	return len(imported), nil
}

// withRegisteredAttendees returns e with every attendee that is not a
// registered user dropped from its share list.
func (s *calendarService) withRegisteredAttendees(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	attendees := e.SharedWith()
	accepted := make([]string, 0, len(attendees))
	for _, username := range attendees {
		if _, err := s.registry.Lookup(ctx, username); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Debug("dropping unregistered attendee", "title", e.Title, "attendee", username)
				continue
			}
			return nil, err
		}
		accepted = append(accepted, username)
	}
	if len(accepted) == len(attendees) {
		return e, nil
	}
	return domain.NewEvent(e.Title, e.Start, e.End, accepted...)
}
