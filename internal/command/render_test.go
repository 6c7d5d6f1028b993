package command

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		res  Result
		want string
	}{
		{"register", Result{Command: NameRegister, Username: "alice"}, "User 'alice' registered successfully."},
		{"login", Result{Command: NameLogin, Username: "alice"}, "Welcome back, alice!"},
		{"logout", Result{Command: NameLogout, Username: "alice"}, "User alice logged out."},
		{"create", Result{Command: NameCreateCalendar, Calendar: "Work"}, "Calendar 'Work' created."},
		{"add", Result{Command: NameAddEvent, Calendar: "Work", Title: "Demo"}, "Event 'Demo' successfully added to 'Work'."},
		{
			"update",
			Result{Command: NameUpdateEvent, Event: domain.EventSnapshot{Title: "Demo", Start: start, End: start.Add(time.Hour)}},
			"Event updated: Demo (2025-03-01 10:00:00 to 2025-03-01 11:00:00)",
		},
		{"delete event", Result{Command: NameDeleteEvent, Calendar: "Work", Title: "Demo"}, "Event 'Demo' successfully deleted from 'Work'."},
		{"delete calendar", Result{Command: NameDeleteCalendar, Calendar: "Work"}, "Calendar 'Work' deleted."},
		{"timezone negative", Result{Command: NameSetTimezone, Offset: -5}, "Timezone updated to UTC-5. All event times adjusted."},
		{"timezone zero", Result{Command: NameSetTimezone}, "Timezone updated to UTC+0. All event times adjusted."},
		{"share new", Result{Command: NameShareCalendar, Calendar: "Work", Recipient: "bob", Added: true}, "Calendar 'Work' shared with bob."},
		{"share repeat", Result{Command: NameShareCalendar, Calendar: "Work", Recipient: "bob"}, "Calendar 'Work' is already shared with bob."},
		{"share event", Result{Command: NameShareEvent, Title: "Demo", Recipient: "bob", Added: true}, "Event 'Demo' shared with bob."},
		{"public", Result{Command: NameTogglePrivacy, Calendar: "Work", IsPublic: true}, "Calendar 'Work' is now public."},
		{"private", Result{Command: NameTogglePrivacy, Calendar: "Work"}, "Calendar 'Work' is now private."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{tc.want}, Render(tc.res))
		})
	}
}

func TestRenderMonth(t *testing.T) {
	cal, err := domain.NewCalendar("Work", "alice", "", false)
	require.NoError(t, err)
	ev, err := domain.NewEvent("Review",
		time.Date(2025, 2, 3, 14, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 3, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, cal.AddEvent(ev))

	view, err := cal.ViewMonth("alice", 2025, 2)
	require.NoError(t, err)

	lines := Render(Result{Command: NameViewCalendar, View: view})
	require.Len(t, lines, 3+28*2)
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "Calendar: Work (Time Zone: UTC) - February 2025", lines[1])
	assert.Equal(t, "02/01:", lines[3])
	assert.Equal(t, "  - No events", lines[4])
	assert.Equal(t, "02/03:", lines[7])
	assert.Equal(t, "  - [14:00 - 15:30] Review", lines[8])

	assert.Nil(t, RenderMonth(nil))
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		err  error
		want string
	}{
		{"no session", CreateCalendar{Calendar: "Work"}, domain.ErrNoSession, "No user currently logged in."},
		{"duplicate", Register{Username: "alice"}, fmt.Errorf("register: %w", store.ErrUsernameExists), "Username already exists. Please choose another one."},
		{"overlap", AddEvent{}, &domain.OverlapError{}, "Error: Event overlaps with an existing event."},
		{"access", ViewCalendar{}, domain.ErrAccessDenied, "Access denied. This is a private calendar."},
		{"login unknown", Login{Username: "x"}, store.ErrUserNotFound, "User not found. Please register first."},
		{"share unknown", ShareCalendar{Recipient: "x"}, store.ErrUserNotFound, "User not found."},
		{
			"delete missing event",
			DeleteEvent{Calendar: "Work", Title: "Demo"},
			domain.ErrEventNotFound,
			"Error: Event 'Demo' not found in calendar 'Work'. Please check the event name and try again.",
		},
		{"update missing event", UpdateEvent{Title: "Demo"}, domain.ErrEventNotFound, "Event 'Demo' not found."},
		{"delete missing calendar", DeleteCalendar{Calendar: "Work"}, domain.ErrCalendarNotFound, "Calendar 'Work' not found."},
		{"missing calendar", AddEvent{Calendar: "Work"}, domain.ErrCalendarNotFound, "Calendar not found."},
		{"delete event from missing calendar", DeleteEvent{Calendar: "Home", Title: "Standup"}, domain.ErrCalendarNotFound, "Error: Calendar not found."},
		{"bad offset", SetTimezone{Offset: "x"}, domain.ErrValidation, "Invalid timezone format. Please enter a numeric value (e.g., -5 for UTC-5)."},
		{"bad month", ViewCalendar{Month: 13}, domain.ErrValidation, "Invalid input for year or month."},
		{
			"field validation",
			AddEvent{},
			domain.NewValidationError("title", "cannot be empty", domain.ErrValidation),
			"Invalid title: cannot be empty.",
		},
		{"unexpected", Logout{}, errors.New("boom"), "Something went wrong. Please try again."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RenderError(tc.cmd, tc.err))
		})
	}
}
