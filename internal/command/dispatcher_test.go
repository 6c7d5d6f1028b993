package command

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	svc := testutils.NewServices(t, nil)
	return NewDispatcher(svc.Registry, svc.Sessions, svc.Calendars)
}

func mustDispatch(t *testing.T, d *Dispatcher, cmd Command) Result {
	t.Helper()
	res, err := d.Dispatch(context.Background(), cmd)
	require.NoError(t, err, "dispatch %s", cmd.Name())
	return res
}

func mustTime(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, err := ParseTime(raw)
	require.NoError(t, err)
	return ts
}

func TestParseTime(t *testing.T) {
	ts, err := ParseTime(" 2025-01-15 09:30 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC), ts)

	for _, raw := range []string{"", "2025-01-15", "15/01/2025 09:30", "2025-13-01 10:00"} {
		_, err := ParseTime(raw)
		assert.ErrorIs(t, err, domain.ErrValidation, raw)
	}
}

func TestDispatcher_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	d := newDispatcher(t)

	mustDispatch(t, d, Register{Username: "alice"})
	mustDispatch(t, d, Register{Username: "bob"})
	assert.Nil(t, d.Session(), "register does not log in")

	_, err := d.Dispatch(ctx, Logout{})
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = d.Dispatch(ctx, Login{Username: "nobody"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, d.Session())

	res := mustDispatch(t, d, Login{Username: "alice"})
	assert.Equal(t, "alice", res.Username)
	require.NotNil(t, d.Session())
	assert.Equal(t, "alice", d.Session().Username())

	_, err = d.Dispatch(ctx, Login{Username: "nobody"})
	require.Error(t, err)
	assert.Equal(t, "alice", d.Session().Username(), "failed login keeps the session")

	mustDispatch(t, d, Login{Username: "bob"})
	assert.Equal(t, "bob", d.Session().Username(), "login replaces the session")

	res = mustDispatch(t, d, Logout{})
	assert.Equal(t, "bob", res.Username)
	assert.Nil(t, d.Session())
}

func TestDispatcher_CalendarCommandsRequireLogin(t *testing.T) {
	d := newDispatcher(t)

	_, err := d.Dispatch(context.Background(), CreateCalendar{Calendar: "Work"})
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestDispatcher_CalendarWorkflow(t *testing.T) {
	ctx := context.Background()
	d := newDispatcher(t)
	mustDispatch(t, d, Register{Username: "bob"})
	mustDispatch(t, d, Register{Username: "alice"})
	mustDispatch(t, d, Login{Username: "alice"})

	res := mustDispatch(t, d, CreateCalendar{Calendar: "Work"})
	assert.Equal(t, "Work", res.Calendar)
	assert.False(t, res.IsPublic)

	res = mustDispatch(t, d, AddEvent{
		Calendar: "Work",
		Title:    "Standup",
		Start:    mustTime(t, "2025-01-06 09:00"),
		End:      mustTime(t, "2025-01-06 09:15"),
	})
	assert.Equal(t, "Standup", res.Title)

	_, err := d.Dispatch(ctx, AddEvent{
		Calendar: "Work",
		Title:    "Clash",
		Start:    mustTime(t, "2025-01-06 09:10"),
		End:      mustTime(t, "2025-01-06 10:00"),
	})
	assert.ErrorIs(t, err, domain.ErrOverlap)

	newTitle := "Daily standup"
	res = mustDispatch(t, d, UpdateEvent{
		Calendar: "Work",
		Title:    "Standup",
		Update:   domain.EventUpdate{Title: &newTitle},
	})
	assert.Equal(t, "Daily standup", res.Event.Title)

	res = mustDispatch(t, d, ShareCalendar{Calendar: "Work", Recipient: "bob"})
	assert.True(t, res.Added)
	res = mustDispatch(t, d, ShareCalendar{Calendar: "Work", Recipient: "bob"})
	assert.False(t, res.Added)

	res = mustDispatch(t, d, ShareEvent{Calendar: "Work", Title: "Daily standup", Recipient: "bob"})
	assert.True(t, res.Added)

	res = mustDispatch(t, d, TogglePrivacy{Calendar: "Work"})
	assert.True(t, res.IsPublic)

	res = mustDispatch(t, d, SetTimezone{Offset: "+2"})
	assert.Equal(t, 2, res.Offset)

	res = mustDispatch(t, d, ViewCalendar{Calendar: "Work", Year: 2025, Month: 1})
	require.NotNil(t, res.View)
	require.Len(t, res.View.Days, 31)
	require.Len(t, res.View.Days[5].Events, 1)
	assert.Equal(t, "11:00", res.View.Days[5].Events[0].Start)

	mustDispatch(t, d, DeleteEvent{Calendar: "Work", Title: "Daily standup"})
	_, err = d.Dispatch(ctx, DeleteEvent{Calendar: "Work", Title: "Daily standup"})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	mustDispatch(t, d, DeleteCalendar{Calendar: "Work"})
	_, err = d.Dispatch(ctx, DeleteCalendar{Calendar: "Work"})
	assert.ErrorIs(t, err, domain.ErrCalendarNotFound)
}

func TestDispatcher_ViewOtherUsersCalendar(t *testing.T) {
	ctx := context.Background()
	d := newDispatcher(t)
	mustDispatch(t, d, Register{Username: "alice"})
	mustDispatch(t, d, Register{Username: "bob"})

	mustDispatch(t, d, Login{Username: "alice"})
	mustDispatch(t, d, CreateCalendar{Calendar: "Private"})
	mustDispatch(t, d, CreateCalendar{Calendar: "Open", IsPublic: true})

	mustDispatch(t, d, Login{Username: "bob"})
	_, err := d.Dispatch(ctx, ViewCalendar{Owner: "alice", Calendar: "Private", Year: 2025, Month: 2})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	res := mustDispatch(t, d, ViewCalendar{Owner: "alice", Calendar: "Open", Year: 2024, Month: 2})
	assert.Len(t, res.View.Days, 29)
}

type unknownCommand struct{}

func (unknownCommand) Name() string { return "dance" }

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, err := newDispatcher(t).Dispatch(context.Background(), unknownCommand{})
	assert.ErrorContains(t, err, `unknown command "dance"`)
}
