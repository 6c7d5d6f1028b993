package domain

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalendar(t *testing.T, isPublic bool) *Calendar {
	t.Helper()
	c, err := NewCalendar("Work", "owner", "", isPublic)
	require.NoError(t, err)
	return c
}

func mustEvent(t *testing.T, title string, start, end time.Time) *Event {
	t.Helper()
	e, err := NewEvent(title, start, end)
	require.NoError(t, err)
	return e
}

func TestNewCalendar(t *testing.T) {
	c, err := NewCalendar(" Work ", "owner", "", false)
	require.NoError(t, err)
	assert.Equal(t, "Work", c.Name)
	assert.Equal(t, "owner", c.Owner)
	assert.Equal(t, DefaultTimeZone, c.TimeZone)
	assert.False(t, c.IsPublic())

	_, err = NewCalendar("", "owner", "UTC", false)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewCalendar("Work", "", "UTC", false)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalendarAddEventRejectsOverlap(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"starts inside", at(2024, 1, 1, 9, 30), at(2024, 1, 1, 10, 30)},
		{"ends inside", at(2024, 1, 1, 8, 30), at(2024, 1, 1, 9, 30)},
		{"contains existing", at(2024, 1, 1, 8, 0), at(2024, 1, 1, 11, 0)},
		{"inside existing", at(2024, 1, 1, 9, 10), at(2024, 1, 1, 9, 20)},
		{"identical", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCalendar(t, false)
			first := mustEvent(t, "Standup", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0))
			require.NoError(t, c.AddEvent(first))
			before := c.Events()

			err := c.AddEvent(mustEvent(t, "Clash", tc.start, tc.end))
			require.ErrorIs(t, err, ErrOverlap)

			var overlapErr *OverlapError
			require.True(t, errors.As(err, &overlapErr))
			assert.Equal(t, first.ID, overlapErr.Conflict.ID)
			assert.Equal(t, before, c.Events(), "calendar must be unchanged")
		})
	}
}

func TestCalendarAddEventTouchingEndpoints(t *testing.T) {
	c := newTestCalendar(t, false)
	require.NoError(t, c.AddEvent(mustEvent(t, "First", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0))))
	require.NoError(t, c.AddEvent(mustEvent(t, "Second", at(2024, 1, 1, 10, 0), at(2024, 1, 1, 11, 0))))
	require.NoError(t, c.AddEvent(mustEvent(t, "Zeroth", at(2024, 1, 1, 8, 0), at(2024, 1, 1, 9, 0))))

	events := c.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "First", events[0].Title, "insertion order is preserved")
	assert.Equal(t, "Second", events[1].Title)
	assert.Equal(t, "Zeroth", events[2].Title)
}

func TestCalendarAddEvents(t *testing.T) {
	t.Run("all added", func(t *testing.T) {
		c := newTestCalendar(t, false)
		err := c.AddEvents(
			mustEvent(t, "A", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0)),
			mustEvent(t, "B", at(2024, 1, 1, 10, 0), at(2024, 1, 1, 11, 0)),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("conflict with existing adds nothing", func(t *testing.T) {
		c := newTestCalendar(t, false)
		require.NoError(t, c.AddEvent(mustEvent(t, "Existing", at(2024, 1, 1, 12, 0), at(2024, 1, 1, 13, 0))))
		err := c.AddEvents(
			mustEvent(t, "A", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0)),
			mustEvent(t, "B", at(2024, 1, 1, 12, 30), at(2024, 1, 1, 14, 0)),
		)
		require.ErrorIs(t, err, ErrOverlap)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("conflict within batch adds nothing", func(t *testing.T) {
		c := newTestCalendar(t, false)
		err := c.AddEvents(
			mustEvent(t, "A", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0)),
			mustEvent(t, "B", at(2024, 1, 1, 9, 30), at(2024, 1, 1, 11, 0)),
		)
		var overlapErr *OverlapError
		require.True(t, errors.As(err, &overlapErr))
		assert.Equal(t, "A", overlapErr.Conflict.Title)
		assert.Equal(t, 0, c.Len())
	})
}

func TestCalendarRemoveEvent(t *testing.T) {
	c := newTestCalendar(t, false)
	require.NoError(t, c.AddEvent(mustEvent(t, "Standup", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0))))
	require.NoError(t, c.AddEvent(mustEvent(t, "STANDUP", at(2024, 1, 2, 9, 0), at(2024, 1, 2, 10, 0))))

	removed, err := c.RemoveEvent("standup")
	require.NoError(t, err)
	assert.Equal(t, at(2024, 1, 1, 9, 0), removed.Start, "first match is removed")
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "STANDUP", c.Events()[0].Title)

	_, err = c.RemoveEvent("retro")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, c.Len())
}

func TestCalendarUpdateEvent(t *testing.T) {
	setup := func(t *testing.T) *Calendar {
		c := newTestCalendar(t, false)
		require.NoError(t, c.AddEvent(mustEvent(t, "Standup", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0))))
		require.NoError(t, c.AddEvent(mustEvent(t, "Lunch", at(2024, 1, 1, 12, 0), at(2024, 1, 1, 13, 0))))
		return c
	}

	t.Run("title lookup is case sensitive", func(t *testing.T) {
		c := setup(t)
		_, err := c.UpdateEvent("standup", EventUpdate{Title: strPtr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("updates fields", func(t *testing.T) {
		c := setup(t)
		updated, err := c.UpdateEvent("Standup", EventUpdate{
			Title: strPtr("Sync"),
			End:   timePtr(at(2024, 1, 1, 11, 0)),
		})
		require.NoError(t, err)
		assert.Equal(t, "Sync", updated.Title)
		assert.Equal(t, at(2024, 1, 1, 11, 0), updated.End)
		assert.Equal(t, "Sync", c.Events()[0].Title)
	})

	t.Run("invalid interval rejected", func(t *testing.T) {
		c := setup(t)
		before := c.Events()
		_, err := c.UpdateEvent("Standup", EventUpdate{End: timePtr(at(2024, 1, 1, 8, 0))})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, before, c.Events())
	})

	t.Run("overlap with another event rejected", func(t *testing.T) {
		c := setup(t)
		before := c.Events()
		_, err := c.UpdateEvent("Standup", EventUpdate{End: timePtr(at(2024, 1, 1, 12, 30))})
		assert.ErrorIs(t, err, ErrOverlap)
		assert.Equal(t, before, c.Events())
	})

	t.Run("overlap with itself allowed", func(t *testing.T) {
		c := setup(t)
		_, err := c.UpdateEvent("Standup", EventUpdate{Start: timePtr(at(2024, 1, 1, 9, 30))})
		assert.NoError(t, err)
	})
}

func TestCalendarShare(t *testing.T) {
	c := newTestCalendar(t, false)
	assert.True(t, c.Share("alice"))
	assert.False(t, c.Share("alice"))
	assert.True(t, c.Share("bob"))
	assert.Equal(t, []string{"alice", "bob"}, c.SharedWith())
}

func TestCalendarShareEvent(t *testing.T) {
	c := newTestCalendar(t, false)
	require.NoError(t, c.AddEvent(mustEvent(t, "Standup", at(2024, 1, 1, 9, 0), at(2024, 1, 1, 10, 0))))

	added, err := c.ShareEvent("Standup", "alice")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = c.ShareEvent("Standup", "alice")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = c.ShareEvent("Retro", "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"alice"}, c.Events()[0].SharedWith)
}

func TestCalendarTogglePublicClearsSharesWhenBecomingPublic(t *testing.T) {
	c := newTestCalendar(t, false)
	c.Share("alice")
	c.Share("bob")

	assert.True(t, c.TogglePublic())
	assert.True(t, c.IsPublic())
	assert.Empty(t, c.SharedWith())

	assert.False(t, c.TogglePublic())
	assert.Empty(t, c.SharedWith(), "share list stays empty after going private")

	c.Share("carol")
	assert.Equal(t, []string{"carol"}, c.SharedWith())
	assert.True(t, c.TogglePublic())
	assert.Empty(t, c.SharedWith())
}

func TestCalendarTogglePrivateKeepsShares(t *testing.T) {
	c := newTestCalendar(t, true)
	c.Share("alice")

	assert.False(t, c.TogglePublic())
	assert.Equal(t, []string{"alice"}, c.SharedWith())
}

func TestCalendarCanView(t *testing.T) {
	c := newTestCalendar(t, false)
	c.Share("alice")

	assert.True(t, c.CanView("owner"))
	assert.True(t, c.CanView("alice"))
	assert.False(t, c.CanView("mallory"))

	c.TogglePublic()
	assert.True(t, c.CanView("mallory"))
}

func TestCalendarSnapshotFor(t *testing.T) {
	c := newTestCalendar(t, false)
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	require.NoError(t, c.AddEvent(mustEvent(t, "Standup", start, start.Add(time.Hour))))

	snap, err := c.SnapshotFor("owner")
	require.NoError(t, err)
	assert.Len(t, snap.Events, 1)

	_, err = c.SnapshotFor("mallory")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCalendarSnapshotForNeverLeaksPrivateState(t *testing.T) {
	c := newTestCalendar(t, true)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			c.TogglePublic()
		}
	}()

	for i := 0; i < 500; i++ {
		snap, err := c.SnapshotFor("mallory")
		if err != nil {
			assert.ErrorIs(t, err, ErrAccessDenied)
			continue
		}
		assert.True(t, snap.IsPublic, "a stranger may only see a public snapshot")
	}
	wg.Wait()
}
