package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(2024, time.January))
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 28, DaysIn(1900, time.February))
	assert.Equal(t, 29, DaysIn(2000, time.February))
	assert.Equal(t, 30, DaysIn(2024, time.April))
	assert.Equal(t, 31, DaysIn(2024, time.December))
}

func TestViewMonth(t *testing.T) {
	c := newTestCalendar(t, false)
	require.NoError(t, c.AddEvent(mustEvent(t, "Late", at(2024, 2, 29, 14, 0), at(2024, 2, 29, 15, 30))))
	require.NoError(t, c.AddEvent(mustEvent(t, "Early", at(2024, 2, 29, 8, 0), at(2024, 2, 29, 9, 0))))
	require.NoError(t, c.AddEvent(mustEvent(t, "Overnight", at(2024, 2, 1, 23, 0), at(2024, 2, 2, 1, 0))))
	require.NoError(t, c.AddEvent(mustEvent(t, "March", at(2024, 3, 1, 9, 0), at(2024, 3, 1, 10, 0))))

	view, err := c.ViewMonth("owner", 2024, 2)
	require.NoError(t, err)

	assert.Equal(t, "Work", view.Calendar)
	assert.Equal(t, "UTC", view.TimeZone)
	require.Len(t, view.Days, 29)

	first := view.Days[0]
	assert.Equal(t, "2024-02-01", first.Date)
	assert.False(t, first.NoEvents)
	assert.Equal(t, []DayEntry{{Title: "Overnight", Start: "23:00", End: "01:00"}}, first.Events)

	second := view.Days[1]
	assert.True(t, second.NoEvents, "events are listed on their start date only")
	assert.Empty(t, second.Events)

	last := view.Days[28]
	assert.Equal(t, 29, last.Day)
	assert.Equal(t, []DayEntry{
		{Title: "Late", Start: "14:00", End: "15:30"},
		{Title: "Early", Start: "08:00", End: "09:00"},
	}, last.Events, "insertion order is kept within a day")
}

func TestViewMonthAccessDenied(t *testing.T) {
	c := newTestCalendar(t, false)
	require.NoError(t, c.AddEvent(mustEvent(t, "Secret", at(2024, 1, 5, 9, 0), at(2024, 1, 5, 10, 0))))
	before := c.Events()

	view, err := c.ViewMonth("stranger", 2024, 1)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, view)
	assert.Equal(t, before, c.Events())

	c.Share("friend")
	_, err = c.ViewMonth("friend", 2024, 1)
	assert.NoError(t, err)
}

func TestViewMonthAccessCheckedBeforeInput(t *testing.T) {
	c := newTestCalendar(t, false)
	_, err := c.ViewMonth("stranger", 2024, 13)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestViewMonthInvalidInput(t *testing.T) {
	c := newTestCalendar(t, true)

	_, err := c.ViewMonth("anyone", 2024, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.ViewMonth("anyone", 2024, 13)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.ViewMonth("anyone", 0, 1)
	assert.ErrorIs(t, err, ErrValidation)
}
