package domain

import "time"

// MonthView is the per-day agenda of one calendar month.
type MonthView struct {
	Calendar string    `json:"calendar"`
	TimeZone string    `json:"time_zone"`
	Year     int       `json:"year"`
	Month    int       `json:"month"`
	Days     []DayView `json:"days"`
}

// DayView lists the events starting on one calendar date.
type DayView struct {
	Date     string     `json:"date"`
	Day      int        `json:"day"`
	NoEvents bool       `json:"no_events"`
	Events   []DayEntry `json:"events"`
}

// DayEntry is one event rendered in 24-hour local time.
type DayEntry struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaysIn returns the number of days in the given month, accounting for leap years.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ViewMonth returns the events of the given month grouped by the date their
// start falls on. It fails with ErrAccessDenied when actor may not view the
// calendar and does no further work in that case.
func (c *Calendar) ViewMonth(actor string, year, month int) (*MonthView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.canView(actor) {
		return nil, ErrAccessDenied
	}
	if month < 1 || month > 12 {
		return nil, NewValidationError("month", "must be between 1 and 12", ErrValidation)
	}
	if year < 1 || year > 9999 {
		return nil, NewValidationError("year", "must be between 1 and 9999", ErrValidation)
	}

	m := time.Month(month)
	n := DaysIn(year, m)
	view := &MonthView{
		Calendar: c.Name,
		TimeZone: c.TimeZone,
		Year:     year,
		Month:    month,
		Days:     make([]DayView, 0, n),
	}

	for day := 1; day <= n; day++ {
		dv := DayView{
			Date:   time.Date(year, m, day, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
			Day:    day,
			Events: []DayEntry{},
		}
		for _, e := range c.events {
			y, em, d := e.Start.Date()
			if y != year || em != m || d != day {
				continue
			}
			dv.Events = append(dv.Events, DayEntry{
				Title: e.Title,
				Start: e.Start.Format(clockLayout),
				End:   e.End.Format(clockLayout),
			})
		}
		dv.NoEvents = len(dv.Events) == 0
		view.Days = append(view.Days, dv)
	}

	return view, nil
}
