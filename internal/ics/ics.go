// Package ics converts calendars to and from iCalendar (RFC 5545) documents.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/phrazzld/calshare/internal/domain"
)

// ProductID identifies documents produced by this package.
const ProductID = "-//calshare//EN"

// Non-standard calendar properties understood by most clients.
const (
	propCalendarName = "X-WR-CALNAME"
	propTimeZone     = "X-WR-TIMEZONE"
)

// attendeePrefix turns a username into the URI an ATTENDEE value requires.
const attendeePrefix = "urn:calshare:user:"

// Encode writes cal as a VCALENDAR with one VEVENT per event.
func Encode(w io.Writer, cal domain.CalendarSnapshot) error {
	doc := ical.NewCalendar()
	doc.Props.SetText(ical.PropVersion, "2.0")
	doc.Props.SetText(ical.PropProductID, ProductID)
	doc.Props.SetText(propCalendarName, cal.Name)
	doc.Props.SetText(propTimeZone, cal.TimeZone)

	stamp := time.Now().UTC()
	for _, e := range cal.Events {
		doc.Children = append(doc.Children, toVEvent(e, stamp))
	}

	if err := ical.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode calendar %q: %w", cal.Name, err)
	}
	return nil
}

func toVEvent(e domain.EventSnapshot, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.ID.String())
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())

	for _, username := range e.SharedWith {
		p := ical.NewProp(ical.PropAttendee)
		p.Value = attendeePrefix + username
		p.Params.Set(ical.ParamCommonName, username)
		ve.Props.Add(p)
	}
	return ve
}

// Decode reads every VEVENT of every VCALENDAR in r and turns it into a new
// domain.Event. Events get fresh IDs; attendees become share entries.
// Malformed input and events without a summary, start or end fail with
// domain.ErrValidation.
func Decode(r io.Reader) ([]*domain.Event, error) {
	dec := ical.NewDecoder(r)

	var out []*domain.Event
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewValidationError("calendar", "is not a valid iCalendar document: "+err.Error(), nil)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			e, err := fromVEvent(comp)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	return out, nil
}

func fromVEvent(comp *ical.Component) (*domain.Event, error) {
	summary := comp.Props.Get(ical.PropSummary)
	if summary == nil {
		return nil, domain.NewValidationError("summary", "is required", nil)
	}
	title, err := summary.Text()
	if err != nil {
		return nil, domain.NewValidationError("summary", "is not text", nil)
	}

	start, err := dateTime(comp, ical.PropDateTimeStart)
	if err != nil {
		return nil, err
	}
	end, err := dateTime(comp, ical.PropDateTimeEnd)
	if err != nil {
		return nil, err
	}

	var attendees []string
	for _, p := range comp.Props.Values(ical.PropAttendee) {
		if username := attendeeUsername(p); username != "" {
			attendees = append(attendees, username)
		}
	}

	return domain.NewEvent(title, start, end, attendees...)
}

func dateTime(comp *ical.Component, name string) (time.Time, error) {
	prop := comp.Props.Get(name)
	if prop == nil {
		return time.Time{}, domain.NewValidationError(strings.ToLower(name), "is required", nil)
	}
	t, err := prop.DateTime(time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError(strings.ToLower(name), "is not a valid date-time", nil)
	}
	return t.UTC(), nil
}

func attendeeUsername(p ical.Prop) string {
	if strings.HasPrefix(p.Value, attendeePrefix) {
		return strings.TrimPrefix(p.Value, attendeePrefix)
	}
	return p.Params.Get(ical.ParamCommonName)
}
