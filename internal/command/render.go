package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/store"
)

const eventTimeLayout = "2006-01-02 15:04:05"

// Render returns the text lines describing a successful result.
func Render(res Result) []string {
	switch res.Command {
	case NameRegister:
		return []string{fmt.Sprintf("User '%s' registered successfully.", res.Username)}
	case NameLogin:
		return []string{fmt.Sprintf("Welcome back, %s!", res.Username)}
	case NameLogout:
		return []string{fmt.Sprintf("User %s logged out.", res.Username)}
	case NameCreateCalendar:
		return []string{fmt.Sprintf("Calendar '%s' created.", res.Calendar)}
	case NameAddEvent:
		return []string{fmt.Sprintf("Event '%s' successfully added to '%s'.", res.Title, res.Calendar)}
	case NameViewCalendar:
		return RenderMonth(res.View)
	case NameUpdateEvent:
		return []string{fmt.Sprintf("Event updated: %s (%s to %s)",
			res.Event.Title,
			res.Event.Start.Format(eventTimeLayout),
			res.Event.End.Format(eventTimeLayout))}
	case NameDeleteEvent:
		return []string{fmt.Sprintf("Event '%s' successfully deleted from '%s'.", res.Title, res.Calendar)}
	case NameDeleteCalendar:
		return []string{fmt.Sprintf("Calendar '%s' deleted.", res.Calendar)}
	case NameSetTimezone:
		return []string{fmt.Sprintf("Timezone updated to UTC%+d. All event times adjusted.", res.Offset)}
	case NameShareCalendar:
		if !res.Added {
			return []string{fmt.Sprintf("Calendar '%s' is already shared with %s.", res.Calendar, res.Recipient)}
		}
		return []string{fmt.Sprintf("Calendar '%s' shared with %s.", res.Calendar, res.Recipient)}
	case NameShareEvent:
		if !res.Added {
			return []string{fmt.Sprintf("Event '%s' is already shared with %s.", res.Title, res.Recipient)}
		}
		return []string{fmt.Sprintf("Event '%s' shared with %s.", res.Title, res.Recipient)}
	case NameTogglePrivacy:
		state := "private"
		if res.IsPublic {
			state = "public"
		}
		return []string{fmt.Sprintf("Calendar '%s' is now %s.", res.Calendar, state)}
	}
	return nil
}

// RenderMonth lays out a month view as a header followed by one block per day.
func RenderMonth(view *domain.MonthView) []string {
	if view == nil {
		return nil
	}
	lines := []string{
		"",
		fmt.Sprintf("Calendar: %s (Time Zone: %s) - %s %d",
			view.Calendar, view.TimeZone, time.Month(view.Month), view.Year),
		"",
	}
	for _, day := range view.Days {
		lines = append(lines, fmt.Sprintf("%02d/%02d:", view.Month, day.Day))
		if day.NoEvents {
			lines = append(lines, "  - No events")
			continue
		}
		for _, e := range day.Events {
			lines = append(lines, fmt.Sprintf("  - [%s - %s] %s", e.Start, e.End, e.Title))
		}
	}
	return lines
}

// RenderError returns the message shown when cmd failed with err.
func RenderError(cmd Command, err error) string {
	var ve *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrNoSession):
		return "No user currently logged in."
	case errors.Is(err, domain.ErrDuplicateUser):
		return "Username already exists. Please choose another one."
	case errors.Is(err, domain.ErrOverlap):
		return "Error: Event overlaps with an existing event."
	case errors.Is(err, domain.ErrAccessDenied):
		return "Access denied. This is a private calendar."
	case errors.Is(err, store.ErrUserNotFound):
		if cmd.Name() == NameLogin {
			return "User not found. Please register first."
		}
		return "User not found."
	case errors.Is(err, domain.ErrEventNotFound):
		switch c := cmd.(type) {
		case DeleteEvent:
			return fmt.Sprintf("Error: Event '%s' not found in calendar '%s'. "+
				"Please check the event name and try again.", c.Title, c.Calendar)
		case UpdateEvent:
			return fmt.Sprintf("Event '%s' not found.", c.Title)
		case ShareEvent:
			return fmt.Sprintf("Event '%s' not found.", c.Title)
		}
		return "Event not found."
	case errors.Is(err, domain.ErrCalendarNotFound):
		switch c := cmd.(type) {
		case DeleteCalendar:
			return fmt.Sprintf("Calendar '%s' not found.", c.Calendar)
		case DeleteEvent:
			return "Error: Calendar not found."
		}
		return "Calendar not found."
	case errors.Is(err, domain.ErrValidation):
		switch cmd.Name() {
		case NameSetTimezone:
			return "Invalid timezone format. Please enter a numeric value (e.g., -5 for UTC-5)."
		case NameViewCalendar:
			return "Invalid input for year or month."
		}
		if errors.As(err, &ve) && ve.Field != "" {
			return fmt.Sprintf("Invalid %s: %s.", ve.Field, ve.Message)
		}
		return "Invalid input. Please try again."
	}
	return "Something went wrong. Please try again."
}
