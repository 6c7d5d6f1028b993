package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/calshare/internal/command"
)

const (
	guestPrompt = "Enter 'login', 'register', or 'exit': "
	menuPrompt  = "Enter command (create_calendar, add_event, view_calendar, update_event, delete_event, " +
		"delete_calendar, set_timezone, share_calendar, share_event, toggle_privacy, logout, exit): "
)

const badDateInput = "Invalid date format. Use YYYY-MM-DD HH:MM."

type repl struct {
	in  *bufio.Scanner
	out io.Writer
	d   *command.Dispatcher
}

func newREPL(in io.Reader, out io.Writer, d *command.Dispatcher) *repl {
	return &repl{in: bufio.NewScanner(in), out: out, d: d}
}

// run reads commands until "exit", end of input or ctx is canceled.
func (r *repl) run(ctx context.Context) error {
	r.println("Welcome to the Calendar App!")

	for ctx.Err() == nil {
		var (
			cmd command.Command
			ok  bool
			err error
		)
		if r.d.Session() == nil {
			cmd, ok, err = r.readGuestCommand()
		} else {
			cmd, ok, err = r.readUserCommand()
		}
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if cmd == nil {
			continue
		}

		res, err := r.d.Dispatch(ctx, cmd)
		if err != nil {
			r.println(command.RenderError(cmd, err))
			continue
		}
		for _, line := range command.Render(res) {
			r.println(line)
		}
	}
	return nil
}

func (r *repl) println(line string) {
	fmt.Fprintln(r.out, line)
}

// prompt writes msg and returns the next trimmed input line. ok is false at
// end of input.
func (r *repl) prompt(msg string) (string, bool, error) {
	fmt.Fprint(r.out, msg)
	if !r.in.Scan() {
		return "", false, r.in.Err()
	}
	return strings.TrimSpace(r.in.Text()), true, nil
}

// readGuestCommand reads one of the commands available before login. A nil
// command with ok set means the input was rejected and already reported.
func (r *repl) readGuestCommand() (command.Command, bool, error) {
	action, ok, err := r.prompt(guestPrompt)
	if !ok || err != nil {
		return nil, false, err
	}

	switch strings.ToLower(action) {
	case "register":
		name, ok, err := r.prompt("Enter a username: ")
		if !ok || err != nil {
			return nil, false, err
		}
		return command.Register{Username: name}, true, nil
	case "login":
		name, ok, err := r.prompt("Enter your username: ")
		if !ok || err != nil {
			return nil, false, err
		}
		return command.Login{Username: name}, true, nil
	case "exit":
		return nil, false, nil
	}
	r.println("Invalid command. Please try again.")
	return nil, true, nil
}

// form collects answers to a fixed sequence of prompts, stopping at the
// first end of input or read error.
type form struct {
	r   *repl
	ok  bool
	err error
}

func (r *repl) form() *form {
	return &form{r: r, ok: true}
}

func (f *form) ask(msg string) string {
	if !f.ok || f.err != nil {
		return ""
	}
	var answer string
	answer, f.ok, f.err = f.r.prompt(msg)
	return answer
}

func (r *repl) readUserCommand() (command.Command, bool, error) {
	name, ok, err := r.prompt(menuPrompt)
	if !ok || err != nil {
		return nil, false, err
	}

	f := r.form()
	var cmd command.Command

	switch strings.ToLower(name) {
	case command.NameCreateCalendar:
		c := command.CreateCalendar{Calendar: f.ask("Enter calendar name: ")}
		c.TimeZone = f.ask("Enter time zone label (press Enter for UTC): ")
		c.IsPublic = isYes(f.ask("Make the calendar public? (y/N): "))
		cmd = c

	case command.NameAddEvent:
		c := command.AddEvent{
			Calendar: f.ask("Enter calendar name: "),
			Title:    f.ask("Enter event title: "),
		}
		start := f.ask("Enter start time (YYYY-MM-DD HH:MM): ")
		end := f.ask("Enter end time (YYYY-MM-DD HH:MM): ")
		if f.ok && f.err == nil {
			var startErr, endErr error
			c.Start, startErr = command.ParseTime(start)
			c.End, endErr = command.ParseTime(end)
			if startErr != nil || endErr != nil {
				r.println(badDateInput)
				return nil, true, nil
			}
		}
		cmd = c

	case command.NameViewCalendar:
		c := command.ViewCalendar{
			Calendar: f.ask("Enter calendar name: "),
			Owner:    f.ask("Enter owner username (press Enter for your own): "),
		}
		year := f.ask("Enter year: ")
		month := f.ask("Enter month (1-12): ")
		if f.ok && f.err == nil {
			var yearErr, monthErr error
			c.Year, yearErr = strconv.Atoi(year)
			c.Month, monthErr = strconv.Atoi(month)
			if yearErr != nil || monthErr != nil {
				r.println("Invalid input for year or month.")
				return nil, true, nil
			}
		}
		cmd = c

	case command.NameUpdateEvent:
		c := command.UpdateEvent{
			Calendar: f.ask("Enter calendar name: "),
			Title:    f.ask("Enter event title to update: "),
		}
		if title := f.ask("Enter new title (press Enter to keep current): "); title != "" {
			c.Update.Title = &title
		}
		c.Update.Start = r.askOptionalTime(f, "Enter new start time (YYYY-MM-DD HH:MM, press Enter to keep current): ")
		c.Update.End = r.askOptionalTime(f, "Enter new end time (YYYY-MM-DD HH:MM, press Enter to keep current): ")
		cmd = c

	case command.NameDeleteEvent:
		cmd = command.DeleteEvent{
			Calendar: f.ask("Enter calendar name: "),
			Title:    f.ask("Enter event title to delete: "),
		}

	case command.NameDeleteCalendar:
		cmd = command.DeleteCalendar{Calendar: f.ask("Enter calendar name to delete: ")}

	case command.NameSetTimezone:
		cmd = command.SetTimezone{Offset: f.ask("Enter new timezone offset (e.g., -5 for UTC-5): ")}

	case command.NameShareCalendar:
		cmd = command.ShareCalendar{
			Calendar:  f.ask("Enter calendar name: "),
			Recipient: f.ask("Enter username to share with: "),
		}

	case command.NameShareEvent:
		cmd = command.ShareEvent{
			Calendar:  f.ask("Enter calendar name: "),
			Title:     f.ask("Enter event title to share: "),
			Recipient: f.ask("Enter username to share with: "),
		}

	case command.NameTogglePrivacy:
		cmd = command.TogglePrivacy{Calendar: f.ask("Enter calendar name: ")}

	case command.NameLogout:
		return command.Logout{}, true, nil

	case "exit":
		return nil, false, nil

	default:
		r.println("Invalid command. Please try again.")
		return nil, true, nil
	}

	if !f.ok || f.err != nil {
		return nil, false, f.err
	}
	return cmd, true, nil
}

// askOptionalTime re-prompts until the answer is empty or a valid timestamp.
func (r *repl) askOptionalTime(f *form, msg string) *time.Time {
	for {
		raw := f.ask(msg)
		if raw == "" {
			return nil
		}
		t, err := command.ParseTime(raw)
		if err == nil {
			return &t
		}
		r.println("Invalid date format! Please use 'YYYY-MM-DD HH:MM'.")
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
