package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/calshare/internal/api/middleware"
	"github.com/phrazzld/calshare/internal/api/shared"
	"github.com/phrazzld/calshare/internal/domain"
	"github.com/phrazzld/calshare/internal/events"
	"github.com/phrazzld/calshare/internal/service"
)

// CalendarHandler handles calendar, event, timezone and notification requests
// of an authenticated session.
type CalendarHandler struct {
	calendars service.CalendarService
	inbox     *events.Inbox
	logger    *slog.Logger
}

// NewCalendarHandler creates a new CalendarHandler. A nil inbox makes the
// notifications endpoint return an empty list.
func NewCalendarHandler(calendars service.CalendarService, inbox *events.Inbox, logger *slog.Logger) *CalendarHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarHandler{
		calendars: calendars,
		inbox:     inbox,
		logger:    logger.With("component", "calendar_handler"),
	}
}

// ListCalendars handles GET /api/calendars.
func (h *CalendarHandler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r)
	cals, err := h.calendars.ListCalendars(r.Context(), session)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cals)
}

// CreateCalendar handles POST /api/calendars.
func (h *CalendarHandler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var req CreateCalendarRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, shared.ValidationFailure(err))
		return
	}

	session, _ := middleware.GetSession(r)
	cal, err := h.calendars.CreateCalendar(r.Context(), session, req.Name, req.TimeZone, req.IsPublic)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, cal)
}

// DeleteCalendar handles DELETE /api/calendars/{name}.
func (h *CalendarHandler) DeleteCalendar(w http.ResponseWriter, r *http.Request) {
	name, err := shared.PathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, _ := middleware.GetSession(r)
	if err := h.calendars.DeleteCalendar(r.Context(), session, name); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ShareCalendar handles POST /api/calendars/{name}/share.
func (h *CalendarHandler) ShareCalendar(w http.ResponseWriter, r *http.Request) {
	name, err := shared.PathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	var req ShareRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, shared.ValidationFailure(err))
		return
	}

	session, _ := middleware.GetSession(r)
	added, err := h.calendars.ShareCalendar(r.Context(), session, name, req.Username)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ShareResponse{Username: req.Username, Added: added})
}

// ToggleVisibility handles POST /api/calendars/{name}/visibility.
func (h *CalendarHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	name, err := shared.PathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, _ := middleware.GetSession(r)
	isPublic, err := h.calendars.TogglePrivacy(r.Context(), session, name)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, VisibilityResponse{Calendar: name, IsPublic: isPublic})
}

// ViewMonth handles GET /api/users/{owner}/calendars/{name}/months/{year}/{month}.
func (h *CalendarHandler) ViewMonth(w http.ResponseWriter, r *http.Request) {
	owner, name, err := ownerAndName(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	month, err := intParam(r, "month")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, _ := middleware.GetSession(r)
	view, err := h.calendars.ViewCalendar(r.Context(), session, owner, name, year, month)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// ExportICS handles GET /api/users/{owner}/calendars/{name}/ics.
func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	owner, name, err := ownerAndName(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	// Encode fully before writing so failures still get a JSON error body.
	var buf bytes.Buffer
	session, _ := middleware.GetSession(r)
	if err := h.calendars.ExportICS(r.Context(), session, owner, name, &buf); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name+".ics"))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write calendar export", "error", err)
	}
}

// ImportICS handles POST /api/calendars/{name}/ics with a text/calendar body.
func (h *CalendarHandler) ImportICS(w http.ResponseWriter, r *http.Request) {
	name, err := shared.PathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, _ := middleware.GetSession(r)
	body := http.MaxBytesReader(w, r.Body, shared.MaxBodyBytes)
	n, err := h.calendars.ImportICS(r.Context(), session, name, body)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{Calendar: name, Imported: n})
}

// SetTimezone handles PUT /api/me/timezone.
func (h *CalendarHandler) SetTimezone(w http.ResponseWriter, r *http.Request) {
	var req SetTimezoneRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, shared.ValidationFailure(err))
		return
	}

	session, _ := middleware.GetSession(r)
	offset, err := h.calendars.SetTimezone(r.Context(), session, req.Offset.String())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TimezoneResponse{
		Offset: offset,
		Label:  domain.FormatOffset(offset),
	})
}

// ListNotifications handles GET /api/me/notifications.
func (h *CalendarHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrNoSession)
		return
	}
	list := []*events.Notification{}
	if h.inbox != nil {
		if got := h.inbox.For(session.Username()); got != nil {
			list = got
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, list)
}

func ownerAndName(r *http.Request) (string, string, error) {
	owner, err := shared.PathParam(r, "owner")
	if err != nil {
		return "", "", err
	}
	name, err := shared.PathParam(r, "name")
	if err != nil {
		return "", "", err
	}
	return owner, name, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw, err := shared.PathParam(r, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", nil)
	}
	return n, nil
}

// parseTime parses a "2006-01-02 15:04" timestamp as UTC.
func parseTime(field, raw string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.TimeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must use the format "+domain.TimeLayout, nil)
	}
	return t, nil
}
