package api

import (
	"net/http"

	"github.com/phrazzld/calshare/internal/api/middleware"
	"github.com/phrazzld/calshare/internal/api/shared"
	"github.com/phrazzld/calshare/internal/domain"
)

// AddEvent handles POST /api/calendars/{name}/events.
func (h *CalendarHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	name, err := shared.PathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	var req CreateEventRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, shared.ValidationFailure(err))
		return
	}
	start, err := parseTime("start", req.Start)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	end, err := parseTime("end", req.End)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, _ := middleware.GetSession(r)
	event, err := h.calendars.AddEvent(r.Context(), session, name, req.Title, start, end)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, event)
}

// UpdateEvent handles PATCH /api/calendars/{name}/events/{title}.
func (h *CalendarHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	name, err := shared.PathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	title, err := shared.PathParam(r, "title")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	var req UpdateEventRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, shared.ValidationFailure(err))
		return
	}

	update, err := req.toUpdate()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, _ := middleware.GetSession(r)
	event, err := h.calendars.UpdateEvent(r.Context(), session, name, title, update)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, event)
}

func (req UpdateEventRequest) toUpdate() (domain.EventUpdate, error) {
	update := domain.EventUpdate{Title: req.Title}
	if req.Start != nil {
		start, err := parseTime("start", *req.Start)
		if err != nil {
			return domain.EventUpdate{}, err
		}
		update.Start = &start
	}
	if req.End != nil {
		end, err := parseTime("end", *req.End)
		if err != nil {
			return domain.EventUpdate{}, err
		}
		update.End = &end
	}
	if update.IsEmpty() {
		return domain.EventUpdate{}, domain.NewValidationError("", "no fields to update", nil)
	}
	return update, nil
}

// DeleteEvent handles DELETE /api/calendars/{name}/events/{title}.
// The title is matched case-insensitively.
func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	name, err := shared.PathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	title, err := shared.PathParam(r, "title")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, _ := middleware.GetSession(r)
	if _, err := h.calendars.RemoveEvent(r.Context(), session, name, title); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ShareEvent handles POST /api/calendars/{name}/events/{title}/share.
func (h *CalendarHandler) ShareEvent(w http.ResponseWriter, r *http.Request) {
	name, err := shared.PathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	title, err := shared.PathParam(r, "title")
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
	added, err := h.calendars.ShareEvent(r.Context(), session, name, title, req.Username)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ShareResponse{Username: req.Username, Added: added})
}
