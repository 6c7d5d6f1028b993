package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/calshare/internal/api/middleware"
)

// RegisterRoutes mounts the calendar API under /api on r.
func RegisterRoutes(
	r chi.Router,
	authHandler *AuthHandler,
	calendarHandler *CalendarHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/users", authHandler.Register)
		r.With(authMiddleware.Optional).Post("/sessions", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Delete("/sessions/current", authHandler.Logout)
			r.Get("/users", authHandler.ListUsers)

			r.Put("/me/timezone", calendarHandler.SetTimezone)
			r.Get("/me/notifications", calendarHandler.ListNotifications)

			r.Get("/calendars", calendarHandler.ListCalendars)
			r.Post("/calendars", calendarHandler.CreateCalendar)
			r.Delete("/calendars/{name}", calendarHandler.DeleteCalendar)
			r.Post("/calendars/{name}/share", calendarHandler.ShareCalendar)
			r.Post("/calendars/{name}/visibility", calendarHandler.ToggleVisibility)
			r.Post("/calendars/{name}/ics", calendarHandler.ImportICS)

			r.Post("/calendars/{name}/events", calendarHandler.AddEvent)
			r.Patch("/calendars/{name}/events/{title}", calendarHandler.UpdateEvent)
			r.Delete("/calendars/{name}/events/{title}", calendarHandler.DeleteEvent)
			r.Post("/calendars/{name}/events/{title}/share", calendarHandler.ShareEvent)

			r.Get("/users/{owner}/calendars/{name}/months/{year}/{month}", calendarHandler.ViewMonth)
			r.Get("/users/{owner}/calendars/{name}/ics", calendarHandler.ExportICS)
		})
	})
}
