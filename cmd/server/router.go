package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/calshare/internal/api"
	apiMiddleware "github.com/phrazzld/calshare/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	authHandler := api.NewAuthHandler(app.registryService, app.sessionService, app.jwtService, app.logger)
	calendarHandler := api.NewCalendarHandler(app.calendarService, app.inbox, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.sessionService)

	api.RegisterRoutes(r, authHandler, calendarHandler, authMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
