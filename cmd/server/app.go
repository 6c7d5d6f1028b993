package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/calshare/internal/config"
	"github.com/phrazzld/calshare/internal/events"
	"github.com/phrazzld/calshare/internal/platform/memory"
	"github.com/phrazzld/calshare/internal/platform/metrics"
	"github.com/phrazzld/calshare/internal/service"
	"github.com/phrazzld/calshare/internal/service/auth"
	"github.com/phrazzld/calshare/internal/store"
	"github.com/phrazzld/calshare/internal/task"
)

// application holds all the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Stores
	userStore    store.UserStore
	sessionStore store.SessionStore

	// Services
	jwtService      auth.JWTService
	registryService service.RegistryService
	sessionService  service.SessionService
	calendarService service.CalendarService

	// Event system
	eventEmitter *events.InMemoryEventEmitter
	inbox        *events.Inbox

	// Task handling
	taskRunner *task.TaskRunner

	metrics *metrics.Metrics
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	if cfg.Auth.TokenSecret == "" {
		return nil, errors.New("auth.token_secret is required to run the server")
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.userStore = memory.NewUserStore(logger)
	app.sessionStore = memory.NewSessionStore(logger)

	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.taskRunner.Start()

	// Notifications reach the inbox through the worker pool.
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.inbox = events.NewInbox(events.DefaultInboxCapacity)
	app.eventEmitter.RegisterHandler(task.NewAsyncEventHandler(app.taskRunner, app.inbox, logger))

	app.registryService = service.NewRegistryService(app.userStore, app.metrics, logger)
	app.sessionService = service.NewSessionService(app.registryService, app.sessionStore, app.metrics, logger)
	app.calendarService = service.NewCalendarService(app.registryService, app.eventEmitter, app.metrics, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	defer app.cleanup()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup flushes pending background work.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	app.logger.Info("Application shutdown completed")
}
