// Package main implements calshare's interactive terminal client. All state
// lives in memory for the lifetime of the process.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/phrazzld/calshare/internal/command"
	"github.com/phrazzld/calshare/internal/config"
	"github.com/phrazzld/calshare/internal/platform/logger"
	"github.com/phrazzld/calshare/internal/platform/memory"
	"github.com/phrazzld/calshare/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Stdout belongs to the prompt, so logs go to stderr.
	level, _ := logger.ParseLevel(cfg.Server.LogLevel)
	l := logger.New(os.Stderr, level)
	slog.SetDefault(l)

	if err := newREPL(os.Stdin, os.Stdout, newDispatcher(l)).run(ctx); err != nil {
		l.Error("terminal client stopped", "error", err)
		os.Exit(1)
	}
}

func newDispatcher(l *slog.Logger) *command.Dispatcher {
	registry := service.NewRegistryService(memory.NewUserStore(l), nil, l)
	sessions := service.NewSessionService(registry, memory.NewSessionStore(l), nil, l)
	calendars := service.NewCalendarService(registry, nil, nil, l)
	return command.NewDispatcher(registry, sessions, calendars)
}
