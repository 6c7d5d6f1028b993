package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeNotificationDelivery hands one notification to a handler.
	TaskTypeNotificationDelivery = "notification_delivery"
)

// Common errors returned by Submit.
var (
	ErrQueueFull     = errors.New("task queue is full")
	ErrRunnerStopped = errors.New("task runner is stopped")
)

// Task represents a unit of background work to be processed.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// Submitter accepts tasks for asynchronous execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}
