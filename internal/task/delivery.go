package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/calshare/internal/events"
)

// DeliveryTask hands one notification to an event handler.
type DeliveryTask struct {
	id           uuid.UUID
	notification *events.Notification
	handler      events.EventHandler
}

// NewDeliveryTask creates a task delivering n to handler.
func NewDeliveryTask(n *events.Notification, handler events.EventHandler) *DeliveryTask {
	return &DeliveryTask{
		id:           uuid.New(),
		notification: n,
		handler:      handler,
	}
}

// ID returns the task's unique identifier
func (t *DeliveryTask) ID() uuid.UUID { return t.id }

// Type returns TaskTypeNotificationDelivery
func (t *DeliveryTask) Type() string { return TaskTypeNotificationDelivery }

// Execute passes the notification to the handler.
func (t *DeliveryTask) Execute(ctx context.Context) error {
	if err := t.handler.HandleEvent(ctx, t.notification); err != nil {
		return fmt.Errorf("deliver notification %s: %w", t.notification.ID, err)
	}
	return nil
}

// AsyncEventHandler is an event handler that defers delivery to a wrapped
// handler by submitting a DeliveryTask per notification.
type AsyncEventHandler struct {
	runner Submitter
	target events.EventHandler
	logger *slog.Logger
}

// Ensure AsyncEventHandler implements events.EventHandler
var _ events.EventHandler = (*AsyncEventHandler)(nil)

// NewAsyncEventHandler creates a handler delivering to target through runner.
func NewAsyncEventHandler(runner Submitter, target events.EventHandler, logger *slog.Logger) *AsyncEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncEventHandler{
		runner: runner,
		target: target,
		logger: logger.With("component", "async_event_handler"),
	}
}

// HandleEvent queues the notification for delivery. It fails only when the
// task cannot be queued; delivery errors are reported by the runner.
func (h *AsyncEventHandler) HandleEvent(ctx context.Context, n *events.Notification) error {
	t := NewDeliveryTask(n, h.target)
	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", t.ID(),
			"notification_id", n.ID,
			"notification_type", n.Type)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Debug("notification queued for delivery",
		"task_id", t.ID(),
		"notification_id", n.ID,
		"notification_type", n.Type)
	return nil
}
