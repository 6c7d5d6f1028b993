package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/calshare/internal/events"
)

// MockEventHandler implements events.EventHandler, recording every
// notification it receives.
type MockEventHandler struct {
	// HandleEventFn allows test cases to mock the HandleEvent behavior
	HandleEventFn func(ctx context.Context, n *events.Notification) error

	// Err is returned when HandleEventFn is not set
	Err error

	mu       sync.Mutex
	received []*events.Notification
}

// Ensure MockEventHandler implements events.EventHandler
var _ events.EventHandler = (*MockEventHandler)(nil)

// HandleEvent implements the events.EventHandler interface
func (m *MockEventHandler) HandleEvent(ctx context.Context, n *events.Notification) error {
	m.mu.Lock()
	m.received = append(m.received, n)
	m.mu.Unlock()

	if m.HandleEventFn != nil {
		return m.HandleEventFn(ctx, n)
	}
	return m.Err
}

// Received returns the notifications handled so far.
func (m *MockEventHandler) Received() []*events.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Notification(nil), m.received...)
}
