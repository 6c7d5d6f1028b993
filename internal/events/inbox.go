package events

import (
	"context"
	"slices"
	"sync"
)

// DefaultInboxCapacity bounds the notifications kept per user.
const DefaultInboxCapacity = 100

// Inbox is an EventHandler keeping the most recent notifications addressed
// to each user, newest last.
type Inbox struct {
	mu       sync.RWMutex
	capacity int
	byUser   map[string][]*Notification
}

// Ensure Inbox implements EventHandler interface
var _ EventHandler = (*Inbox)(nil)

// NewInbox creates an Inbox holding at most capacity notifications per user.
// A non-positive capacity uses DefaultInboxCapacity.
func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = DefaultInboxCapacity
	}
	return &Inbox{
		capacity: capacity,
		byUser:   make(map[string][]*Notification),
	}
}

// HandleEvent stores n for each of its recipients, dropping the oldest
// entries beyond capacity.
func (i *Inbox) HandleEvent(ctx context.Context, n *Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for _, recipient := range n.Recipients {
		list := append(i.byUser[recipient], n)
		if over := len(list) - i.capacity; over > 0 {
			list = slices.Delete(list, 0, over)
		}
		i.byUser[recipient] = list
	}
	return nil
}

// For returns a copy of the notifications addressed to username, oldest first.
func (i *Inbox) For(username string) []*Notification {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byUser[username])
}
