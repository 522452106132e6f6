package page

import (
	"sync"

	"storytrain_landing/internal/leadform"
)

// inboxLimit caps pending notifications; the oldest are dropped first.
const inboxLimit = 16

// Inbox queues notifications until the shell collects them.
type Inbox struct {
	mu      sync.Mutex
	pending []leadform.Notification
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Notify implements leadform.Notifier.
func (i *Inbox) Notify(n leadform.Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.pending) == inboxLimit {
		i.pending = i.pending[1:]
	}
	i.pending = append(i.pending, n)
}

// Drain returns and clears the pending notifications, oldest first.
func (i *Inbox) Drain() []leadform.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.pending
	i.pending = nil
	if out == nil {
		out = []leadform.Notification{}
	}
	return out
}

// Len returns the number of pending notifications.
func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.pending)
}
