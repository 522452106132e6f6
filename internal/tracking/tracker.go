// Package tracking records user actions on the landing page. Tracking is best
// effort: writes happen in the background, in call order, failures are logged
// and dropped, and nothing here ever surfaces an error to the visitor.
package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"storytrain_landing/internal/rowstore"
	"storytrain_landing/platform/logger"
)

// Action types written to the user_actions table.
const (
	ActionPageView          = "page_view"
	ActionScrollDepth       = "scroll_depth"
	ActionClick             = "click"
	ActionFormSubmitSuccess = "form_submit_success"
)

// Tracker records actions for a single page session.
type Tracker struct {
	session SessionID
	store   rowstore.Inserter
	log     *logger.Logger
	timeout time.Duration

	mu       sync.Mutex
	closed   bool
	queue    []action
	draining bool
	inflight sync.WaitGroup
}

type action struct {
	actionType string
	details    map[string]any
}

// NewTracker creates a tracker for session. timeout bounds each background
// write; zero means no deadline.
func NewTracker(session SessionID, store rowstore.Inserter, log *logger.Logger, timeout time.Duration) *Tracker {
	return &Tracker{
		session: session,
		store:   store,
		log:     log.WithSessionID(session.String()),
		timeout: timeout,
	}
}

// SessionID returns the session every action is attached to.
func (t *Tracker) SessionID() SessionID {
	return t.session
}

// Record writes one action and returns the store's verdict.
func (t *Tracker) Record(ctx context.Context, actionType string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return t.store.Insert(ctx, rowstore.TableUserActions, rowstore.Row{
		"session_id":  t.session.String(),
		"action_type": actionType,
		"details":     details,
	})
}

// Track records an action in the background and returns immediately.
// Actions reach the store one at a time in the order Track was called; there
// is no delivery guarantee.
func (t *Tracker) Track(actionType string, details map[string]any) {
	snapshot := make(map[string]any, len(details))
	for k, v := range details {
		snapshot[k] = v
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		t.log.Debug("tracker closed, action dropped", "action_type", actionType)
		return
	}
	t.inflight.Add(1)
	t.queue = append(t.queue, action{actionType: actionType, details: snapshot})
	start := !t.draining
	t.draining = true
	t.mu.Unlock()

	if start {
		go t.drain()
	}
}

// drain delivers queued actions until the queue is empty. At most one drain
// runs per tracker.
func (t *Tracker) drain() {
	for {
		t.mu.Lock()
		if len(t.queue) == 0 {
			t.draining = false
			t.mu.Unlock()
			return
		}
		next := t.queue[0]
		t.queue[0] = action{}
		t.queue = t.queue[1:]
		t.mu.Unlock()

		t.deliver(next.actionType, next.details)
		t.inflight.Done()
	}
}

func (t *Tracker) deliver(actionType string, details map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			t.log.TrackingFailed(actionType, fmt.Errorf("panic during insert: %v", r))
		}
	}()

	ctx := context.Background()
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	// The error stops here: tracking never interrupts the visitor.
	if err := t.Record(ctx, actionType, details); err != nil {
		t.log.TrackingFailed(actionType, err)
		return
	}
	t.log.ActionTracked(actionType)
}

// Flush blocks until every write started so far has finished.
func (t *Tracker) Flush() {
	t.inflight.Wait()
}

// Close stops accepting actions and waits for in-flight writes.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.inflight.Wait()
}
