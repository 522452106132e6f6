// Package scrolldepth turns viewport scroll notifications into one-shot
// scroll_depth actions at fixed page-depth thresholds.
package scrolldepth

import (
	"sync"

	"storytrain_landing/internal/tracking"
)

// Thresholds are the page-depth percentages reported, ascending.
var Thresholds = [...]int{25, 50, 75, 100}

// Tracker is the part of the event tracker the observer needs.
type Tracker interface {
	Track(actionType string, details map[string]any)
}

// Position is one scroll notification from the viewport.
type Position struct {
	ScrollTop      float64 `json:"scrollTop"`
	ViewportHeight float64 `json:"viewportHeight"`
	DocumentHeight float64 `json:"documentHeight"`
}

// Depth returns how much of the document has been reached, in percent.
// A document with no height is fully visible.
func (p Position) Depth() float64 {
	if p.DocumentHeight <= 0 {
		return 100
	}
	return (p.ScrollTop + p.ViewportHeight) / p.DocumentHeight * 100
}

// Observer fires each threshold at most once for its lifetime. Fired flags
// only ever go from false to true.
type Observer struct {
	tracker Tracker

	mu       sync.Mutex
	attached bool
	fired    map[int]bool
}

// NewObserver creates a detached observer reporting to tracker.
func NewObserver(tracker Tracker) *Observer {
	fired := make(map[int]bool, len(Thresholds))
	for _, threshold := range Thresholds {
		fired[threshold] = false
	}
	return &Observer{tracker: tracker, fired: fired}
}

// Attach starts handling notifications.
func (o *Observer) Attach() {
	o.mu.Lock()
	o.attached = true
	o.mu.Unlock()
}

// Detach stops handling notifications. Fired flags are kept.
func (o *Observer) Detach() {
	o.mu.Lock()
	o.attached = false
	o.mu.Unlock()
}

// Attached reports whether the observer is handling notifications.
func (o *Observer) Attached() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attached
}

// Observe handles one scroll notification and returns the thresholds it
// fired, in ascending order. A detached observer fires nothing.
func (o *Observer) Observe(pos Position) []int {
	depth := pos.Depth()

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.attached {
		return nil
	}

	var crossed []int
	for _, threshold := range Thresholds {
		if depth >= float64(threshold) && !o.fired[threshold] {
			o.tracker.Track(tracking.ActionScrollDepth, map[string]any{"percentage": threshold})
			o.fired[threshold] = true
			crossed = append(crossed, threshold)
		}
	}
	return crossed
}

// Fired returns a copy of the threshold state.
func (o *Observer) Fired() map[int]bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[int]bool, len(o.fired))
	for k, v := range o.fired {
		out[k] = v
	}
	return out
}
