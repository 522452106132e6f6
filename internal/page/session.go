// Package page holds the per-page-view controller. A Session owns the
// session identifier and the scroll threshold state for one page load, and
// hands the tracker to the scroll observer and the lead form.
package page

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"storytrain_landing/internal/leadform"
	"storytrain_landing/internal/rowstore"
	"storytrain_landing/internal/scrolldepth"
	"storytrain_landing/internal/tracking"
	"storytrain_landing/platform/apperr"
	"storytrain_landing/platform/logger"
	"storytrain_landing/platform/validator"
)

// Sections the shell's navigation buttons scroll to.
const (
	SectionIntro   = "intro"
	SectionJourney = "journey"
	SectionCTA     = "cta"
)

var sections = map[string]bool{
	SectionIntro:   true,
	SectionJourney: true,
	SectionCTA:     true,
}

// IsSection reports whether id names a section of the page.
func IsSection(id string) bool {
	return sections[id]
}

// Options configures the collaborators of each session.
type Options struct {
	Log          *logger.Logger
	Validator    *validator.Validator
	TrackTimeout time.Duration
	PhoneRegion  string
}

// Session is the controller for one page view.
type Session struct {
	id       tracking.SessionID
	tracker  *tracking.Tracker
	observer *scrolldepth.Observer
	form     *leadform.Controller
	inbox    *Inbox
	log      *logger.Logger

	loadOnce sync.Once
	closed   atomic.Bool
	lastSeen atomic.Int64
}

// NewSession builds a session with a fresh identifier. The scroll observer
// stays detached until Load.
func NewSession(store rowstore.Inserter, opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	val := opts.Validator
	if val == nil {
		val = validator.New()
	}

	id := tracking.NewSessionID()
	tracker := tracking.NewTracker(id, store, log, opts.TrackTimeout)
	inbox := NewInbox()

	s := &Session{
		id:       id,
		tracker:  tracker,
		observer: scrolldepth.NewObserver(tracker),
		form:     leadform.NewController(store, tracker, inbox, val, log.WithSessionID(id.String()), opts.PhoneRegion),
		inbox:    inbox,
		log:      log.WithSessionID(id.String()),
	}
	s.Touch(time.Now())
	return s
}

// ID returns the session identifier.
func (s *Session) ID() tracking.SessionID { return s.id }

// Form returns the session's lead form controller.
func (s *Session) Form() *leadform.Controller { return s.form }

// Observer returns the session's scroll observer.
func (s *Session) Observer() *scrolldepth.Observer { return s.observer }

// Notifications returns the session's notification inbox.
func (s *Session) Notifications() *Inbox { return s.inbox }

// Load records the page view and starts scroll observation. Only the first
// call has any effect.
func (s *Session) Load(path string) {
	s.loadOnce.Do(func() {
		if strings.TrimSpace(path) == "" {
			path = "/"
		}
		s.tracker.Track(tracking.ActionPageView, map[string]any{"path": path})
		s.observer.Attach()
		s.log.Debug("page loaded", "path", path)
	})
}

// Scroll forwards one viewport notification to the observer and returns the
// thresholds it fired.
func (s *Session) Scroll(pos scrolldepth.Position) []int {
	return s.observer.Observe(pos)
}

// Click records a click on elementID, then calls navigate with the section to
// scroll to. navigate is only called for known sections and may be nil.
func (s *Session) Click(elementID string, navigate func(section string)) (string, error) {
	elementID = strings.TrimSpace(elementID)
	if elementID == "" {
		return "", apperr.BadRequest("elementId is required")
	}

	s.tracker.Track(tracking.ActionClick, map[string]any{"elementId": elementID})

	if !IsSection(elementID) {
		return "", nil
	}
	if navigate != nil {
		navigate(elementID)
	}
	return elementID, nil
}

// Submit applies patch to the draft and submits it.
func (s *Session) Submit(ctx context.Context, patch leadform.DraftPatch) (leadform.Submission, error) {
	if !patch.Empty() {
		s.form.Update(patch)
	}
	return s.form.Submit(ctx)
}

// Touch marks the session as used at t.
func (s *Session) Touch(t time.Time) {
	s.lastSeen.Store(t.UnixNano())
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Flush waits for tracking writes started so far.
func (s *Session) Flush() {
	s.tracker.Flush()
}

// Close detaches the scroll observer and waits for in-flight tracking
// writes. Later actions are dropped. Close is idempotent.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.observer.Detach()
	s.tracker.Close()
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	return s.closed.Load()
}
