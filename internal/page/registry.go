package page

import (
	"context"
	"sync"
	"time"

	"storytrain_landing/internal/rowstore"
	"storytrain_landing/internal/tracking"
	"storytrain_landing/platform/apperr"
	"storytrain_landing/platform/logger"
)

const (
	defaultSessionTTL    = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = apperr.NotFound("session not found")

// Registry keeps the live page sessions and evicts idle ones.
type Registry struct {
	store    rowstore.Inserter
	opts     Options
	log      *logger.Logger
	ttl      time.Duration
	interval time.Duration

	mu       sync.RWMutex
	sessions map[tracking.SessionID]*Session
}

// NewRegistry creates an empty registry. Sessions idle for longer than ttl
// are closed by Sweep.
func NewRegistry(store rowstore.Inserter, opts Options, ttl, interval time.Duration) *Registry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Registry{
		store:    store,
		opts:     opts,
		log:      log,
		ttl:      ttl,
		interval: interval,
		sessions: make(map[tracking.SessionID]*Session),
	}
}

// Create starts a session for a page load of path.
func (r *Registry) Create(path string) *Session {
	s := NewSession(r.store, r.opts)

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	s.Load(path)
	return s
}

// Get returns the live session id and marks it as used.
func (r *Registry) Get(id tracking.SessionID) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Touch(time.Now())
	return s, nil
}

// Remove closes and forgets the session id.
func (r *Registry) Remove(id tracking.SessionID) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes every session last used before now minus the TTL and
// returns how many were evicted.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.ttl)

	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := r.Sweep(time.Now()); evicted > 0 {
				r.log.Info("idle page sessions evicted", "evicted", evicted, "live", r.Len())
			}
		}
	}
}

// CloseAll closes every session, waiting for their tracking writes.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range all {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.Close()
		}(s)
	}
	wg.Wait()
}
