package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultIdleTimeout is how long a page session may go without a submission before
// the registry drops it.
const DefaultIdleTimeout = 30 * time.Minute

// Option configures a Registry.
type Option func(*Registry)

// WithIdleTimeout sets how long an untouched session is kept. Non-positive values keep the default.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.idle = d
		}
	}
}

// WithClock replaces time.Now for idle accounting.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry owns the live page sessions. Sessions idle for longer than the idle
// timeout are closed on the next Open or Sweep.
type Registry struct {
	debounce time.Duration
	idle     time.Duration
	now      func() time.Time
	analyze  Analyzer
	logger   *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*PageSession
}

func NewRegistry(debounce time.Duration, analyze Analyzer, logger *logrus.Logger, opts ...Option) *Registry {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		debounce: debounce,
		idle:     DefaultIdleTimeout,
		now:      time.Now,
		analyze:  analyze,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*PageSession),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open returns the session for id, creating it if needed. An empty id gets a fresh one.
func (r *Registry) Open(id string) *PageSession {
	if id == "" {
		id = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := newPageSession(r.ctx, id, r.debounce, r.analyze, r.now)
	r.sessions[id] = s
	if r.logger != nil {
		r.logger.WithField("page_id", id).Debug("page session opened")
	}
	return s
}

// Close tears down the session for id. Reports whether it existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	s.Close()
	if r.logger != nil {
		r.logger.WithField("page_id", id).Debug("page session closed")
	}
	return true
}

// Sweep closes sessions idle past the timeout and returns how many it closed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked()
}

func (r *Registry) sweepLocked() int {
	now := r.now()
	n := 0
	for id, s := range r.sessions {
		if s.idleFor(now) < r.idle {
			continue
		}
		delete(r.sessions, id)
		s.Close()
		n++
		if r.logger != nil {
			r.logger.WithField("page_id", id).Debug("idle page session expired")
		}
	}
	return n
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll closes every session and waits for running analyses, or for ctx.
// Running analyses see their context cancelled if ctx expires first.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	all := make([]*PageSession, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for _, s := range all {
			s.Close()
			s.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.cancel()
		<-done
	}
	r.cancel()
}
