// Package session tracks per-page analysis lifecycles: an immediate analysis when a
// page first reports its text, debounced re-analysis on later changes, and
// explicit teardown when the page goes away.
package session

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after a page change before re-analysis.
const DefaultDebounce = 1500 * time.Millisecond

// Analyzer runs one analysis of page text.
type Analyzer func(ctx context.Context, text string)

// PageSession belongs to one page. It is safe for concurrent use.
type PageSession struct {
	id       string
	debounce time.Duration
	analyze  Analyzer
	ctx      context.Context
	now      func() time.Time

	mu       sync.Mutex
	lastSeen time.Time
	timer    *time.Timer
	gen      uint64
	pending  string
	started  bool
	closed   bool
	inflight sync.WaitGroup
}

func newPageSession(ctx context.Context, id string, debounce time.Duration, analyze Analyzer, now func() time.Time) *PageSession {
	return &PageSession{id: id, debounce: debounce, analyze: analyze, ctx: ctx, now: now, lastSeen: now()}
}

// ID returns the page identifier.
func (s *PageSession) ID() string { return s.id }

// Submit hands the current page text to the session. The first submission is
// analyzed right away; later ones restart the debounce timer so only the last
// text of a burst is analyzed. Returns false once the session is closed.
func (s *PageSession) Submit(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	s.lastSeen = s.now()
	s.pending = text
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if !s.started {
		s.started = true
		s.launch(text)
		return true
	}

	gen := s.gen
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen) })
	return true
}

func (s *PageSession) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	s.timer = nil
	s.launch(s.pending)
}

// launch must be called with s.mu held.
func (s *PageSession) launch(text string) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.analyze(s.ctx, text)
	}()
}

// idleFor reports how long the session has gone without a submission. A session
// with a debounce still pending is never idle.
func (s *PageSession) idleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		return 0
	}
	return now.Sub(s.lastSeen)
}

// Close stops any pending analysis; submissions after Close are ignored.
func (s *PageSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Wait blocks until analyses already started have finished.
func (s *PageSession) Wait() {
	s.inflight.Wait()
}
