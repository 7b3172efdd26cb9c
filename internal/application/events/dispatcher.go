// Package events routes browser events to explicitly registered handlers.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
)

// Kind names an event type.
type Kind string

const (
	KindInstall             Kind = "install"
	KindNavigationCommitted Kind = "navigation.committed"
	KindAnalyzeText         Kind = "text.analyze"
	KindVerifyImage         Kind = "image.verify"
)

// Event is a single occurrence. Payload type depends on Kind.
type Event struct {
	Kind    Kind
	Payload any
}

// TextRequest is the KindAnalyzeText payload. The handler fills Result.
type TextRequest struct {
	Text   string
	Result *verdict.Verdict
}

// ImageRequest is the KindVerifyImage payload. The handler fills Result.
type ImageRequest struct {
	SrcURL string
	Result *verdict.Verdict
}

// Handler reacts to one event.
type Handler func(ctx context.Context, e Event) error

// Subscription is a registered handler; Unregister detaches it.
type Subscription struct {
	d    *Dispatcher
	kind Kind
	id   uint64
}

// Unregister removes the handler. Safe to call more than once.
func (s *Subscription) Unregister() {
	if s == nil || s.d == nil {
		return
	}
	s.d.remove(s.kind, s.id)
}

type entry struct {
	id uint64
	h  Handler
}

// Dispatcher fans events out to subscribed handlers in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[Kind][]entry
	logger   *logrus.Logger
}

func NewDispatcher(logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind][]entry), logger: logger}
}

// Register subscribes h to events of kind.
func (d *Dispatcher) Register(kind Kind, h Handler) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.handlers[kind] = append(d.handlers[kind], entry{id: d.nextID, h: h})
	return &Subscription{d: d, kind: kind, id: d.nextID}
}

func (d *Dispatcher) remove(kind Kind, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.handlers[kind]
	for i, e := range list {
		if e.id == id {
			d.handlers[kind] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(d.handlers[kind]) == 0 {
		delete(d.handlers, kind)
	}
}

// Dispatch runs every handler for e.Kind and returns how many ran. Handler errors
// and panics are logged and do not stop the remaining handlers.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) int {
	d.mu.RLock()
	list := append([]entry(nil), d.handlers[e.Kind]...)
	d.mu.RUnlock()

	for _, en := range list {
		if err := d.run(ctx, en.h, e); err != nil && d.logger != nil {
			d.logger.WithField("event", e.Kind).WithError(err).Error("event handler failed")
		}
	}
	return len(list)
}

func (d *Dispatcher) run(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, e)
}
