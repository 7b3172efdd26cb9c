package storage

import (
	"context"
	"sync"

	"github.com/cognitive-shield/sentinel/internal/core/ports"
)

// Observable decorates a KVStore and notifies watchers after every successful Set.
// Only writes made through this decorator are observed.
type Observable struct {
	inner ports.KVStore

	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
}

type watcher struct {
	ch chan []byte
}

func NewObservable(inner ports.KVStore) *Observable {
	return &Observable{inner: inner, watchers: make(map[string]map[*watcher]struct{})}
}

var _ ports.WatchableStore = (*Observable)(nil)

// Get implements KVStore.Get.
func (o *Observable) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return o.inner.Get(ctx, key)
}

// Set implements KVStore.Set.
func (o *Observable) Set(ctx context.Context, key string, value []byte) error {
	if err := o.inner.Set(ctx, key, value); err != nil {
		return err
	}
	o.publish(key, value)
	return nil
}

// Delete implements KVStore.Delete. Watchers receive a nil value.
func (o *Observable) Delete(ctx context.Context, key string) error {
	if err := o.inner.Delete(ctx, key); err != nil {
		return err
	}
	o.publish(key, nil)
	return nil
}

// Watch implements WatchableStore.Watch.
func (o *Observable) Watch(key string) (<-chan []byte, func()) {
	w := &watcher{ch: make(chan []byte, 1)}
	o.mu.Lock()
	set, ok := o.watchers[key]
	if !ok {
		set = make(map[*watcher]struct{})
		o.watchers[key] = set
	}
	set[w] = struct{}{}
	o.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.watchers[key], w)
			if len(o.watchers[key]) == 0 {
				delete(o.watchers, key)
			}
			close(w.ch)
			o.mu.Unlock()
		})
	}
	return w.ch, cancel
}

func (o *Observable) publish(key string, value []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for w := range o.watchers[key] {
		// latest value wins
		select {
		case <-w.ch:
		default:
		}
		select {
		case w.ch <- value:
		default:
		}
	}
}
