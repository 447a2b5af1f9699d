package service

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs the latest task per key once the key has been quiet for
// the configured delay. Scheduling a key again cancels the pending task and
// the context of a task that is already running.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*debounced
	closed  bool
}

type debounced struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, pending: make(map[string]*debounced)}
}

// Schedule replaces any pending task for key with task. With a zero delay
// the task runs synchronously.
func (d *Debouncer) Schedule(key string, task func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())

	if d.delay <= 0 {
		d.mu.Lock()
		d.stopLocked(key)
		d.mu.Unlock()
		defer cancel()
		task(ctx)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		cancel()
		return
	}
	d.stopLocked(key)

	entry := &debounced{cancel: cancel}
	entry.timer = time.AfterFunc(d.delay, func() {
		defer d.finish(key, entry)
		task(ctx)
	})
	d.pending[key] = entry
}

// Cancel drops the pending task for key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	d.stopLocked(key)
	d.mu.Unlock()
}

// Close cancels every pending task and rejects new ones.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for key := range d.pending {
		d.stopLocked(key)
	}
}

func (d *Debouncer) stopLocked(key string) {
	entry, ok := d.pending[key]
	if !ok {
		return
	}
	entry.timer.Stop()
	entry.cancel()
	delete(d.pending, key)
}

func (d *Debouncer) finish(key string, entry *debounced) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry.cancel()
	if d.pending[key] == entry {
		delete(d.pending, key)
	}
}
