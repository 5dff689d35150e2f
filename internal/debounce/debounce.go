// Package debounce delays reacting to rapidly changing input until it has
// been stable for a quiet period.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period applied to search input.
const DefaultDelay = 500 * time.Millisecond

// Debouncer emits the last value passed to Set once no further Set arrives
// within the delay. Intermediate values are dropped.
type Debouncer[T any] struct {
	clock Clock
	delay time.Duration
	emit  func(T)

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	pending T
	stopped bool
}

// New creates a Debouncer. A nil clock means the wall clock.
func New[T any](clock Clock, delay time.Duration, emit func(T)) *Debouncer[T] {
	if clock == nil {
		clock = Real()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{clock: clock, delay: delay, emit: emit}
}

// Set records v and restarts the quiet period.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = v
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.emit(v)
}

// Cancel drops any pending value without emitting it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Flush emits the pending value immediately, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer == nil || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	v := d.pending
	d.mu.Unlock()

	d.emit(v)
}

// Stop cancels pending work; later Set calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.Cancel()
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
