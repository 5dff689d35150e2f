package view

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/memodesk/internal/debounce"
)

// MinSpinner is the shortest time a refresh indicator stays visible.
const MinSpinner = 500 * time.Millisecond

// Refresher tracks the busy flag of refresh actions.
type Refresher struct {
	clock debounce.Clock

	mu    sync.Mutex
	busy  bool
	gen   uint64
	timer debounce.Timer
}

// NewRefresher creates a Refresher. A nil clock means the wall clock.
func NewRefresher(clock debounce.Clock) *Refresher {
	if clock == nil {
		clock = debounce.Real()
	}
	return &Refresher{clock: clock}
}

// Busy reports whether the indicator is showing.
func (r *Refresher) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Run executes op with the indicator raised. The indicator is lowered once op
// returns and at least MinSpinner has passed since the start.
func (r *Refresher) Run(ctx context.Context, op func(context.Context) error) error {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
	gen := r.gen
	r.busy = true
	start := r.clock.Now()
	r.mu.Unlock()

	err := op(ctx)

	remaining := MinSpinner - r.clock.Now().Sub(start)
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return err
	}
	if remaining <= 0 {
		r.busy = false
		return err
	}
	r.timer = r.clock.AfterFunc(remaining, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if gen == r.gen {
			r.busy = false
			r.timer = nil
		}
	})
	return err
}

// Stop lowers the indicator and cancels any pending timer.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
	r.busy = false
}
