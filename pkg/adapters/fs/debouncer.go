package fs

import (
	"sync"
	"time"

	"github.com/aretw0/memodesk/pkg/core"
)

// debouncer coalesces bursts of events per document ID. Editors and atomic
// renames produce several fsnotify events for one logical change.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	seq     uint64
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
	seq   uint64
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		pending:  make(map[string]*pendingEvent),
	}
}

// add schedules e for emission once no further event for the same ID arrives
// within the interval.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p, ok := d.pending[e.ID]; ok {
		if p.timer.Stop() {
			d.wg.Done()
		}
		e.Type = mergeEventTypes(p.event.Type, e.Type)
	}

	d.seq++
	seq := d.seq
	p := &pendingEvent{event: e, seq: seq}
	d.pending[e.ID] = p

	d.wg.Add(1)
	p.timer = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()

		d.mu.Lock()
		current, ok := d.pending[e.ID]
		if !ok || current.seq != seq {
			d.mu.Unlock()
			return
		}
		delete(d.pending, e.ID)
		d.mu.Unlock()

		emit(current.event)
	})
}

// mergeEventTypes folds a newer event type into a pending one.
func mergeEventTypes(prev, next core.EventType) core.EventType {
	switch {
	case next == core.EventDelete:
		return core.EventDelete
	case prev == core.EventCreate:
		return core.EventCreate
	default:
		return next
	}
}

// stopAndWait drops pending events and waits for in-flight emissions.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for id, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
