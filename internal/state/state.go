// Package state holds the application-wide page and selection state.
package state

import (
	"sync"

	"github.com/aretw0/memodesk/internal/memo"
)

// Snapshot is a point-in-time copy of App.
type Snapshot struct {
	Page       memo.PageID `json:"page"`
	SelectedID string      `json:"selectedId,omitempty"`
}

// Listener is notified after every change.
type Listener func(Snapshot)

// App is the current logical page and selected memo. It is passed by
// reference to the components that need it.
type App struct {
	mu        sync.RWMutex
	page      memo.PageID
	selected  string
	listeners map[int]Listener
	nextID    int
}

// New creates an App positioned on page.
func New(page memo.PageID) *App {
	return &App{page: page, listeners: make(map[int]Listener)}
}

// Snapshot returns the current state.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Snapshot{Page: a.page, SelectedID: a.selected}
}

// Page returns the active page.
func (a *App) Page() memo.PageID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.page
}

// SelectedID returns the selected memo id, "" when none.
func (a *App) SelectedID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.selected
}

// SetPage switches the active page.
func (a *App) SetPage(p memo.PageID) {
	a.update(func() bool {
		if a.page == p {
			return false
		}
		a.page = p
		return true
	})
}

// Select marks id as selected.
func (a *App) Select(id string) {
	a.update(func() bool {
		if a.selected == id {
			return false
		}
		a.selected = id
		return true
	})
}

// ClearSelection drops the selection.
func (a *App) ClearSelection() {
	a.Select("")
}

// Subscribe registers fn and returns a function removing it.
func (a *App) Subscribe(fn Listener) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

// update applies mutate under the lock and notifies listeners outside it
// when mutate reports a change.
func (a *App) update(mutate func() bool) {
	a.mu.Lock()
	if !mutate() {
		a.mu.Unlock()
		return
	}
	snap := Snapshot{Page: a.page, SelectedID: a.selected}
	listeners := make([]Listener, 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}
