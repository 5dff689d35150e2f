// Package paging windows the tabular dashboard list: duplicates are removed,
// a title/tag query can override paging, and pages switch with a short
// hide-then-show transition.
package paging

import (
	"strings"
	"sync"
	"time"

	"github.com/aretw0/memodesk/internal/debounce"
	"github.com/aretw0/memodesk/internal/format"
	"github.com/aretw0/memodesk/internal/memo"
)

const (
	// DefaultPageSize is the number of rows per page.
	DefaultPageSize = 2
	// TransitionDelay is how long a page switch stays hidden.
	TransitionDelay = 200 * time.Millisecond
)

// Dedupe keeps the first occurrence of every id. Items without an id are
// always kept.
func Dedupe(items []memo.Item) []memo.Item {
	seen := make(map[string]bool, len(items))
	out := make([]memo.Item, 0, len(items))
	for _, it := range items {
		if it.ID != "" {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
		}
		out = append(out, it)
	}
	return out
}

// Matches reports whether the item's title or tags contain q, ignoring case.
// A blank q matches everything.
func Matches(it memo.Item, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return format.ContainsFold(it.Title, q) || format.ContainsFold(it.Tags.String(), q)
}

// View is one rendered window.
type View struct {
	Visible     []memo.Item `json:"items"`
	Total       int         `json:"total"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Searching   bool        `json:"searching"`
}

// Window dedupes items, applies q and cuts page out of the result. While a
// query is active every match is shown on a single page.
func Window(items []memo.Item, q string, page, size int) View {
	if size <= 0 {
		size = DefaultPageSize
	}

	var filtered []memo.Item
	for _, it := range Dedupe(items) {
		if Matches(it, q) {
			filtered = append(filtered, it)
		}
	}

	if strings.TrimSpace(q) != "" {
		return View{Visible: filtered, Total: len(filtered), TotalPages: 1, Searching: true}
	}

	totalPages := (len(filtered) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	start := page * size
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}

	return View{
		Visible:     filtered[start:end],
		Total:       len(filtered),
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}

// Table is the stateful wrapper used by the dashboard.
type Table struct {
	clock debounce.Clock
	size  int

	mu     sync.Mutex
	items  []memo.Item
	query  string
	page   int
	hiding bool
	gen    uint64
	timer  debounce.Timer
}

// NewTable creates a table. A nil clock means the wall clock.
func NewTable(clock debounce.Clock, size int) *Table {
	if clock == nil {
		clock = debounce.Real()
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Table{clock: clock, size: size}
}

// SetItems replaces the collection and returns to the first page.
func (t *Table) SetItems(items []memo.Item) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append([]memo.Item(nil), items...)
	t.resetLocked()
}

// SetQuery changes the title/tag query and returns to the first page.
func (t *Table) SetQuery(q string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query = q
	t.resetLocked()
}

func (t *Table) resetLocked() {
	t.page = 0
	t.hiding = false
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// View renders the current window.
func (t *Table) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Window(t.items, t.query, t.page, t.size)
}

// Hiding reports whether a page transition is in progress.
func (t *Table) Hiding() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hiding
}

// GoTo switches to page. It is a no-op, returning false, when page is out of
// range or already current.
func (t *Table) GoTo(page int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	view := Window(t.items, t.query, t.page, t.size)
	if page < 0 || page >= view.TotalPages || page == t.page {
		return false
	}

	t.page = page
	t.hiding = true
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = t.clock.AfterFunc(TransitionDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen == gen {
			t.hiding = false
			t.timer = nil
		}
	})
	return true
}

// Next moves one page forward.
func (t *Table) Next() bool {
	return t.GoTo(t.current() + 1)
}

// Prev moves one page back.
func (t *Table) Prev() bool {
	return t.GoTo(t.current() - 1)
}

func (t *Table) current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}
