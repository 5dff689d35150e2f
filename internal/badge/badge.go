// Package badge computes the per-page counters shown in the sidebar.
//
// The status table is configured independently of the pill catalog; the two
// are allowed to disagree.
package badge

import (
	"strings"

	"github.com/aretw0/memodesk/internal/memo"
)

// Table maps a page to the statuses counted under it.
type Table map[memo.PageID][]string

// DefaultTable is the built-in status table.
func DefaultTable() Table {
	return Table{
		memo.PageDrafts: {"draft", "Draft Review", "final-draft"},
		memo.PageInbox:  {"In Progress inbox", "replied", "inbox"},
		memo.PageSent:   {"In Progress-Sent", "dispatched"},
		memo.PageCopied: {"read", "unread"},
		memo.PageBcc:    {"unread", "read"},
	}
}

// Options tune Count.
type Options struct {
	// CountUndefined counts items without a status under drafts.
	CountUndefined bool
}

// DefaultOptions mirrors the sidebar behaviour.
func DefaultOptions() Options {
	return Options{CountUndefined: true}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Count tallies items per listable page. Statuses match exactly after
// trimming and lower-casing; an item may count under several pages.
func Count(items []memo.Item, table Table, opts Options) map[memo.PageID]int {
	counts := make(map[memo.PageID]int, len(memo.ListPages()))
	for _, p := range memo.ListPages() {
		counts[p] = 0
	}

	allowed := make(map[memo.PageID]map[string]bool, len(table))
	for page, statuses := range table {
		set := make(map[string]bool, len(statuses))
		for _, s := range statuses {
			set[normalize(s)] = true
		}
		allowed[page] = set
	}

	for _, it := range items {
		status := normalize(it.Status)
		if status == "" {
			if opts.CountUndefined {
				counts[memo.PageDrafts]++
			}
			continue
		}
		for page, set := range allowed {
			if set[status] {
				counts[page]++
			}
		}
	}
	return counts
}
