// Package filter derives the visible memo list from the raw collection.
//
// Apply runs four stages in a fixed order, each on the previous stage's
// output: pill, free-text search, structured (date range and requester),
// then sort.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/memodesk/internal/format"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/pill"
)

// SortOrder orders the final stage by subject.
type SortOrder int

const (
	Unsorted SortOrder = iota
	Ascending
	Descending
)

func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return ""
	}
}

// ParseSort accepts "", "asc" and "desc".
func ParseSort(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return Unsorted, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Unsorted, fmt.Errorf("unknown sort order %q", s)
	}
}

// Structured is the date-range and requester narrowing. Dates are
// YYYY-MM-DD strings; empty fields are unset.
type Structured struct {
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	RequesterEmail string `json:"requesterEmail,omitempty"`
}

// Active reports whether any field is set.
func (s Structured) Active() bool {
	return strings.TrimSpace(s.From) != "" ||
		strings.TrimSpace(s.To) != "" ||
		strings.TrimSpace(s.RequesterEmail) != ""
}

// Validate rejects malformed dates so request boundaries can report them.
func (s Structured) Validate() error {
	if v := strings.TrimSpace(s.From); v != "" {
		if _, err := format.ParseYMD(v, time.UTC); err != nil {
			return fmt.Errorf("from: %w", err)
		}
	}
	if v := strings.TrimSpace(s.To); v != "" {
		if _, err := format.ParseYMD(v, time.UTC); err != nil {
			return fmt.Errorf("to: %w", err)
		}
	}
	return nil
}

// Criteria is the full input of Apply.
type Criteria struct {
	PillID     string
	Pills      []pill.Pill
	Query      string
	Structured Structured
	Sort       SortOrder
	// Location anchors day boundaries; nil means time.Local.
	Location *time.Location
}

// Apply runs the pipeline. items is never modified.
func Apply(items []memo.Item, c Criteria) []memo.Item {
	out := ByPill(items, c.PillID, c.Pills)
	out = BySearch(out, c.Query)
	out = ByStructured(out, c.Structured, c.Location)
	return SortBySubject(out, c.Sort)
}

// ByPill keeps items selected by the pill with pillID. An id missing from
// pills falls back to the default status match.
func ByPill(items []memo.Item, pillID string, pills []pill.Pill) []memo.Item {
	p, ok := pill.Find(pills, pillID)
	if !ok {
		p = pill.Pill{ID: pillID, Match: pill.StatusMatch()}
	}
	out := make([]memo.Item, 0, len(items))
	for _, it := range items {
		if p.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// BySearch keeps items where subject, description, owner, assignee or
// reference number contains q. A blank q keeps everything.
func BySearch(items []memo.Item, q string) []memo.Item {
	q = format.Fold(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	out := make([]memo.Item, 0, len(items))
	for _, it := range items {
		for _, field := range []string{it.Subject, it.Description, it.Owner, it.AssignedTo, it.ReferenceNumber} {
			if strings.Contains(format.Fold(field), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// ByStructured applies the date bounds (inclusive, whole days in loc) and the
// requester substring. Unparseable bounds are ignored.
func ByStructured(items []memo.Item, s Structured, loc *time.Location) []memo.Item {
	if !s.Active() {
		return items
	}
	if loc == nil {
		loc = time.Local
	}

	var from, to *time.Time
	if v := strings.TrimSpace(s.From); v != "" {
		if t, err := format.StartOfDay(v, loc); err == nil {
			from = &t
		}
	}
	if v := strings.TrimSpace(s.To); v != "" {
		if t, err := format.EndOfDay(v, loc); err == nil {
			to = &t
		}
	}
	requester := strings.TrimSpace(s.RequesterEmail)

	out := make([]memo.Item, 0, len(items))
	for _, it := range items {
		if from != nil || to != nil {
			if it.CreatedAt == nil {
				continue
			}
			created := it.CreatedAt.Truncate(time.Second)
			if from != nil && created.Before(*from) {
				continue
			}
			if to != nil && created.After(*to) {
				continue
			}
		}
		if requester != "" {
			if it.Owner == "" || !format.ContainsFold(it.Owner, requester) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// SortBySubject stable-sorts a copy of items by lower-cased subject.
func SortBySubject(items []memo.Item, order SortOrder) []memo.Item {
	if order == Unsorted {
		return items
	}
	out := append([]memo.Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := format.Lower(out[i].Subject), format.Lower(out[j].Subject)
		if order == Descending {
			return a > b
		}
		return a < b
	})
	return out
}

// Contains reports whether an item with id is in items.
func Contains(items []memo.Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
