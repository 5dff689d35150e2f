// Package pill defines the category filters shown above each memo list.
package pill

import (
	"strings"

	"github.com/aretw0/memodesk/internal/format"
	"github.com/aretw0/memodesk/internal/memo"
)

// Unassigned is the active pill id used when a page has no pills at all.
const Unassigned = "unassigned"

// MatchKind tells how a pill selects items.
type MatchKind int

const (
	// DefaultStatusMatch keeps items whose status contains the pill id.
	DefaultStatusMatch MatchKind = iota
	// CustomPredicate delegates to a predicate function.
	CustomPredicate
)

// Predicate decides whether an item belongs to a pill.
type Predicate func(memo.Item) bool

// Matcher is the selection rule of a pill.
type Matcher struct {
	kind MatchKind
	pred Predicate
}

// StatusMatch returns the default status-substring matcher.
func StatusMatch() Matcher {
	return Matcher{kind: DefaultStatusMatch}
}

// Custom wraps p. A nil predicate yields the default matcher.
func Custom(p Predicate) Matcher {
	if p == nil {
		return StatusMatch()
	}
	return Matcher{kind: CustomPredicate, pred: p}
}

// Kind reports which variant m is.
func (m Matcher) Kind() MatchKind {
	return m.kind
}

// Pill is a named category filter.
type Pill struct {
	ID    string
	Label string
	Icon  string
	// AppliesTo lists the pages the pill belongs to. Nil marks a global
	// fallback pill.
	AppliesTo  []memo.PageID
	Match      Matcher
	ShowAvatar bool
}

// Global reports whether the pill is part of the fallback set.
func (p Pill) Global() bool {
	return p.AppliesTo == nil
}

// AppliesToPage reports whether the pill is scoped to page.
func (p Pill) AppliesToPage(page memo.PageID) bool {
	for _, id := range p.AppliesTo {
		if id == page {
			return true
		}
	}
	return false
}

// Matches applies the pill's rule to it. A panicking predicate counts as no match.
func (p Pill) Matches(it memo.Item) bool {
	switch p.Match.kind {
	case CustomPredicate:
		return safeCall(p.Match.pred, it)
	case DefaultStatusMatch:
		return MatchStatus(it.Status, p.ID)
	default:
		return false
	}
}

// MatchStatus is the default rule: status contains id, ignoring case.
// Items without a status never match.
func MatchStatus(status, id string) bool {
	if status == "" {
		return false
	}
	return format.ContainsFold(status, id)
}

func safeCall(pred Predicate, it memo.Item) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return pred(it)
}

// StatusRule builds the common "exclude these, include any of those" predicate
// over an item's status. Terms match regardless of case.
func StatusRule(exclude []string, include ...string) Predicate {
	exclude, include = foldAll(exclude), foldAll(include)
	return func(it memo.Item) bool {
		s := format.Fold(it.Status)
		if s == "" {
			return false
		}
		for _, x := range exclude {
			if strings.Contains(s, x) {
				return false
			}
		}
		for _, in := range include {
			if strings.Contains(s, in) {
				return true
			}
		}
		return false
	}
}

func foldAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = format.Fold(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
