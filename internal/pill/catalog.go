package pill

import (
	"github.com/aretw0/memodesk/internal/memo"
)

// Catalog is an ordered, immutable set of pills.
type Catalog struct {
	pills []Pill
}

// NewCatalog keeps pills in declaration order.
func NewCatalog(pills ...Pill) *Catalog {
	return &Catalog{pills: append([]Pill(nil), pills...)}
}

// All returns every pill in declaration order.
func (c *Catalog) All() []Pill {
	return append([]Pill(nil), c.pills...)
}

// Lookup finds a pill by id.
func (c *Catalog) Lookup(id string) (Pill, bool) {
	return find(c.pills, id)
}

// ForPage returns the pills scoped to page or, when there are none, the
// global fallback pills.
func (c *Catalog) ForPage(page memo.PageID) []Pill {
	if scoped := scopedTo(c.pills, page); len(scoped) > 0 {
		return scoped
	}
	var global []Pill
	for _, p := range c.pills {
		if p.Global() {
			global = append(global, p)
		}
	}
	return global
}

// ForPageWithOverride applies the page scoping rule to override first and
// falls back to the catalog when override has nothing for page.
func (c *Catalog) ForPageWithOverride(page memo.PageID, override []Pill) []Pill {
	if len(override) > 0 {
		if scoped := scopedTo(override, page); len(scoped) > 0 {
			return scoped
		}
	}
	return c.ForPage(page)
}

// InitialPillID picks the pill active when page is entered: initial if given,
// else the first pill scoped to page, else the first pill, else Unassigned.
func InitialPillID(page memo.PageID, pills []Pill, initial string) string {
	if initial != "" {
		return initial
	}
	for _, p := range pills {
		if p.AppliesToPage(page) {
			return p.ID
		}
	}
	if len(pills) > 0 {
		return pills[0].ID
	}
	return Unassigned
}

// Find returns the pill with id from pills.
func Find(pills []Pill, id string) (Pill, bool) {
	return find(pills, id)
}

func find(pills []Pill, id string) (Pill, bool) {
	for _, p := range pills {
		if p.ID == id {
			return p, true
		}
	}
	return Pill{}, false
}

func scopedTo(pills []Pill, page memo.PageID) []Pill {
	var out []Pill
	for _, p := range pills {
		if p.AppliesToPage(page) {
			out = append(out, p)
		}
	}
	return out
}
