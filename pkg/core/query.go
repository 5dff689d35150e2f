package core

import (
	"fmt"
	"sort"
)

// Query narrows a List call.
type Query struct {
	// Equal keeps documents whose metadata value for each key, rendered
	// with fmt.Sprint, equals the given string.
	Equal map[string]string
	// Limit caps the result size. Zero means no limit.
	Limit int
}

// Where returns a query with a single equality predicate.
func Where(key, value string) Query {
	return Query{Equal: map[string]string{key: value}}
}

// Matches reports whether doc satisfies every predicate of q.
func (q Query) Matches(doc Document) bool {
	for k, want := range q.Equal {
		v, ok := doc.Metadata[k]
		if !ok || v == nil {
			return false
		}
		if fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}

// Apply filters docs with q, orders the survivors and applies the limit.
// docs is not modified.
func (q Query) Apply(docs []Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if q.Matches(d) {
			out = append(out, d)
		}
	}
	SortDocuments(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// SortDocuments orders docs by CreatedAt, breaking ties by ID.
func SortDocuments(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
