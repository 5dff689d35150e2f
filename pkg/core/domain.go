// Package core holds the storage-agnostic document model used by memodesk.
//
// A Document is a schemaless record: an opaque ID assigned by the store, a
// free-form body and a metadata map. Higher layers (pkg/typed, internal/memo)
// map documents into concrete shapes.
package core

import "time"

// Metadata represents the flexible key-value pairs associated with a document.
type Metadata map[string]any

// Document is the central entity of the storage layer.
type Document struct {
	ID        string
	Content   string
	Metadata  Metadata
	CreatedAt time.Time
}

// Clone returns a copy of the document with its own metadata map.
// Nested values are shared.
func (d Document) Clone() Document {
	out := d
	if d.Metadata != nil {
		out.Metadata = make(Metadata, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// EventType represents the type of change in a collection.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in a collection.
type Event struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id"`
	Timestamp int64     `json:"timestamp"` // Unix timestamp
}
