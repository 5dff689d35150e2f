package core

import "context"

// Repository defines the contract for storing and retrieving documents of a
// single collection (memos, users, ...).
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (Filesystem, SQL, ...).
type Repository interface {
	// Save persists a document. It creates if not exists, or updates if it does.
	// The ID and CreatedAt must already be assigned.
	Save(ctx context.Context, doc Document) error

	// Get retrieves a document by its ID. Missing documents yield ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// List returns the documents matching q ordered by CreatedAt, then ID.
	List(ctx context.Context, q Query) ([]Document, error)

	// Initialize ensures the underlying storage is ready (e.g., create directories, schema migration).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that can report changes made
// outside of the current process.
type Watchable interface {
	// Watch streams change events for IDs matching pattern (glob syntax).
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
