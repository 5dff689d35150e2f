// Package typed maps schemaless core documents onto Go structs.
//
// Metadata is converted with a JSON round trip, so struct fields are bound by
// their `json` tags.
package typed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/memodesk/pkg/core"
)

// DocumentModel wraps the raw core.Document with a typed Metadata field.
type DocumentModel[T any] struct {
	ID        string
	Content   string
	CreatedAt time.Time
	Data      T        // The typed metadata
	Saver     Saver[T] // Active Record reference interface
}

// Saver interface avoids tight coupling with Repository/Service structs.
type Saver[T any] interface {
	Save(ctx context.Context, doc *DocumentModel[T]) error
}

// Save persists the document using the attached saver (Repository or Service).
func (d *DocumentModel[T]) Save(ctx context.Context) error {
	if d.Saver == nil {
		return fmt.Errorf("document is detached (missing Saver)")
	}
	return d.Saver.Save(ctx, d)
}

// Repository wraps a core.Repository to provide type-safe access.
// It does not assign IDs; use Service for creation.
type Repository[T any] struct {
	repo core.Repository
}

// NewRepository creates a new type-safe wrapper around an existing repository.
func NewRepository[T any](repo core.Repository) *Repository[T] {
	return &Repository[T]{repo: repo}
}

// Save persists a typed document.
func (r *Repository[T]) Save(ctx context.Context, doc *DocumentModel[T]) error {
	metadata, err := ToMetadata(doc.Data)
	if err != nil {
		return err
	}
	if doc.Saver == nil {
		doc.Saver = r
	}
	return r.repo.Save(ctx, core.Document{
		ID:        doc.ID,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		Metadata:  metadata,
	})
}

// Get retrieves a document and unmarshals it.
func (r *Repository[T]) Get(ctx context.Context, id string) (*DocumentModel[T], error) {
	coreDoc, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDocument[T](coreDoc, r)
}

// List returns all documents matching q converted to the typed model.
func (r *Repository[T]) List(ctx context.Context, q core.Query) ([]*DocumentModel[T], error) {
	coreDocs, err := r.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return fromDocuments[T](coreDocs, r)
}

// ToMetadata converts a struct into a metadata map.
func ToMetadata[T any](data T) (core.Metadata, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	var metadata core.Metadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to map: %w", err)
	}
	if metadata == nil {
		metadata = core.Metadata{}
	}
	return metadata, nil
}

// FromDocument converts a core.Document into a DocumentModel bound to saver.
func FromDocument[T any](coreDoc core.Document, saver Saver[T]) (*DocumentModel[T], error) {
	raw, err := json.Marshal(coreDoc.Metadata)
	if err != nil {
		return nil, fmt.Errorf("metadata marshal failed: %w", err)
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal %s to target type failed: %w", coreDoc.ID, err)
	}

	return &DocumentModel[T]{
		ID:        coreDoc.ID,
		Content:   coreDoc.Content,
		CreatedAt: coreDoc.CreatedAt,
		Data:      data,
		Saver:     saver,
	}, nil
}

func fromDocuments[T any](coreDocs []core.Document, saver Saver[T]) ([]*DocumentModel[T], error) {
	result := make([]*DocumentModel[T], 0, len(coreDocs))
	for _, d := range coreDocs {
		model, err := FromDocument[T](d, saver)
		if err != nil {
			return nil, fmt.Errorf("failed to process document %s: %w", d.ID, err)
		}
		result = append(result, model)
	}
	return result, nil
}
