package typed

import (
	"context"

	"github.com/aretw0/memodesk/pkg/core"
)

// Service wraps a core.Service to provide type-safe access, including ID and
// timestamp assignment on Create.
type Service[T any] struct {
	svc *core.Service
}

// NewService creates a new typed service wrapper.
func NewService[T any](svc *core.Service) *Service[T] {
	return &Service[T]{svc: svc}
}

// Create stores a new document and returns it with its assigned ID and CreatedAt.
func (s *Service[T]) Create(ctx context.Context, content string, data T) (*DocumentModel[T], error) {
	metadata, err := ToMetadata(data)
	if err != nil {
		return nil, err
	}
	doc, err := s.svc.CreateDocument(ctx, content, metadata)
	if err != nil {
		return nil, err
	}
	return FromDocument[T](doc, s)
}

// Save replaces an existing document. CreatedAt is preserved by the core service.
func (s *Service[T]) Save(ctx context.Context, doc *DocumentModel[T]) error {
	metadata, err := ToMetadata(doc.Data)
	if err != nil {
		return err
	}
	if doc.Saver == nil {
		doc.Saver = s
	}
	return s.svc.SaveDocument(ctx, core.Document{
		ID:       doc.ID,
		Content:  doc.Content,
		Metadata: metadata,
	})
}

// Get retrieves a document via Service.
func (s *Service[T]) Get(ctx context.Context, id string) (*DocumentModel[T], error) {
	coreDoc, err := s.svc.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDocument[T](coreDoc, s)
}

// List retrieves the documents matching q.
func (s *Service[T]) List(ctx context.Context, q core.Query) ([]*DocumentModel[T], error) {
	coreDocs, err := s.svc.ListDocuments(ctx, q)
	if err != nil {
		return nil, err
	}
	return fromDocuments[T](coreDocs, s)
}

// Watch observes changes in the repository.
func (s *Service[T]) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return s.svc.Watch(ctx, pattern)
}
