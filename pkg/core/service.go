package core

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Service handles the business logic for documents of one collection.
// It is the only place IDs and creation timestamps are assigned.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time

	mu          sync.RWMutex
	entropy     io.Reader
	lastCreated time.Time
	created     int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		logger:  slog.Default(),
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repository exposes the underlying adapter.
func (s *Service) Repository() Repository {
	return s.repo
}

// CreateDocument stores a new document, assigning its ID and CreatedAt.
// CreatedAt is strictly increasing across calls on the same service.
func (s *Service) CreateDocument(ctx context.Context, content string, metadata Metadata) (Document, error) {
	s.mu.Lock()
	now := s.now().UTC()
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Nanosecond)
	}
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		s.mu.Unlock()
		return Document{}, fmt.Errorf("failed to generate id: %w", err)
	}
	s.lastCreated = now
	s.mu.Unlock()

	if metadata == nil {
		metadata = make(Metadata)
	}
	doc := Document{
		ID:        id.String(),
		Content:   content,
		Metadata:  metadata,
		CreatedAt: now,
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return Document{}, err
	}

	s.mu.Lock()
	s.created++
	s.mu.Unlock()

	s.logger.Debug("document created", "id", doc.ID)
	return doc, nil
}

// SaveDocument replaces an existing document. CreatedAt is carried over from
// the stored version so callers cannot rewrite it.
func (s *Service) SaveDocument(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return ErrEmptyID
	}
	current, err := s.repo.Get(ctx, doc.ID)
	if err != nil {
		return err
	}
	doc.CreatedAt = current.CreatedAt
	return s.repo.Save(ctx, doc)
}

// GetDocument retrieves a document.
func (s *Service) GetDocument(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrEmptyID
	}
	return s.repo.Get(ctx, id)
}

// ListDocuments retrieves the documents matching q.
func (s *Service) ListDocuments(ctx context.Context, q Query) ([]Document, error) {
	return s.repo.List(ctx, q)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	return w.Watch(ctx, pattern)
}
