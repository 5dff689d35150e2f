package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/memodesk/pkg/core"
)

// createdAtKey is the metadata key the creation timestamp is persisted under.
const createdAtKey = "createdAt"

// Repository implements core.Repository for one collection stored as one file
// per document in a flat directory.
type Repository struct {
	Path        string
	cache       *cache
	config      Config
	serializers map[string]Serializer

	mu            sync.RWMutex
	watcherActive bool
	readOnly      bool
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".memodesk"
	// Extension used for new documents. Defaults to ".md".
	Extension string
	// Serializers overrides or extends DefaultSerializers by extension.
	Serializers map[string]Serializer
	// ErrorHandler receives watcher runtime errors.
	ErrorHandler func(error)
	// EventBuffer is the capacity of the Watch channel. Zero means 100.
	EventBuffer int
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = ".memodesk"
	}
	if config.Extension == "" {
		config.Extension = ".md"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 100
	}

	serializers := DefaultSerializers()
	for ext, s := range config.Serializers {
		serializers[ext] = s
	}

	return &Repository{
		Path:        config.Path,
		config:      config,
		cache:       newCache(config.Path, config.SystemDir),
		serializers: serializers,
		readOnly:    config.ReadOnly,
	}
}

// Initialize creates the collection directory unless MustExist or ReadOnly is set.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.readOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", r.Path)
		}
	} else if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := r.cache.Load(); err != nil {
		r.config.Logger.Warn("ignoring unreadable cache", "path", r.cache.Path, "error", err)
	}
	return nil
}

// Save writes doc to {Path}/{ID}{ext}. An existing file keeps its extension.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	if err := validateID(doc.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path, ext, err := r.locate(doc.ID)
	if errors.Is(err, core.ErrNotFound) {
		ext = r.config.Extension
		path = filepath.Join(r.Path, doc.ID+ext)
	} else if err != nil {
		return err
	}

	s, ok := r.serializers[ext]
	if !ok {
		return fmt.Errorf("no serializer for %s", ext)
	}

	stored := doc.Clone()
	if stored.Metadata == nil {
		stored.Metadata = make(core.Metadata)
	}
	if !doc.CreatedAt.IsZero() {
		stored.Metadata[createdAtKey] = doc.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	data, err := s.Serialize(stored)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", doc.ID, err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return err
	}

	r.config.Logger.Debug("document saved", "id", doc.ID, "path", path)
	return nil
}

// Get reads a single document.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	if err := validateID(id); err != nil {
		return core.Document{}, err
	}
	path, ext, err := r.locate(id)
	if err != nil {
		return core.Document{}, err
	}
	return r.read(path, ext, id)
}

// List scans the collection directory, serving unchanged files from the cache.
func (r *Repository) List(ctx context.Context, q core.Query) ([]core.Document, error) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	docs := make([]core.Document, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		id, ext, ok := r.splitName(name)
		if e.IsDir() || !ok {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}
		seen[name] = true

		if entry, hit := r.cache.Get(name, info.ModTime()); hit {
			docs = append(docs, entry.document())
			continue
		}

		doc, err := r.read(filepath.Join(r.Path, name), ext, id)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable document", "file", name, "error", err)
			continue
		}
		r.cache.Set(name, &indexEntry{
			ID:           doc.ID,
			Content:      doc.Content,
			Metadata:     doc.Clone().Metadata,
			CreatedAt:    doc.CreatedAt,
			LastModified: info.ModTime(),
		})
		docs = append(docs, doc)
	}

	r.cache.Prune(seen)
	if !r.readOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Debug("cache save failed", "error", err)
		}
	}

	return q.Apply(docs), nil
}

func (r *Repository) read(path, ext, id string) (core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Document{}, fmt.Errorf("%s: %w", id, core.ErrNotFound)
		}
		return core.Document{}, err
	}
	s, ok := r.serializers[ext]
	if !ok {
		return core.Document{}, fmt.Errorf("no serializer for %s", ext)
	}
	parsed, err := s.Parse(bytes.NewReader(data))
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse %s: %w", id, err)
	}

	doc := *parsed
	doc.ID = id
	doc.CreatedAt = extractCreatedAt(doc.Metadata)
	return doc, nil
}

func extractCreatedAt(md core.Metadata) time.Time {
	raw, ok := md[createdAtKey]
	if !ok {
		return time.Time{}
	}
	delete(md, createdAtKey)
	switch v := raw.(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// locate finds the file backing id across the supported extensions.
func (r *Repository) locate(id string) (string, string, error) {
	candidates := []string{r.config.Extension}
	for ext := range r.serializers {
		if ext != r.config.Extension {
			candidates = append(candidates, ext)
		}
	}
	for _, ext := range candidates {
		path := filepath.Join(r.Path, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, ext, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("%s: %w", id, core.ErrNotFound)
}

// splitName maps a file name to a document ID. Hidden, temporary and
// unsupported files are rejected.
func (r *Repository) splitName(name string) (id, ext string, ok bool) {
	if strings.HasPrefix(name, ".") || isTempFile(name) {
		return "", "", false
	}
	ext = filepath.Ext(name)
	if _, known := r.serializers[ext]; !known {
		return "", "", false
	}
	return strings.TrimSuffix(name, ext), ext, true
}

func validateID(id string) error {
	if id == "" {
		return core.ErrEmptyID
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." || strings.HasPrefix(id, ".") {
		return fmt.Errorf("invalid document id %q", id)
	}
	return nil
}
