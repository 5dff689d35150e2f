package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/memodesk/pkg/core"
)

// indexEntry is a parsed snapshot of one document file.
type indexEntry struct {
	ID           string                 `json:"id"`
	Content      string                 `json:"content,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	LastModified time.Time              `json:"lastModified"`
}

func (e *indexEntry) document() core.Document {
	doc := core.Document{
		ID:        e.ID,
		Content:   e.Content,
		Metadata:  make(core.Metadata, len(e.Metadata)),
		CreatedAt: e.CreatedAt,
	}
	for k, v := range e.Metadata {
		doc.Metadata[k] = v
	}
	return doc
}

// index represents the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // keyed by file name, e.g. "01HX....md"
	dirty   bool
	mu      sync.RWMutex
}

const indexVersion = 2

// cache keeps parsed documents keyed by file name and mtime so List does not
// re-parse unchanged files.
type cache struct {
	Path  string // {store}/{systemDir}/index.json
	index *index
}

func newCache(storePath, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(storePath, systemDir, "index.json"),
		index: &index{
			Version: indexVersion,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk. A missing, corrupted or outdated index
// yields an empty cache.
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	var loaded struct {
		Version int                    `json:"version"`
		Entries map[string]*indexEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &loaded); err != nil || loaded.Version != indexVersion {
		c.index.Entries = make(map[string]*indexEntry)
		return nil
	}
	if loaded.Entries == nil {
		loaded.Entries = make(map[string]*indexEntry)
	}
	c.index.Entries = loaded.Entries
	c.index.dirty = false
	return nil
}

// Save persists the cache if it changed since the last Load/Save.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry for name when its mtime matches.
func (c *cache) Get(name string, mtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[name]
	if !ok || !entry.LastModified.Equal(mtime) {
		return nil, false
	}
	return entry, true
}

func (c *cache) Set(name string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[name] = entry
	c.index.dirty = true
}

// Prune removes entries whose file was not seen.
func (c *cache) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for name := range c.index.Entries {
		if !keep[name] {
			delete(c.index.Entries, name)
			c.index.dirty = true
		}
	}
}

func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
