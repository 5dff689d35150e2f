package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_Load(t *testing.T) {
	t.Run("Starts Empty if File Missing", func(t *testing.T) {
		c := newCache(t.TempDir(), ".cache")
		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty entries, got %d", c.Len())
		}
	})

	t.Run("Loads Valid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		cacheDir := filepath.Join(tmpDir, ".cache")
		os.MkdirAll(cacheDir, 0755)

		jsonContent := `{
			"version": 2,
			"entries": {
				"m1.md": {
					"id": "m1",
					"content": "body",
					"metadata": {"subject": "Subject 1"}
				}
			}
		}`
		os.WriteFile(filepath.Join(cacheDir, "index.json"), []byte(jsonContent), 0644)

		c := newCache(tmpDir, ".cache")
		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		entry, ok := c.index.Entries["m1.md"]
		if !ok {
			t.Fatal("Expected entry m1.md not found")
		}
		doc := entry.document()
		if doc.Metadata["subject"] != "Subject 1" || doc.Content != "body" {
			t.Errorf("unexpected document %+v", doc)
		}
	})

	t.Run("Resets on Corrupted or Old Index", func(t *testing.T) {
		for name, content := range map[string]string{
			"corrupted": "{ invalid json",
			"old":       `{"version": 1, "entries": {"a.md": {"id": "a"}}}`,
		} {
			t.Run(name, func(t *testing.T) {
				tmpDir := t.TempDir()
				cacheDir := filepath.Join(tmpDir, ".cache")
				os.MkdirAll(cacheDir, 0755)
				os.WriteFile(filepath.Join(cacheDir, "index.json"), []byte(content), 0644)

				c := newCache(tmpDir, ".cache")
				if err := c.Load(); err != nil {
					t.Fatalf("Load failed: %v", err)
				}
				if c.Len() != 0 {
					t.Errorf("Expected empty entries, got %d", c.Len())
				}
			})
		}
	})
}

func TestCache_Save(t *testing.T) {
	t.Run("Does Not Save if Not Dirty", func(t *testing.T) {
		c := newCache(t.TempDir(), ".cache")
		if err := c.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
			t.Error("Expected index.json NOT to exist")
		}
	})

	t.Run("Saves if Dirty", func(t *testing.T) {
		c := newCache(t.TempDir(), ".cache")
		c.Set("foo.md", &indexEntry{ID: "foo"})

		if err := c.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(c.Path); os.IsNotExist(err) {
			t.Fatal("Expected index.json to exist")
		}
		if c.index.dirty {
			t.Error("Expected dirty to be false after save")
		}
	})
}

func TestCache_Get_Set(t *testing.T) {
	c := newCache(t.TempDir(), ".memodesk")

	now := time.Now().Truncate(time.Second)
	c.Set("test.md", &indexEntry{ID: "test", LastModified: now})

	if got, hit := c.Get("test.md", now); !hit || got.ID != "test" {
		t.Error("Expected cache hit with same mtime")
	}
	if _, hit := c.Get("test.md", now.Add(time.Hour)); hit {
		t.Error("Expected cache miss due to mtime mismatch")
	}
	if _, hit := c.Get("ghost.md", now); hit {
		t.Error("Expected cache miss for missing key")
	}
}

func TestCache_Prune(t *testing.T) {
	c := newCache(t.TempDir(), ".memodesk")

	c.Set("keep.md", &indexEntry{ID: "keep"})
	c.Set("drop.md", &indexEntry{ID: "drop"})
	c.index.dirty = false

	c.Prune(map[string]bool{"keep.md": true})

	if _, ok := c.index.Entries["keep.md"]; !ok {
		t.Error("Expected keep.md to remain")
	}
	if _, ok := c.index.Entries["drop.md"]; ok {
		t.Error("Expected drop.md to be removed")
	}
	if !c.index.dirty {
		t.Error("Expected dirty to be true after pruning")
	}
}
