package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/memodesk/pkg/adapters/fs"
	"github.com/aretw0/memodesk/pkg/core"
)

// setupRepo creates an initialized repository in a temp dir.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "memos")
	cfg := fs.Config{Path: path}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	if !cfg.MustExist && !cfg.ReadOnly {
		if err := repo.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
	}
	return repo, path
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupRepo(t)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected directory to be created at %s", path)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) { c.MustExist = true })
		if err := repo.Initialize(context.Background()); err == nil {
			t.Error("expected Initialize to fail when directory is missing and MustExist=true")
		}
	})
}

func TestSaveGetRoundTrip(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)

	doc := core.Document{
		ID:        "01HXAMPLE",
		Content:   "Please review.",
		CreatedAt: created,
		Metadata: core.Metadata{
			"subject": "Budget",
			"owner":   "u1",
			"status":  "draft",
		},
	}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "01HXAMPLE.md")); err != nil {
		t.Fatalf("expected markdown file: %v", err)
	}

	got, err := repo.Get(ctx, "01HXAMPLE")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Content != "Please review." {
		t.Errorf("content mismatch: %q", got.Content)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("createdAt mismatch: %v", got.CreatedAt)
	}
	if _, leaked := got.Metadata["createdAt"]; leaked {
		t.Error("createdAt should not remain in metadata")
	}
	if got.Metadata["owner"] != "u1" {
		t.Errorf("owner mismatch: %v", got.Metadata["owner"])
	}
}

func TestGetMissing(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRejectsUnsafeIDs(t *testing.T) {
	repo, _ := setupRepo(t)
	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := repo.Save(context.Background(), core.Document{ID: id}); err == nil {
			t.Errorf("expected error for id %q", id)
		}
	}
}

func TestList(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, owner := range []string{"u1", "u2", "u1"} {
		doc := core.Document{
			ID:        string(rune('c' - i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Metadata:  core.Metadata{"owner": owner},
		}
		if err := repo.Save(ctx, doc); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	// Noise the scanner must skip.
	os.WriteFile(filepath.Join(path, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(path, fs.TempFilePrefix+"123"), []byte("x"), 0644)

	docs, err := repo.List(ctx, core.Where("owner", "u1"))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "c" || docs[1].ID != "a" {
		t.Errorf("expected creation order [c a], got [%s %s]", docs[0].ID, docs[1].ID)
	}

	// Second pass is served from the cache and must agree.
	again, err := repo.List(ctx, core.Where("owner", "u1"))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(again) != 2 || again[0].ID != "c" {
		t.Errorf("cached listing mismatch: %+v", again)
	}
	if _, err := os.Stat(filepath.Join(path, ".memodesk", "index.json")); err != nil {
		t.Errorf("expected index.json to be written: %v", err)
	}
}

func TestJSONExtension(t *testing.T) {
	repo, path := setupRepo(t, func(c *fs.Config) { c.Extension = ".json" })
	ctx := context.Background()

	if err := repo.Save(ctx, core.Document{ID: "u1", Metadata: core.Metadata{"name": "Ada"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "u1.json")); err != nil {
		t.Fatalf("expected json file: %v", err)
	}
	got, err := repo.Get(ctx, "u1")
	if err != nil || got.Metadata["name"] != "Ada" {
		t.Errorf("unexpected get result %+v, %v", got, err)
	}
}

func TestReadOnly(t *testing.T) {
	_, path := setupRepo(t)
	ro := fs.NewRepository(fs.Config{Path: path, ReadOnly: true})
	if err := ro.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	err := ro.Save(context.Background(), core.Document{ID: "x"})
	if !errors.Is(err, core.ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestWatch(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := repo.Watch(ctx, "*")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := repo.Save(ctx, core.Document{ID: "m1", Content: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	select {
	case e := <-events:
		if e.ID != "m1" {
			t.Errorf("expected event for m1, got %+v", e)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}
