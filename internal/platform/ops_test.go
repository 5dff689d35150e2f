package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/platform"
	"github.com/aretw0/memodesk/pkg/adapters/fs"
	"github.com/aretw0/memodesk/pkg/adapters/sqlite"
)

func TestInit(t *testing.T) {
	t.Run("fs creates one directory per collection", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "desk")

		stores, err := platform.Init(root, platform.WithForceTemp(true))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		defer stores.Close()

		memos, ok := stores.Memos.(*fs.Repository)
		if !ok {
			t.Fatalf("expected fs repository, got %T", stores.Memos)
		}
		if memos.Path != filepath.Join(root, platform.MemosCollection) {
			t.Errorf("unexpected memos path %s", memos.Path)
		}
		for _, dir := range []string{platform.DefaultSystemDir, platform.MemosCollection, platform.UsersCollection} {
			if info, err := os.Stat(filepath.Join(root, dir)); err != nil || !info.IsDir() {
				t.Errorf("%s not created", dir)
			}
		}
	})

	t.Run("sqlite keeps collections in one file", func(t *testing.T) {
		root := t.TempDir()

		stores, err := platform.Init(root, platform.WithAdapter("sqlite"))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		defer stores.Close()

		if _, ok := stores.Users.(*sqlite.Repository); !ok {
			t.Fatalf("expected sqlite repository, got %T", stores.Users)
		}
		if _, err := os.Stat(filepath.Join(root, platform.DatabaseFile)); err != nil {
			t.Errorf("database file missing: %v", err)
		}
	})

	t.Run("MustExist fails for a missing root", func(t *testing.T) {
		_, err := platform.Init(filepath.Join(t.TempDir(), "missing"), platform.WithMustExist(true))
		if err == nil {
			t.Error("expected failure for missing directory")
		}
	})

	t.Run("unknown adapter", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithAdapter("s3"))
		if err == nil {
			t.Error("expected unknown adapter error")
		}
	})
}

func TestNew_WiresDataAccess(t *testing.T) {
	for _, adapter := range []string{"fs", "sqlite"} {
		t.Run(adapter, func(t *testing.T) {
			ctx := context.Background()
			app, err := platform.New(t.TempDir(),
				platform.WithAdapter(adapter),
				platform.WithFileSystem(afero.NewMemMapFs()),
				platform.WithIdentity(dataaccess.Static{ID: "u1"}),
			)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer app.Close()

			created, err := app.Data.CreateItem(ctx, memo.Item{Subject: "Budget", Owner: "u1", Status: "draft"})
			if err != nil {
				t.Fatalf("CreateItem failed: %v", err)
			}
			items, err := app.Data.ListPage(ctx, memo.PageDrafts)
			if err != nil {
				t.Fatalf("ListPage failed: %v", err)
			}
			if len(items) != 1 || items[0].ID != created.ID {
				t.Fatalf("unexpected items %+v", items)
			}
			if err := app.Data.RegisterUser(ctx, dataaccess.User{UserID: "u1", Name: "Ada"}); err != nil {
				t.Fatalf("RegisterUser failed: %v", err)
			}
			p, err := app.Data.ResolveProfile(ctx, "u1")
			if err != nil || p.Name != "Ada" {
				t.Fatalf("ResolveProfile = %+v, %v", p, err)
			}
		})
	}
}

func TestResolveStorePath(t *testing.T) {
	if got := platform.ResolveStorePath("", false); got != "." {
		t.Errorf("empty path resolved to %q", got)
	}
	inside := filepath.Join(os.TempDir(), "already-temp")
	if got := platform.ResolveStorePath(inside, true); got != inside {
		t.Errorf("temp path re-rooted to %q", got)
	}
	got := platform.ResolveStorePath("/home/user/desk", true)
	if got != filepath.Join(os.TempDir(), "memodesk-dev", "desk") {
		t.Errorf("unexpected sandbox path %q", got)
	}
}
