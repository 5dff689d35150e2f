package typed_test

import (
	"context"
	"testing"

	"github.com/aretw0/memodesk/pkg/adapters/fs"
	"github.com/aretw0/memodesk/pkg/core"
	"github.com/aretw0/memodesk/pkg/typed"
)

type UserProfile struct {
	Name                 string `json:"name"`
	ProfilePictureFileID string `json:"profilePictureFileId,omitempty"`
	Age                  int    `json:"age"`
}

func setupRepo(t *testing.T) core.Repository {
	t.Helper()
	repo := fs.NewRepository(fs.Config{Path: t.TempDir()})
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return repo
}

func TestTypedRepository(t *testing.T) {
	ctx := context.Background()
	userRepo := typed.NewRepository[UserProfile](setupRepo(t))

	user := &typed.DocumentModel[UserProfile]{
		ID:      "alice",
		Content: "Bio",
		Data:    UserProfile{Name: "Alice", Age: 30},
	}
	if err := userRepo.Save(ctx, user); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := userRepo.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Data.Name != "Alice" || got.Data.Age != 30 {
		t.Errorf("unexpected data: %+v", got.Data)
	}

	got.Data.Age = 31
	if err := got.Save(ctx); err != nil {
		t.Fatalf("active record Save failed: %v", err)
	}

	list, err := userRepo.List(ctx, core.Query{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Data.Age != 31 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestTypedService_Create(t *testing.T) {
	ctx := context.Background()
	svc := typed.NewService[UserProfile](core.NewService(setupRepo(t)))

	created, err := svc.Create(ctx, "", UserProfile{Name: "Bob"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected assigned id and createdAt, got %+v", created)
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Data.Name != "Bob" || !fetched.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("unexpected fetched doc: %+v", fetched)
	}

	detached := &typed.DocumentModel[UserProfile]{ID: "x"}
	if err := detached.Save(ctx); err == nil {
		t.Error("expected error saving a detached document")
	}
}
