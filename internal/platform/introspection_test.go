package platform_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/platform"
	"github.com/aretw0/memodesk/pkg/adapters/fs"
	"github.com/aretw0/memodesk/pkg/core"
)

func TestAppState(t *testing.T) {
	for _, tc := range []struct {
		adapter   string
		memosType string
		watchable bool
	}{
		{"fs", "fs-repository", true},
		{"sqlite", "sqlite-repository", false},
	} {
		t.Run(tc.adapter, func(t *testing.T) {
			root := t.TempDir()
			app, err := platform.New(root,
				platform.WithAdapter(tc.adapter),
				platform.WithFileSystem(afero.NewMemMapFs()),
				platform.WithIdentity(dataaccess.Static{ID: "u1"}),
			)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer app.Close()

			if _, err := app.Data.CreateItem(context.Background(), memo.Item{Subject: "Budget", Owner: "u1"}); err != nil {
				t.Fatalf("CreateItem failed: %v", err)
			}

			desc := platform.Describe(app)
			if desc.Type != "app" {
				t.Errorf("type = %q", desc.Type)
			}
			state, ok := desc.State.(platform.AppState)
			if !ok {
				t.Fatalf("unexpected state %T", desc.State)
			}
			if state.Root != root {
				t.Errorf("root = %q, want %q", state.Root, root)
			}
			svc, ok := state.Service.State.(core.ServiceState)
			if !ok {
				t.Fatalf("unexpected service state %T", state.Service.State)
			}
			if svc.Created != 1 || svc.Watchable != tc.watchable || svc.RepositoryType != tc.memosType {
				t.Errorf("service state = %+v", svc)
			}
			if state.Memos.Type != tc.memosType {
				t.Errorf("memos type = %q", state.Memos.Type)
			}
			if tc.adapter == "fs" {
				repo, ok := state.Memos.State.(fs.RepositoryState)
				if !ok {
					t.Fatalf("unexpected repository state %T", state.Memos.State)
				}
				if repo.ReadOnly || len(repo.Serializers) == 0 {
					t.Errorf("repository state = %+v", repo)
				}
			}
		})
	}
}

func TestDescribeNonComponent(t *testing.T) {
	if d := platform.Describe(42); d.Type != "" || d.State != nil {
		t.Errorf("Describe(42) = %+v", d)
	}
}
