package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/memodesk/internal/config"
)

func TestFindRoot(t *testing.T) {
	markers := map[string]func(root string) error{
		"system dir": func(root string) error {
			return os.Mkdir(filepath.Join(root, DefaultSystemDir), 0755)
		},
		"config file": func(root string) error {
			return os.WriteFile(filepath.Join(root, config.FileName), []byte("adapter: fs\n"), 0644)
		},
	}

	for name, mark := range markers {
		t.Run(name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "desk")
			nested := filepath.Join(root, "memos", "2024", "q3")
			if err := os.MkdirAll(nested, 0755); err != nil {
				t.Fatal(err)
			}
			if err := mark(root); err != nil {
				t.Fatal(err)
			}

			for _, start := range []string{root, filepath.Dir(nested), nested} {
				got, err := FindRoot(start)
				if err != nil {
					t.Fatalf("FindRoot(%s): %v", start, err)
				}
				if filepath.Clean(got) != filepath.Clean(root) {
					t.Errorf("FindRoot(%s) = %s, want %s", start, got, root)
				}
			}
		})
	}

	t.Run("unmarked tree", func(t *testing.T) {
		_, err := FindRoot(t.TempDir())
		if !errors.Is(err, ErrRootNotFound) {
			t.Errorf("expected ErrRootNotFound, got %v", err)
		}
	})
}
