package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "memo.md")

		if err := writeFileAtomic(filename, []byte("hello atomic"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != "hello atomic" {
			t.Errorf("Expected content 'hello atomic', got '%s'", string(got))
		}
	})

	t.Run("Overwrites And Leaves No Temp Files", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "memo.md")
		if err := os.WriteFile(filename, []byte("initial"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		if err := writeFileAtomic(filename, []byte("overwritten"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}

		got, _ := os.ReadFile(filename)
		if string(got) != "overwritten" {
			t.Errorf("Expected 'overwritten', got '%s'", string(got))
		}

		entries, _ := os.ReadDir(tmpDir)
		for _, e := range entries {
			if isTempFile(e.Name()) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})

	t.Run("Fails For Missing Directory", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "memo.md")
		if err := writeFileAtomic(filename, []byte("x"), 0644); err == nil {
			t.Error("expected error when directory does not exist")
		}
	})
}
