package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/memodesk/internal/config"
)

// ErrRootNotFound is returned by FindRoot when no marker is found.
var ErrRootNotFound = errors.New("store root not found")

// FindRoot walks up from startDir looking for a store marker: the system
// directory or a config file.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if hasFile(dir, DefaultSystemDir) || hasFile(dir, config.FileName) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
