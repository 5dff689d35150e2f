// Package filestore persists uploaded attachments and signatures and hands
// back opaque references.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// PlaceholderURL is returned by URLFor when there is no reference to resolve.
const PlaceholderURL = "https://cdn-icons-png.flaticon.com/512/149/149071.png"

// ErrInvalidReference is returned for references this store never issued.
var ErrInvalidReference = errors.New("invalid file reference")

// Store keeps files under a directory of an afero filesystem.
type Store struct {
	fs      afero.Fs
	dir     string
	baseURL string
	logger  *slog.Logger
}

// New creates a Store rooted at dir. baseURL prefixes the URLs returned by
// URLFor (e.g. "/v1/files").
func New(fsys afero.Fs, dir, baseURL string, logger *slog.Logger) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{fs: fsys, dir: dir, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Upload copies r into the store and returns a new reference of the form
// "<uuid><ext>", keeping the extension of name.
func (s *Store) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create file store: %w", err)
	}

	ref := uuid.NewString() + strings.ToLower(filepath.Ext(name))
	f, err := s.fs.OpenFile(filepath.Join(s.dir, ref), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", ref, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(filepath.Join(s.dir, ref))
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	s.logger.Debug("file uploaded", "name", name, "ref", ref, "bytes", n)
	return ref, nil
}

// Open returns the stored content for ref.
func (s *Store) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := Validate(ref); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", ref, os.ErrNotExist)
		}
		return nil, err
	}
	return f, nil
}

// URLFor returns a display URL for ref. An empty reference yields PlaceholderURL.
func (s *Store) URLFor(ref string) string {
	if ref == "" {
		return PlaceholderURL
	}
	return s.baseURL + "/" + url.PathEscape(ref)
}

// Validate checks that ref has the shape produced by Upload.
func Validate(ref string) error {
	ext := path.Ext(ref)
	if _, err := uuid.Parse(strings.TrimSuffix(ref, ext)); err != nil {
		return fmt.Errorf("%q: %w", ref, ErrInvalidReference)
	}
	if strings.ContainsAny(ext, `/\`) {
		return fmt.Errorf("%q: %w", ref, ErrInvalidReference)
	}
	return nil
}
