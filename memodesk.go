package memodesk

import (
	_ "embed"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/platform"
	"github.com/aretw0/memodesk/internal/server"
	"github.com/aretw0/memodesk/pkg/core"
)

// Version exposes the version of the library.
//
//go:embed VERSION
var Version string

// --- Types ---

// App is a wired memo desk: stores, services and the data access adapter.
type App = platform.App

// Item is a memo.
type Item = memo.Item

// Review is a reviewer's entry on a memo.
type Review = memo.Review

// Identity is the signed-in user.
type Identity = dataaccess.Identity

// IdentityProvider resolves the signed-in user.
type IdentityProvider = dataaccess.IdentityProvider

// StaticIdentity always resolves to the same user.
type StaticIdentity = dataaccess.Static

// --- Configuration ---

// Option defines a functional option for configuring a desk.
type Option = platform.Option

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithIdentity sets how the current user is resolved.
func WithIdentity(p IdentityProvider) Option {
	return platform.WithIdentity(p)
}

// WithRepositories injects custom memo and user stores.
func WithRepositories(memos, users core.Repository) Option {
	return platform.WithRepositories(memos, users)
}

// WithFileSystem sets the filesystem backing uploaded attachments.
func WithFileSystem(fsys afero.Fs) Option {
	return platform.WithFileSystem(fsys)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the store directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the store without allowing writes.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// --- Factory ---

// Open initializes the store at path and wires a desk on top of it.
func Open(path string, opts ...Option) (*App, error) {
	return platform.New(path, opts...)
}

// NewServer returns the HTTP API of app.
func NewServer(app *App, opts ...server.Option) *server.Server {
	return server.New(app, opts...)
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual store path based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindStoreRoot recursively looks upwards for a store root indicator.
func FindStoreRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
