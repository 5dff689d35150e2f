package platform

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/pkg/core"
)

// options holds the internal configuration of the memodesk stack.
type options struct {
	memos    core.Repository
	users    core.Repository
	logger   *slog.Logger
	adapter  string
	files    afero.Fs
	identity dataaccess.IdentityProvider
	config   map[string]interface{}
}

// Option defines a functional option for configuring the stack.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

func (o *options) str(key, def string) string {
	if v, ok := o.config[key].(string); ok && v != "" {
		return v
	}
	return def
}

func (o *options) flag(key string, def bool) bool {
	if v, ok := o.config[key].(bool); ok {
		return v
	}
	return def
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithRepositories injects the memo and user stores, skipping the adapter.
func WithRepositories(memos, users core.Repository) Option {
	return func(o *options) {
		o.memos = memos
		o.users = users
	}
}

// WithFileSystem sets the filesystem backing uploaded files. Defaults to the
// OS filesystem.
func WithFileSystem(fsys afero.Fs) Option {
	return func(o *options) {
		o.files = fsys
	}
}

// WithIdentity sets how the current user is resolved.
func WithIdentity(p dataaccess.IdentityProvider) Option {
	return func(o *options) {
		o.identity = p
	}
}

// WithFilesDir sets the upload directory, relative to the store root.
func WithFilesDir(dir string) Option {
	return func(o *options) {
		o.config["files_dir"] = dir
	}
}

// WithFileBaseURL sets the prefix of attachment URLs.
func WithFileBaseURL(url string) Option {
	return func(o *options) {
		o.config["file_base_url"] = url
	}
}

// WithMustExist requires the store directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithSystemDir sets the hidden directory name. Defaults to ".memodesk".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithExtension sets the file extension of new fs documents (".md", ".json",
// ".yaml").
func WithExtension(ext string) Option {
	return func(o *options) {
		o.config["extension"] = ext
	}
}

// WithEventBuffer sets the capacity of watch channels. Zero means 100.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler receives runtime errors of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly rejects writes and skips directory creation.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// When enabled (the default) stores outside the temp directory are re-rooted
// into it.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
