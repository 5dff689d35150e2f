package platform

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/memodesk/pkg/adapters/fs"
	"github.com/aretw0/memodesk/pkg/adapters/sqlite"
	"github.com/aretw0/memodesk/pkg/core"
)

// Store layout under the root.
const (
	DefaultSystemDir = ".memodesk"
	MemosCollection  = "memos"
	UsersCollection  = "users"
	DatabaseFile     = "memodesk.db"
	DefaultFilesDir  = "files"
)

// Stores are the initialized repositories of one store root.
type Stores struct {
	Root  string
	Memos core.Repository
	Users core.Repository
	db    *sql.DB
}

// Close releases the database handle, if any.
func (s *Stores) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Init prepares the store at uri and returns its repositories. The uri is
// the root directory for both adapters.
func Init(uri string, opts ...Option) (*Stores, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStores(context.Background(), uri, o)
}

func initStores(ctx context.Context, uri string, o *options) (*Stores, error) {
	if o.memos != nil && o.users != nil {
		return &Stores{Root: uri, Memos: o.memos, Users: o.users}, nil
	}

	root := resolveRoot(uri, o)
	var (
		stores *Stores
		err    error
	)
	switch o.adapter {
	case "fs":
		stores, err = initFS(root, o)
	case "sqlite":
		stores, err = initSQLite(root, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	for _, repo := range []core.Repository{stores.Memos, stores.Users} {
		if err := repo.Initialize(ctx); err != nil {
			_ = stores.Close()
			return nil, err
		}
	}
	return stores, nil
}

func resolveRoot(uri string, o *options) string {
	readOnly := o.flag("read_only", false)
	bypass := readOnly || !o.flag("dev_safety", true)
	useTemp := o.flag("temp_dir", false) || (IsDevRun() && !bypass)
	root := ResolveStorePath(uri, useTemp)

	if o.logger != nil && useTemp && root != filepath.Clean(uri) {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", uri, "resolved_path", root)
	}
	return root
}

func prepareRoot(root string, o *options) error {
	if o.flag("read_only", false) || o.flag("must_exist", false) {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("store root: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store root is not a directory: %s", root)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Join(root, o.str("system_dir", DefaultSystemDir)), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// initFS lays out one directory per collection under root.
func initFS(root string, o *options) (*Stores, error) {
	if err := prepareRoot(root, o); err != nil {
		return nil, err
	}
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	eventBuffer, _ := o.config["event_buffer"].(int)

	repo := func(collection string) *fs.Repository {
		return fs.NewRepository(fs.Config{
			Path:         filepath.Join(root, collection),
			ReadOnly:     o.flag("read_only", false),
			Logger:       o.logger,
			SystemDir:    o.str("system_dir", DefaultSystemDir),
			Extension:    o.str("extension", ".md"),
			ErrorHandler: errorHandler,
			EventBuffer:  eventBuffer,
		})
	}

	stores := &Stores{Root: root, Memos: o.memos, Users: o.users}
	if stores.Memos == nil {
		stores.Memos = repo(MemosCollection)
	}
	if stores.Users == nil {
		stores.Users = repo(UsersCollection)
	}
	return stores, nil
}

// initSQLite keeps both collections in one database file under root.
func initSQLite(root string, o *options) (*Stores, error) {
	if err := prepareRoot(root, o); err != nil {
		return nil, err
	}
	db, err := sqlite.Open(filepath.Join(root, DatabaseFile))
	if err != nil {
		return nil, err
	}
	stores := &Stores{Root: root, Memos: o.memos, Users: o.users, db: db}
	if stores.Memos == nil {
		stores.Memos = sqlite.NewRepository(db, MemosCollection, o.logger)
	}
	if stores.Users == nil {
		stores.Users = sqlite.NewRepository(db, UsersCollection, o.logger)
	}
	return stores, nil
}
