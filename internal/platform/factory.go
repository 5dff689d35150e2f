package platform

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/pkg/core"
	"github.com/aretw0/memodesk/pkg/filestore"
	"github.com/aretw0/memodesk/pkg/typed"
)

// App is the wired memodesk stack for one store root.
type App struct {
	Stores *Stores
	Memos  *core.Service
	Items  *typed.Service[memo.Item]
	Users  *typed.Repository[dataaccess.User]
	Files  *filestore.Store
	Data   *dataaccess.Adapter
	Logger *slog.Logger
}

// New initializes the store at uri and wires the services on top of it.
//
//	app, err := platform.New("./desk", platform.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	stores, err := initStores(context.Background(), uri, o)
	if err != nil {
		return nil, err
	}

	fsys := o.files
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	filesDir := o.str("files_dir", DefaultFilesDir)
	if !filepath.IsAbs(filesDir) {
		filesDir = filepath.Join(stores.Root, filesDir)
	}
	files := filestore.New(fsys, filesDir, o.str("file_base_url", "/v1/files"), logger)

	identity := o.identity
	if identity == nil {
		identity = dataaccess.Static{}
	}

	memos := core.NewService(stores.Memos, core.WithServiceLogger(logger))
	items := typed.NewService[memo.Item](memos)
	users := typed.NewRepository[dataaccess.User](stores.Users)

	logger.Debug("store ready", "root", stores.Root, "adapter", o.adapter)
	return &App{
		Stores: stores,
		Memos:  memos,
		Items:  items,
		Users:  users,
		Files:  files,
		Data:   dataaccess.New(items, users, files, identity, dataaccess.WithLogger(logger)),
		Logger: logger,
	}, nil
}

// Close releases the underlying stores.
func (a *App) Close() error {
	return a.Stores.Close()
}
