package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk/internal/config"
	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/platform"
	"github.com/aretw0/memodesk/internal/schemaform"
)

var (
	verbose    bool
	storePath  string
	adapter    string
	user       string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "memodesk",
	Short: "Manage internal memos from the command line",
	Long: `memodesk keeps internal memos in a local store (plain files or SQLite).
It groups them into pages, narrows them with category pills and serves the
same views over HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Store directory (default: nearest store above the working directory)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs or sqlite")
	rootCmd.PersistentFlags().StringVar(&user, "user", "", "Act as this user id")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+config.FileName+" in the store)")
}

// loadConfig merges the config file, the environment and the global flags.
func loadConfig() config.Config {
	path := configPath
	if path == "" {
		path = config.FileName
		if root, err := platform.FindRoot("."); err == nil {
			path = filepath.Join(root, config.FileName)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal("Failed to load config", err)
	}

	if storePath != "" {
		cfg.Store = storePath
	} else if cfg.Store == "." {
		if root, err := platform.FindRoot("."); err == nil {
			cfg.Store = root
		}
	}
	if adapter != "" {
		cfg.Adapter = adapter
	}
	if user != "" {
		cfg.User = user
	}
	if err := cfg.Validate(); err != nil {
		fatal("Invalid configuration", err)
	}
	return cfg
}

// openApp wires the store described by cfg.
func openApp(cfg config.Config, mustExist bool) *platform.App {
	app, err := platform.New(cfg.Store,
		platform.WithAdapter(cfg.Adapter),
		platform.WithFilesDir(cfg.FilesDir),
		platform.WithMustExist(mustExist),
		platform.WithLogger(slog.Default()),
		platform.WithIdentity(dataaccess.ContextProvider{
			Fallback: dataaccess.Static{ID: cfg.User},
		}),
	)
	if err != nil {
		fatal("Failed to open store", err)
	}
	return app
}

// loadSchema returns the configured create form, or the built-in one.
func loadSchema(cfg config.Config) schemaform.Schema {
	if cfg.FormSchema == "" {
		return schemaform.DefaultCreateSchema()
	}
	data, err := os.ReadFile(cfg.FormSchema)
	if err != nil {
		fatal("Failed to read form schema", err)
	}
	s, err := schemaform.ParseYAML(data)
	if err != nil {
		fatal("Failed to parse form schema", err)
	}
	return s
}
