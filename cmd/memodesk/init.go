package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/memodesk/internal/config"
	"github.com/aretw0/memodesk/internal/platform"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a memo store",
	Long: `Initialize a memo store in the --store directory (default: the working
directory). Creates the collections and a default ` + config.FileName + `.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Default()
		cfg.ApplyEnv(os.LookupEnv)
		if storePath != "" {
			cfg.Store = storePath
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

		stores, err := platform.Init(cfg.Store,
			platform.WithAdapter(cfg.Adapter),
			platform.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize store", err)
		}
		defer stores.Close()

		path := filepath.Join(stores.Root, config.FileName)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			cfg.Store = "."
			data, err := yaml.Marshal(cfg)
			if err != nil {
				fatal("Failed to encode config", err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				fatal("Failed to write config", err)
			}
		}

		fmt.Println("Initialized empty memo store in", stores.Root)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
