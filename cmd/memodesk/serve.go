package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk/internal/server"
)

var (
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the memo API over HTTP",
	Long: `Serve the memo API over HTTP until interrupted. Requests identify the
caller with the X-User-ID header; --user sets the fallback identity.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		app := openApp(cfg, true)
		defer app.Close()

		srv := server.New(app,
			server.WithCatalog(cfg.Catalog()),
			server.WithSchema(loadSchema(cfg)),
			server.WithPageSize(cfg.PageSize),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := srv.Run(ctx, cfg.Addr); err != nil {
			fatal("Server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}
