package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk/internal/badge"
	"github.com/aretw0/memodesk/internal/memo"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Print the sidebar badge counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		app := openApp(cfg, true)
		defer app.Close()

		ctx := context.Background()
		who, err := app.Data.CurrentIdentity(ctx)
		if err != nil {
			fatal("Cannot count memos", err)
		}
		items, err := app.Data.ListItemsForOwner(ctx, who.ID)
		if err != nil {
			fatal("Failed to load memos", err)
		}

		counts := badge.Count(items, badge.DefaultTable(), badge.DefaultOptions())
		for _, page := range memo.ListPages() {
			fmt.Printf("%-8s %3d  %s\n", page, counts[page], page.Title())
		}
	},
}

func init() {
	rootCmd.AddCommand(countsCmd)
}
