package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk/internal/view"
)

var (
	dashboardQuery string
	dashboardPage  int
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the reporting table across every page",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		app := openApp(cfg, true)
		defer app.Close()

		d := view.NewDashboard(app.Data, nil, cfg.PageSize, slog.Default())
		defer d.Close()
		if err := d.Load(context.Background()); err != nil {
			fatal("Failed to load dashboard", err)
		}

		table := d.Table()
		table.SetQuery(dashboardQuery)
		if dashboardPage > 1 && !table.GoTo(dashboardPage-1) {
			fatal("Invalid --page", fmt.Errorf("page %d out of range", dashboardPage))
		}

		v := table.View()
		for _, it := range v.Visible {
			title := it.Title
			if title == "" {
				title = it.Subject
			}
			fmt.Printf("%s  %-40s %s\n", it.ID, title, it.Tags)
		}
		if v.Searching {
			fmt.Printf("%d matches\n", v.Total)
			return
		}
		fmt.Printf("page %d of %d (%d memos)\n", v.CurrentPage+1, v.TotalPages, v.Total)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().StringVar(&dashboardQuery, "q", "", "Filter by title or tag")
	dashboardCmd.Flags().IntVar(&dashboardPage, "page", 1, "Page number, starting at 1")
}
