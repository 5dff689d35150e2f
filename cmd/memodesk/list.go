package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/memodesk/internal/filter"
	"github.com/aretw0/memodesk/internal/format"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/state"
	"github.com/aretw0/memodesk/internal/view"
)

var (
	listPage      string
	listPill      string
	listQuery     string
	listFrom      string
	listTo        string
	listRequester string
	listSort      string
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the memos of a page",
	Long: `List the memos of a page (drafts, inbox, sent, copied, bcc) narrowed by a
pill, a search query, a date range and a requester.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		page, err := memo.ParsePage(listPage)
		if err != nil {
			fatal("Invalid page", err)
		}
		order, err := filter.ParseSort(listSort)
		if err != nil {
			fatal("Invalid sort", err)
		}

		cfg := loadConfig()
		app := openApp(cfg, true)
		defer app.Close()

		ctx := context.Background()
		ctrl := view.NewListController(ctx, state.New(page), app.Data,
			view.WithCatalog(cfg.Catalog()),
			view.WithInitialPill(listPill),
			view.WithSearchDelay(time.Duration(cfg.SearchDelay)),
			view.WithProfiles(view.NewProfileCache(app.Data, slog.Default())),
			view.WithLogger(slog.Default()),
		)
		defer ctrl.Close()

		if err := ctrl.Reload(ctx); err != nil {
			fatal("Failed to load memos", err)
		}
		if err := ctrl.SetStructured(filter.Structured{From: listFrom, To: listTo, RequesterEmail: listRequester}); err != nil {
			fatal("Invalid date filter", err)
		}
		ctrl.SetSort(order)
		ctrl.SetQuery(listQuery)
		ctrl.FlushQuery()

		v := ctrl.View()
		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(v); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		fmt.Printf("%s [%s]\n", v.Title, v.PillID)
		for _, it := range v.Items {
			created := ""
			if it.CreatedAt != nil {
				created = format.DisplayDate(*it.CreatedAt)
			}
			officer := ""
			if p, ok := ctrl.Avatar(ctx, it); ok {
				officer = p.Name
			}
			fmt.Printf("%s  %-12s %-45s %s %s\n", it.ID, it.Status, format.Truncate(it.Subject, format.DefaultTruncate), created, officer)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listPage, "page", string(memo.PageDrafts), "Page to list")
	listCmd.Flags().StringVar(&listPill, "pill", "", "Pill id (default: the page's first pill)")
	listCmd.Flags().StringVar(&listQuery, "q", "", "Search subject, body, owner, assignee and reference")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Created on or after (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Created on or before (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listRequester, "requester", "", "Requester email contains")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by subject: asc or desc")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
