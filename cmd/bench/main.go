package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/filter"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/pill"
	"github.com/aretw0/memodesk/internal/platform"
	"github.com/aretw0/memodesk/internal/view"
)

var statuses = []string{"draft", "final-draft", "inbox", "replied", "dispatched", "read", "unread", "archived"}

func main() {
	count := flag.Int("count", 1000, "Number of memos to generate")
	adapter := flag.String("adapter", "fs", "Storage adapter: fs or sqlite")
	keep := flag.Bool("keep", false, "Keep the benchmark store after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "memodesk_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	open := func() *platform.App {
		app, err := platform.New(benchDir,
			platform.WithAdapter(*adapter),
			platform.WithLogger(logger),
			platform.WithIdentity(dataaccess.Static{ID: "bench"}),
		)
		if err != nil {
			panic(err)
		}
		return app
	}
	ctx := context.Background()

	fmt.Printf("Generating %d memos in %s (%s)...\n", *count, benchDir, *adapter)
	startGen := time.Now()
	app := open()
	for i := 0; i < *count; i++ {
		_, err := app.Data.CreateItem(ctx, memo.Item{
			Subject:     fmt.Sprintf("Memo %d", i),
			Owner:       "bench",
			Status:      statuses[i%len(statuses)],
			Description: "<p>Benchmark body.</p>",
		})
		if err != nil {
			panic(err)
		}
	}
	app.Close()
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// Reopen to measure a fresh CLI run.
	app = open()
	defer app.Close()

	startList := time.Now()
	items, err := app.Data.ListPage(ctx, memo.PageDrafts)
	if err != nil {
		panic(err)
	}
	listed := time.Since(startList)

	startFilter := time.Now()
	catalog := pill.DefaultCatalog()
	pills := catalog.ForPage(memo.PageDrafts)
	visible := filter.Apply(items, filter.Criteria{
		PillID: pill.InitialPillID(memo.PageDrafts, pills, ""),
		Pills:  pills,
		Query:  "memo 1",
		Sort:   filter.Descending,
	})
	filtered := time.Since(startFilter)

	startDash := time.Now()
	dash := view.NewDashboard(app.Data, nil, 0, logger)
	defer dash.Close()
	if err := dash.Load(ctx); err != nil {
		panic(err)
	}
	loaded := time.Since(startDash)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d memos, %s):\n", *count, *adapter)
	fmt.Printf("  List:      %v (Items: %d)\n", listed, len(items))
	fmt.Printf("  Filter:    %v (Visible: %d)\n", filtered, len(visible))
	fmt.Printf("  Dashboard: %v (Rows: %d)\n", loaded, dash.Table().View().Total)
	fmt.Printf("--------------------------------------------------\n")
}
