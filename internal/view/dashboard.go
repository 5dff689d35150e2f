package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/memodesk/internal/debounce"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/paging"
)

// Dashboard is the reporting table fed by every list page.
type Dashboard struct {
	fetcher Fetcher
	pages   []memo.PageID
	table   *paging.Table
	refresh *Refresher
	logger  *slog.Logger

	mu  sync.Mutex
	err error
}

// NewDashboard creates a dashboard over memo.ListPages. A nil clock means the
// wall clock; size <= 0 means paging.DefaultPageSize.
func NewDashboard(fetcher Fetcher, clock debounce.Clock, size int, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		fetcher: fetcher,
		pages:   memo.ListPages(),
		table:   paging.NewTable(clock, size),
		refresh: NewRefresher(clock),
		logger:  logger,
	}
}

// Load fetches every page concurrently and replaces the table contents with
// the results concatenated in page order. On failure the table is emptied.
func (d *Dashboard) Load(ctx context.Context) error {
	results := make([][]memo.Item, len(d.pages))
	g, gctx := errgroup.WithContext(ctx)
	for i, page := range d.pages {
		g.Go(func() error {
			items, err := d.fetcher.ListPage(gctx, page)
			if err != nil {
				return fmt.Errorf("page %s: %w", page, err)
			}
			results[i] = items
			return nil
		})
	}
	err := g.Wait()

	var all []memo.Item
	if err == nil {
		for _, items := range results {
			all = append(all, items...)
		}
	} else {
		d.logger.Warn("dashboard fetch failed", "error", err)
	}
	d.table.SetItems(all)

	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
	return err
}

// Refresh is Load behind the refresh indicator.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.refresh.Run(ctx, d.Load)
}

// Refreshing reports whether the refresh indicator is up.
func (d *Dashboard) Refreshing() bool {
	return d.refresh.Busy()
}

// Table exposes the paged view.
func (d *Dashboard) Table() *paging.Table {
	return d.table
}

// Err returns the error of the last Load.
func (d *Dashboard) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Close cancels pending timers.
func (d *Dashboard) Close() {
	d.refresh.Stop()
}
