// Package view drives the memo list and dashboard screens: it fetches items
// for the active page, runs the filter pipeline whenever an input changes
// and keeps the shared selection consistent with what is shown.
package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/debounce"
	"github.com/aretw0/memodesk/internal/filter"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/pill"
	"github.com/aretw0/memodesk/internal/state"
)

// Fetcher loads the raw items of a page.
type Fetcher interface {
	ListPage(ctx context.Context, page memo.PageID) ([]memo.Item, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, page memo.PageID) ([]memo.Item, error)

func (f FetcherFunc) ListPage(ctx context.Context, page memo.PageID) ([]memo.Item, error) {
	return f(ctx, page)
}

// ListView is a snapshot of the list screen.
type ListView struct {
	Page       memo.PageID       `json:"page"`
	Title      string            `json:"title"`
	Pills      []pill.Pill       `json:"-"`
	PillID     string            `json:"pill"`
	Query      string            `json:"query,omitempty"`
	Structured filter.Structured `json:"filters"`
	Sort       string            `json:"sort"`
	Items      []memo.Item       `json:"items"`
	Loading    bool              `json:"loading"`
	Refreshing bool              `json:"refreshing"`
	Err        error             `json:"-"`
}

type listOptions struct {
	catalog     *pill.Catalog
	override    []pill.Pill
	initialPill string
	clock       debounce.Clock
	delay       time.Duration
	location    *time.Location
	logger      *slog.Logger
	profiles    *ProfileCache
}

// ListOption configures a ListController.
type ListOption func(*listOptions)

// WithCatalog sets the pill catalog. Defaults to pill.DefaultCatalog.
func WithCatalog(c *pill.Catalog) ListOption {
	return func(o *listOptions) { o.catalog = c }
}

// WithPillOverride supplies page pills that take precedence over the catalog.
func WithPillOverride(pills []pill.Pill) ListOption {
	return func(o *listOptions) { o.override = pills }
}

// WithInitialPill selects id whenever a page is entered.
func WithInitialPill(id string) ListOption {
	return func(o *listOptions) { o.initialPill = id }
}

// WithClock drives debouncing and spinners from clock.
func WithClock(c debounce.Clock) ListOption {
	return func(o *listOptions) { o.clock = c }
}

// WithSearchDelay overrides the search quiet period.
func WithSearchDelay(d time.Duration) ListOption {
	return func(o *listOptions) { o.delay = d }
}

// WithLocation anchors date filters to loc.
func WithLocation(loc *time.Location) ListOption {
	return func(o *listOptions) { o.location = loc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ListOption {
	return func(o *listOptions) { o.logger = l }
}

// WithProfiles enables reviewer avatars.
func WithProfiles(c *ProfileCache) ListOption {
	return func(o *listOptions) { o.profiles = c }
}

// ListController owns the filter state of the list screen.
type ListController struct {
	app     *state.App
	fetcher Fetcher
	opts    listOptions
	search  *debounce.Debouncer[searchInput]
	refresh *Refresher

	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	unsubscribe func()

	mu         sync.Mutex
	page       memo.PageID
	pills      []pill.Pill
	pillID     string
	rawQuery   string
	query      string
	structured filter.Structured
	sort       filter.SortOrder
	items      []memo.Item
	visible    []memo.Item
	err        error
	loading    bool
	gen        uint64
	entered    uint64
	recomputes int
	listeners  map[int]func(ListView)
	nextID     int
}

// NewListController binds to app and starts loading its current page.
// Close releases the controller.
func NewListController(ctx context.Context, app *state.App, fetcher Fetcher, opts ...ListOption) *ListController {
	o := listOptions{delay: debounce.DefaultDelay}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = pill.DefaultCatalog()
	}
	if o.clock == nil {
		o.clock = debounce.Real()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	c := &ListController{
		app:       app,
		fetcher:   fetcher,
		opts:      o,
		refresh:   NewRefresher(o.clock),
		listeners: map[int]func(ListView){},
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.search = debounce.New(o.clock, o.delay, c.applyQuery)

	c.enterPage(app.Page())
	c.unsubscribe = app.Subscribe(func(s state.Snapshot) {
		c.mu.Lock()
		changed := s.Page != c.page
		c.mu.Unlock()
		if changed {
			c.enterPage(s.Page)
		}
	})
	return c
}

// Close stops background work and waits for in-flight fetches.
func (c *ListController) Close() {
	c.unsubscribe()
	c.search.Stop()
	c.refresh.Stop()
	c.cancel()
	c.wg.Wait()
}

// enterPage resets the filter state for page and fetches its items.
func (c *ListController) enterPage(page memo.PageID) {
	c.search.Cancel()
	c.mu.Lock()
	c.page = page
	c.pills = c.opts.catalog.ForPageWithOverride(page, c.opts.override)
	c.pillID = pill.InitialPillID(page, c.pills, c.opts.initialPill)
	c.rawQuery, c.query = "", ""
	c.structured = filter.Structured{}
	c.sort = filter.Unsorted
	c.items, c.visible, c.err = nil, nil, nil
	c.loading = true
	c.gen++
	c.entered++
	gen := c.gen
	c.mu.Unlock()

	c.opts.logger.Debug("entering page", "page", page, "pill", c.PillID())
	c.notify()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.load(c.ctx, page, gen)
	}()
}

// Reload fetches the active page again and waits for the result.
func (c *ListController) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen, page := c.gen, c.page
	c.loading = true
	c.mu.Unlock()
	return c.load(ctx, page, gen)
}

// Refresh is Reload behind the refresh indicator.
func (c *ListController) Refresh(ctx context.Context) error {
	return c.refresh.Run(ctx, c.Reload)
}

// load fetches page and applies the result only if gen is still current.
func (c *ListController) load(ctx context.Context, page memo.PageID, gen uint64) error {
	items, err := c.fetcher.ListPage(ctx, page)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.opts.logger.Debug("discarding stale fetch", "page", page)
		return err
	}
	c.loading = false
	if err != nil {
		c.items, c.err = nil, err
		c.opts.logger.Warn("fetch failed", "page", page, "error", err)
	} else {
		c.items, c.err = items, nil
	}
	drop := c.recomputeLocked()
	c.mu.Unlock()

	c.finish(drop)
	return err
}

// SetQuery records raw search input. The pipeline runs once the input has
// been quiet for the search delay.
func (c *ListController) SetQuery(q string) {
	c.mu.Lock()
	c.rawQuery = q
	in := searchInput{text: q, entered: c.entered}
	c.mu.Unlock()
	c.search.Set(in)
}

// FlushQuery applies pending search input immediately.
func (c *ListController) FlushQuery() {
	c.search.Flush()
}

// searchInput is search text tagged with the page entry it was typed on.
type searchInput struct {
	text    string
	entered uint64
}

func (c *ListController) applyQuery(in searchInput) {
	c.mu.Lock()
	if in.entered != c.entered {
		c.mu.Unlock()
		c.opts.logger.Debug("discarding search from previous page", "query", in.text)
		return
	}
	if in.text == c.query {
		c.mu.Unlock()
		return
	}
	c.query = in.text
	drop := c.recomputeLocked()
	c.mu.Unlock()
	c.finish(drop)
}

// SetPill activates the pill with id.
func (c *ListController) SetPill(id string) {
	c.mutate(func() bool {
		if c.pillID == id {
			return false
		}
		c.pillID = id
		return true
	})
}

// SetStructured applies date and requester filters. Malformed dates are
// rejected and leave the state unchanged.
func (c *ListController) SetStructured(s filter.Structured) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.mutate(func() bool {
		if c.structured == s {
			return false
		}
		c.structured = s
		return true
	})
	return nil
}

// SetSort changes the subject ordering.
func (c *ListController) SetSort(o filter.SortOrder) {
	c.mutate(func() bool {
		if c.sort == o {
			return false
		}
		c.sort = o
		return true
	})
}

func (c *ListController) mutate(fn func() bool) {
	c.mu.Lock()
	if !fn() {
		c.mu.Unlock()
		return
	}
	drop := c.recomputeLocked()
	c.mu.Unlock()
	c.finish(drop)
}

// recomputeLocked runs the pipeline and reports whether the selection must
// be cleared.
func (c *ListController) recomputeLocked() bool {
	c.recomputes++
	c.visible = filter.Apply(c.items, filter.Criteria{
		PillID:     c.pillID,
		Pills:      c.pills,
		Query:      c.query,
		Structured: c.structured,
		Sort:       c.sort,
		Location:   c.opts.location,
	})
	sel := c.app.SelectedID()
	return sel != "" && !filter.Contains(c.visible, sel)
}

// finish runs outside the lock since clearing the selection notifies the
// app listeners.
func (c *ListController) finish(clearSelection bool) {
	if clearSelection {
		c.opts.logger.Debug("selection no longer visible", "id", c.app.SelectedID())
		c.app.ClearSelection()
	}
	c.notify()
}

// View returns the current snapshot.
func (c *ListController) View() ListView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *ListController) viewLocked() ListView {
	return ListView{
		Page:       c.page,
		Title:      c.page.Title(),
		Pills:      append([]pill.Pill(nil), c.pills...),
		PillID:     c.pillID,
		Query:      c.rawQuery,
		Structured: c.structured,
		Sort:       c.sort.String(),
		Items:      append([]memo.Item(nil), c.visible...),
		Loading:    c.loading,
		Refreshing: c.refresh.Busy(),
		Err:        c.err,
	}
}

// PillID returns the active pill.
func (c *ListController) PillID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pillID
}

// Err returns the last fetch error, nil after a successful fetch.
func (c *ListController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Recomputes counts pipeline runs.
func (c *ListController) Recomputes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recomputes
}

// Subscribe registers fn for view changes and returns its removal.
func (c *ListController) Subscribe(fn func(ListView)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *ListController) notify() {
	c.mu.Lock()
	v := c.viewLocked()
	ls := make([]func(ListView), 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()
	for _, l := range ls {
		l(v)
	}
}

// Avatar returns the profile of the first action officer on it. It reports
// false when the active pill hides avatars or there is no action officer.
func (c *ListController) Avatar(ctx context.Context, it memo.Item) (dataaccess.Profile, bool) {
	if c.opts.profiles == nil {
		return dataaccess.Profile{}, false
	}
	c.mu.Lock()
	p, ok := pill.Find(c.pills, c.pillID)
	c.mu.Unlock()
	if ok && !p.ShowAvatar {
		return dataaccess.Profile{}, false
	}
	for _, r := range it.Reviews {
		if r.ActionOfficer != "" {
			return c.opts.profiles.Get(ctx, r.ActionOfficer), true
		}
	}
	return dataaccess.Profile{}, false
}

// ListState is the introspection snapshot.
type ListState struct {
	Page       memo.PageID `json:"page"`
	PillID     string      `json:"pill"`
	Query      string      `json:"query"`
	Items      int         `json:"items"`
	Visible    int         `json:"visible"`
	Recomputes int         `json:"recomputes"`
	Loading    bool        `json:"loading"`
	Error      string      `json:"error,omitempty"`
}

// State implements introspection.Introspectable.
func (c *ListController) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := ListState{
		Page:       c.page,
		PillID:     c.pillID,
		Query:      c.query,
		Items:      len(c.items),
		Visible:    len(c.visible),
		Recomputes: c.recomputes,
		Loading:    c.loading,
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}

// ComponentType implements introspection.Component.
func (c *ListController) ComponentType() string {
	return "list-controller"
}

var _ introspection.Introspectable = (*ListController)(nil)
var _ introspection.Component = (*ListController)(nil)
