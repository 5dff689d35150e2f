package view_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/debounce"
	"github.com/aretw0/memodesk/internal/filter"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/state"
	"github.com/aretw0/memodesk/internal/view"
	"github.com/aretw0/memodesk/pkg/adapters/fs"
	"github.com/aretw0/memodesk/pkg/core"
	"github.com/aretw0/memodesk/pkg/filestore"
	"github.com/aretw0/memodesk/pkg/typed"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func at(day, hour int) *time.Time {
	t := time.Date(2024, 5, day, hour, 0, 0, 0, time.Local)
	return &t
}

func sample() []memo.Item {
	return []memo.Item{
		{ID: "a", Subject: "Budget review", Owner: "u1", Status: "draft", CreatedAt: at(1, 9)},
		{ID: "b", Subject: "annual leave", Owner: "u1", Status: "work-in-progress", CreatedAt: at(2, 9)},
		{ID: "c", Subject: "Catering", Owner: "u1", Status: "final-draft", CreatedAt: at(3, 9)},
		{ID: "d", Subject: "budget appendix", Owner: "u1", Status: "draft review", CreatedAt: at(4, 9)},
	}
}

func static(items []memo.Item) view.Fetcher {
	return view.FetcherFunc(func(context.Context, memo.PageID) ([]memo.Item, error) {
		return items, nil
	})
}

func ids(items []memo.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func waitLoaded(t *testing.T, c *view.ListController) {
	t.Helper()
	require.Eventually(t, func() bool { return !c.View().Loading }, time.Second, time.Millisecond)
}

func newController(t *testing.T, app *state.App, f view.Fetcher, opts ...view.ListOption) (*view.ListController, *debounce.FakeClock) {
	t.Helper()
	clock := debounce.NewFakeClock(time.Unix(0, 0))
	opts = append([]view.ListOption{view.WithClock(clock), view.WithLocation(time.Local)}, opts...)
	c := view.NewListController(context.Background(), app, f, opts...)
	t.Cleanup(c.Close)
	waitLoaded(t, c)
	return c, clock
}

func TestListController_InitialPillForPage(t *testing.T) {
	c, _ := newController(t, state.New(memo.PageDrafts), static(sample()))

	v := c.View()
	assert.Equal(t, "draft", v.PillID)
	assert.Equal(t, "Draft & Unassigned Memos", v.Title)
	assert.Equal(t, []string{"a", "b", "d"}, ids(v.Items))
}

func TestListController_DebouncedSearchRecomputesOnce(t *testing.T) {
	c, clock := newController(t, state.New(memo.PageDrafts), static(sample()))
	base := c.Recomputes()

	for _, q := range []string{"b", "bu", "bud", "budg", "budget"} {
		c.SetQuery(q)
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, base, c.Recomputes())
	assert.Equal(t, "budget", c.View().Query)
	assert.Len(t, c.View().Items, 3, "raw input alone does not filter")

	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, base+1, c.Recomputes())
	assert.Equal(t, []string{"a", "d"}, ids(c.View().Items))

	clock.Advance(time.Hour)
	assert.Equal(t, base+1, c.Recomputes())
}

func TestListController_ClearsHiddenSelection(t *testing.T) {
	app := state.New(memo.PageDrafts)
	c, _ := newController(t, app, static(sample()))

	app.Select("b")
	c.SetQuery("budget")
	c.FlushQuery()
	assert.Equal(t, "", app.SelectedID())

	app.Select("a")
	c.SetSort(filter.Ascending)
	assert.Equal(t, "a", app.SelectedID(), "still visible")
	assert.Equal(t, []string{"d", "a"}, ids(c.View().Items))
}

func TestListController_StructuredFilters(t *testing.T) {
	c, _ := newController(t, state.New(memo.PageDrafts), static(sample()))

	require.NoError(t, c.SetStructured(filter.Structured{From: "2024-05-02", To: "2024-05-04"}))
	assert.Equal(t, []string{"b", "d"}, ids(c.View().Items))

	err := c.SetStructured(filter.Structured{To: "05/04/2024"})
	assert.Error(t, err)
	assert.Equal(t, "2024-05-04", c.View().Structured.To, "invalid input keeps previous filters")
}

func TestListController_PageChangeResetsFilters(t *testing.T) {
	app := state.New(memo.PageDrafts)
	c, _ := newController(t, app, static(sample()))

	c.SetQuery("budget")
	c.FlushQuery()
	c.SetSort(filter.Ascending)
	c.SetPill("my-drafts")

	app.SetPage(memo.PageSent)
	waitLoaded(t, c)

	v := c.View()
	assert.Equal(t, memo.PageSent, v.Page)
	assert.Equal(t, "sent", v.PillID)
	assert.Empty(t, v.Query)
	assert.Equal(t, filter.Unsorted.String(), v.Sort)
}

func TestListController_DiscardsStaleFetch(t *testing.T) {
	gates := map[memo.PageID]chan struct{}{
		memo.PageInbox: make(chan struct{}),
		memo.PageSent:  make(chan struct{}),
	}
	f := view.FetcherFunc(func(ctx context.Context, page memo.PageID) ([]memo.Item, error) {
		<-gates[page]
		return []memo.Item{{ID: string(page), Subject: string(page), Status: "sent inbox"}}, nil
	})

	app := state.New(memo.PageInbox)
	c := view.NewListController(context.Background(), app, f, view.WithClock(debounce.NewFakeClock(time.Unix(0, 0))))

	app.SetPage(memo.PageSent)
	close(gates[memo.PageSent])
	waitLoaded(t, c)
	assert.Equal(t, []string{"sent"}, ids(c.View().Items))

	close(gates[memo.PageInbox])
	c.Close()
	assert.Equal(t, memo.PageSent, c.View().Page)
	assert.Equal(t, []string{"sent"}, ids(c.View().Items))
}

func TestListController_FetchError(t *testing.T) {
	boom := fmt.Errorf("%w: backend down", core.ErrFetchFailed)
	f := view.FetcherFunc(func(context.Context, memo.PageID) ([]memo.Item, error) { return nil, boom })
	app := state.New(memo.PageDrafts)
	app.Select("a")
	c, _ := newController(t, app, f)

	assert.ErrorIs(t, c.Err(), core.ErrFetchFailed)
	assert.Empty(t, c.View().Items)
	assert.Equal(t, "", app.SelectedID())

	assert.ErrorIs(t, c.Reload(context.Background()), core.ErrFetchFailed)
}

func TestListController_RefreshSpinner(t *testing.T) {
	c, clock := newController(t, state.New(memo.PageDrafts), static(sample()))

	require.NoError(t, c.Refresh(context.Background()))
	assert.True(t, c.View().Refreshing)
	clock.Advance(499 * time.Millisecond)
	assert.True(t, c.View().Refreshing)
	clock.Advance(time.Millisecond)
	assert.False(t, c.View().Refreshing)
}

func TestListController_Subscribe(t *testing.T) {
	c, _ := newController(t, state.New(memo.PageDrafts), static(sample()))

	var mu sync.Mutex
	var seen []int
	stop := c.Subscribe(func(v view.ListView) {
		mu.Lock()
		seen = append(seen, len(v.Items))
		mu.Unlock()
	})
	c.SetPill("my-drafts")
	stop()
	c.SetPill("draft")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3}, seen)
}

type fakeResolver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *fakeResolver) ResolveProfile(_ context.Context, id string) (dataaccess.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[id]++
	if id == "ghost" {
		return dataaccess.Profile{}, core.ErrProfileResolutionFailed
	}
	return dataaccess.Profile{ID: id, Name: "Officer " + id, AvatarURL: "/v1/files/" + id}, nil
}

func (r *fakeResolver) PlaceholderProfile(id string) dataaccess.Profile {
	return dataaccess.Profile{ID: id, Name: dataaccess.UnknownOfficer, AvatarURL: filestore.PlaceholderURL}
}

func TestProfileCache(t *testing.T) {
	r := &fakeResolver{calls: map[string]int{}}
	cache := view.NewProfileCache(r, nil)
	ctx := context.Background()

	assert.Equal(t, "Officer o1", cache.Get(ctx, "o1").Name)
	assert.Equal(t, "Officer o1", cache.Get(ctx, "o1").Name)
	assert.Equal(t, 1, r.calls["o1"])

	assert.Equal(t, dataaccess.UnknownOfficer, cache.Get(ctx, "ghost").Name)
	assert.Equal(t, dataaccess.UnknownOfficer, cache.Get(ctx, "ghost").Name)
	assert.Equal(t, 2, r.calls["ghost"])
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 3, cache.Lookups())
}

func TestListController_Avatar(t *testing.T) {
	r := &fakeResolver{calls: map[string]int{}}
	profiles := view.WithProfiles(view.NewProfileCache(r, nil))
	c, _ := newController(t, state.New(memo.PageInbox), static(sample()), profiles)
	ctx := context.Background()

	it := memo.Item{Reviews: []memo.Review{{Reviewer: "r"}, {Reviewer: "r", ActionOfficer: "o7"}}}
	p, ok := c.Avatar(ctx, it)
	require.True(t, ok)
	assert.Equal(t, "Officer o7", p.Name)

	_, ok = c.Avatar(ctx, memo.Item{})
	assert.False(t, ok)

	drafts, _ := newController(t, state.New(memo.PageDrafts), static(sample()), profiles)
	_, ok = drafts.Avatar(ctx, it)
	assert.False(t, ok, "draft pills hide avatars")
	drafts.SetPill("my-drafts")
	_, ok = drafts.Avatar(ctx, it)
	assert.False(t, ok)
}

func TestDashboard_DedupesAcrossPages(t *testing.T) {
	items := []memo.Item{
		{ID: "a", Title: "Alpha", Tags: memo.Tags{"ops"}},
		{ID: "b", Title: "Beta"},
		{Title: "Untracked"},
	}
	clock := debounce.NewFakeClock(time.Unix(0, 0))
	d := view.NewDashboard(static(items), clock, 0, nil)
	defer d.Close()

	require.NoError(t, d.Load(context.Background()))
	v := d.Table().View()
	assert.Equal(t, 7, v.Total, "a and b once, one untracked row per page")
	assert.Equal(t, 4, v.TotalPages)
	assert.Equal(t, []string{"a", "b"}, ids(v.Visible))

	d.Table().SetQuery("OPS")
	assert.Equal(t, []string{"a"}, ids(d.Table().View().Visible))
}

func TestDashboard_LoadError(t *testing.T) {
	f := view.FetcherFunc(func(_ context.Context, page memo.PageID) ([]memo.Item, error) {
		if page == memo.PageSent {
			return nil, errors.New("boom")
		}
		return []memo.Item{{ID: string(page)}}, nil
	})
	d := view.NewDashboard(f, debounce.NewFakeClock(time.Unix(0, 0)), 2, nil)
	defer d.Close()

	err := d.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, err, d.Err())
	assert.Zero(t, d.Table().View().Total)
}

// Three memos for u1 on the drafts page under the "draft" pill: only the
// plain draft survives.
func TestEndToEnd_DraftsPage(t *testing.T) {
	ctx := context.Background()
	repo := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "memos")})
	require.NoError(t, repo.Initialize(ctx))
	memos := typed.NewService[memo.Item](core.NewService(repo))
	files := filestore.New(afero.NewMemMapFs(), "/files", "/v1/files", nil)
	a := dataaccess.New(memos, nil, files, dataaccess.Static{ID: "u1"})

	for _, s := range []string{"draft", "final-draft", "sent"} {
		_, err := a.CreateItem(ctx, memo.Item{Subject: "memo " + s, Owner: "u1", Status: s})
		require.NoError(t, err)
	}
	_, err := a.CreateItem(ctx, memo.Item{Subject: "foreign", Owner: "u2", Status: "draft"})
	require.NoError(t, err)

	c, _ := newController(t, state.New(memo.PageDrafts), a)
	v := c.View()
	require.NoError(t, c.Err())
	assert.Equal(t, "draft", v.PillID)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "memo draft", v.Items[0].Subject)
}
