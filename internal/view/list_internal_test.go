package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memodesk/internal/debounce"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/state"
)

func TestApplyQueryIgnoresInputFromPreviousPage(t *testing.T) {
	ctx := context.Background()
	items := []memo.Item{
		{ID: "a", Subject: "Budget", Owner: "u1", Status: "draft"},
		{ID: "b", Subject: "Leave", Owner: "u1", Status: "work-in-progress"},
	}
	app := state.New(memo.PageDrafts)
	c := NewListController(ctx, app, FetcherFunc(func(context.Context, memo.PageID) ([]memo.Item, error) {
		return items, nil
	}), WithClock(debounce.NewFakeClock(time.Unix(0, 0))))
	defer c.Close()
	require.NoError(t, c.Reload(ctx))

	c.mu.Lock()
	typed := searchInput{text: "budget", entered: c.entered}
	c.mu.Unlock()

	// The timer fires after the user has already moved on.
	app.SetPage(memo.PageInbox)
	require.NoError(t, c.Reload(ctx))
	c.applyQuery(typed)

	v := c.View()
	assert.Equal(t, memo.PageInbox, v.Page)
	assert.Empty(t, c.State().(ListState).Query)
	assert.Equal(t, []string{"b"}, itemIDs(v.Items))

	c.mu.Lock()
	current := c.entered
	c.mu.Unlock()
	c.applyQuery(searchInput{text: "budget", entered: current})
	assert.Empty(t, c.View().Items)
}

func itemIDs(items []memo.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
