package paging_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/memodesk/internal/debounce"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/paging"
)

func TestDedupe(t *testing.T) {
	in := []memo.Item{{ID: "a", Subject: "first"}, {ID: "b"}, {ID: "a", Subject: "second"}, {}, {}}
	got := paging.Dedupe(in)

	assert.Equal(t, []memo.Item{{ID: "a", Subject: "first"}, {ID: "b"}, {}, {}}, got)
}

func TestMatches(t *testing.T) {
	it := memo.Item{Title: "Quarterly Report", Tags: memo.Tags{"finance", "q2"}}
	assert.True(t, paging.Matches(it, "report"))
	assert.True(t, paging.Matches(it, "FINANCE"))
	assert.True(t, paging.Matches(it, "finance q2"))
	assert.False(t, paging.Matches(it, "hr"))
	assert.True(t, paging.Matches(it, "  "))

	scalar := memo.Item{Tags: memo.Tags{"urgent"}}
	assert.True(t, paging.Matches(scalar, "urgent"))
}

func items(n int) []memo.Item {
	out := make([]memo.Item, n)
	for i := range out {
		out[i] = memo.Item{ID: string(rune('a' + i)), Title: "memo"}
	}
	return out
}

func TestWindow(t *testing.T) {
	v := paging.Window(items(5), "", 1, 2)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, []string{"c", "d"}, []string{v.Visible[0].ID, v.Visible[1].ID})

	last := paging.Window(items(5), "", 2, 2)
	assert.Len(t, last.Visible, 1)

	empty := paging.Window(nil, "", 0, 2)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Visible)

	searching := paging.Window(items(5), "memo", 2, 2)
	assert.True(t, searching.Searching)
	assert.Len(t, searching.Visible, 5)
	assert.Equal(t, 1, searching.TotalPages)
	assert.Equal(t, 0, searching.CurrentPage)
}

func TestTable_Navigation(t *testing.T) {
	clock := debounce.NewFakeClock(time.Unix(0, 0))
	table := paging.NewTable(clock, paging.DefaultPageSize)
	table.SetItems(items(5))

	assert.False(t, table.GoTo(0), "already on page 0")
	assert.False(t, table.GoTo(3), "out of range")
	assert.False(t, table.GoTo(-1))

	assert.True(t, table.GoTo(2))
	assert.True(t, table.Hiding())
	assert.Equal(t, 2, table.View().CurrentPage)

	clock.Advance(paging.TransitionDelay)
	assert.False(t, table.Hiding())

	assert.True(t, table.Prev())
	assert.Equal(t, 1, table.View().CurrentPage)
	clock.Advance(paging.TransitionDelay)

	table.SetQuery("memo")
	assert.Equal(t, 0, table.View().CurrentPage)
	assert.False(t, table.Next(), "a query collapses paging to one page")

	table.SetQuery("")
	table.GoTo(1)
	table.SetItems(items(3))
	assert.Equal(t, 0, table.View().CurrentPage)
	assert.False(t, table.Hiding())
}
