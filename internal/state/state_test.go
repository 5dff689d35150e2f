package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/state"
)

func TestApp(t *testing.T) {
	app := state.New(memo.PageDrafts)

	var seen []state.Snapshot
	unsubscribe := app.Subscribe(func(s state.Snapshot) { seen = append(seen, s) })

	app.Select("m1")
	app.Select("m1") // no change, no notification
	app.SetPage(memo.PageInbox)
	app.ClearSelection()

	assert.Equal(t, []state.Snapshot{
		{Page: memo.PageDrafts, SelectedID: "m1"},
		{Page: memo.PageInbox, SelectedID: "m1"},
		{Page: memo.PageInbox},
	}, seen)

	unsubscribe()
	app.Select("m2")
	assert.Len(t, seen, 3)
	assert.Equal(t, "m2", app.SelectedID())
	assert.Equal(t, memo.PageInbox, app.Page())
}
