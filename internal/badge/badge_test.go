package badge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/memodesk/internal/badge"
	"github.com/aretw0/memodesk/internal/memo"
)

func TestCount(t *testing.T) {
	items := []memo.Item{
		{Status: "draft"},
		{Status: "  Final-Draft "},
		{Status: "inbox"},
		{Status: "unread"},
		{Status: "dispatched"},
		{Status: "sent"}, // not in the table
		{},
	}

	got := badge.Count(items, badge.DefaultTable(), badge.DefaultOptions())
	assert.Equal(t, 3, got[memo.PageDrafts])
	assert.Equal(t, 1, got[memo.PageInbox])
	assert.Equal(t, 1, got[memo.PageSent])
	assert.Equal(t, 1, got[memo.PageCopied])
	assert.Equal(t, 1, got[memo.PageBcc])

	noUndefined := badge.Count(items, badge.DefaultTable(), badge.Options{})
	assert.Equal(t, 2, noUndefined[memo.PageDrafts])
}

func TestCountStartsAtZero(t *testing.T) {
	got := badge.Count(nil, badge.DefaultTable(), badge.DefaultOptions())
	assert.Len(t, got, len(memo.ListPages()))
	for _, n := range got {
		assert.Zero(t, n)
	}
}

func TestCountIsSubstringFree(t *testing.T) {
	// "draft review" is listed, "draft reviewed" is not.
	got := badge.Count([]memo.Item{{Status: "draft reviewed"}}, badge.DefaultTable(), badge.DefaultOptions())
	assert.Zero(t, got[memo.PageDrafts])
}
