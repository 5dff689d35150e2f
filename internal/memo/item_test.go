package memo_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/pkg/core"
)

func TestItemValidate(t *testing.T) {
	valid := memo.Item{Subject: "Budget", Owner: "u1"}
	require.NoError(t, valid.Validate())

	cases := map[string]memo.Item{
		"missing subject":   {Owner: "u1"},
		"missing owner":     {Subject: "x"},
		"long subject":      {Subject: strings.Repeat("s", memo.MaxSubject+1), Owner: "u1"},
		"long description":  {Subject: "x", Owner: "u1", Description: strings.Repeat("d", memo.MaxDescription+1)},
		"long reference":    {Subject: "x", Owner: "u1", ReferenceNumber: strings.Repeat("r", memo.MaxReference+1)},
		"undated review":    {Subject: "x", Owner: "u1", Reviews: []memo.Review{{Reviewer: "u2"}}},
		"long review notes": {Subject: "x", Owner: "u1", Reviews: []memo.Review{{Date: time.Now(), Comments: strings.Repeat("c", memo.MaxComments+1)}}},
	}
	for name, it := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, it.Validate(), core.ErrInvalidItem)
		})
	}
}

func TestItemBody(t *testing.T) {
	assert.Equal(t, "desc", memo.Item{Description: "desc", StylusComments: "ink"}.Body())
	assert.Equal(t, "ink", memo.Item{StylusComments: "ink"}.Body())
}

func TestAttachmentJSON(t *testing.T) {
	_, err := json.Marshal(memo.PendingAttachment(memo.PendingFile{Name: "scan.pdf"}))
	assert.Error(t, err, "pending files must never be serialized")

	raw, err := json.Marshal([]memo.Attachment{memo.RefAttachment("f1")})
	require.NoError(t, err)
	assert.JSONEq(t, `["f1"]`, string(raw))

	var back []memo.Attachment
	require.NoError(t, json.Unmarshal([]byte(`["f1", {"ref": "f2"}]`), &back))
	assert.Equal(t, []memo.Attachment{{Ref: "f1"}, {Ref: "f2"}}, back)
}

func TestTagsUnmarshal(t *testing.T) {
	var it memo.Item
	require.NoError(t, json.Unmarshal([]byte(`{"tags": ["finance", "q2"]}`), &it))
	assert.Equal(t, memo.Tags{"finance", "q2"}, it.Tags)
	assert.Equal(t, "finance q2", it.Tags.String())

	require.NoError(t, json.Unmarshal([]byte(`{"tags": "urgent"}`), &it))
	assert.Equal(t, memo.Tags{"urgent"}, it.Tags)
}

func TestParsePage(t *testing.T) {
	p, err := memo.ParsePage("inbox")
	require.NoError(t, err)
	assert.Equal(t, "Inbox | Memos Assigned to Me", p.Title())

	_, err = memo.ParsePage("trash")
	assert.Error(t, err)
	assert.Len(t, memo.Pages(), 8)
	assert.NotContains(t, memo.ListPages(), memo.PageDashboard)
}
