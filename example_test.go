package memodesk_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/memodesk"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/schemaform"
)

// Example_basic submits a memo through the create form payload and lists the
// drafts page.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "memodesk-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	app, err := memodesk.Open(tmpDir,
		memodesk.WithAdapter("sqlite"),
		memodesk.WithIdentity(memodesk.StaticIdentity{ID: "alice"}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	ctx := context.Background()
	created, err := app.Data.Submit(ctx, schemaform.Payload{"subject": "Quarterly budget"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s by %s (%s)\n", created.Subject, created.Owner, created.Status)

	drafts, err := app.Data.ListPage(ctx, memo.PageDrafts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(drafts), "memo on", memo.PageDrafts.Title())
	// Output:
	// Quarterly budget by alice (draft)
	// 1 memo on Draft & Unassigned Memos
}

// ExampleOpen shows review history being appended to a stored memo.
func ExampleOpen() {
	tmpDir, err := os.MkdirTemp("", "memodesk-review-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	app, err := memodesk.Open(tmpDir, memodesk.WithIdentity(memodesk.StaticIdentity{ID: "bob"}))
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	ctx := context.Background()
	it, err := app.Data.CreateItem(ctx, memodesk.Item{Subject: "Leave request", Owner: "alice"})
	if err != nil {
		log.Fatal(err)
	}
	it, err = app.Data.AppendReview(ctx, it.ID, memodesk.Review{
		Comments: "Approved",
		Date:     *it.CreatedAt,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(it.Reviews[0].Reviewer, it.Reviews[0].Comments)
	// Output:
	// bob Approved
}
