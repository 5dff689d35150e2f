// Package memodesk is the Composition Root of the memo desk.
//
// It connects the memo domain (pages, pills, filters, forms) with the storage
// adapters using the same hexagonal layout as pkg/core: every memo is a
// core.Document whose metadata holds the memo fields and whose content holds
// the rich-text body.
//
// Features:
//
//   - **Pages and pills**: memos are grouped into logical pages and narrowed by
//     configurable category pills.
//   - **Filter engine**: pill, free-text search, date range and requester
//     filters with subject sorting.
//   - **Schema forms**: widget inference from a sample record.
//   - **Adapters**: plain files (Markdown, JSON, YAML, CSV) or a single SQLite
//     database.
//   - **Outer surfaces**: an HTTP API with change events and the memodesk CLI.
//
// Usage:
//
//	app, err := memodesk.Open("./desk",
//		memodesk.WithAdapter("sqlite"),
//		memodesk.WithIdentity(memodesk.StaticIdentity{ID: "alice"}),
//	)
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	item, err := app.Data.CreateItem(ctx, memodesk.Item{Subject: "Budget", Owner: "alice"})
package memodesk
