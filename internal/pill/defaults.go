package pill

import "github.com/aretw0/memodesk/internal/memo"

func pages(ids ...memo.PageID) []memo.PageID { return ids }

// DefaultPills is the built-in catalog.
func DefaultPills() []Pill {
	return []Pill{
		{
			ID:         "unassigned",
			Label:      "New",
			Icon:       "inbox",
			AppliesTo:  pages(memo.PageInbox),
			Match:      Custom(StatusRule(nil, "progress", "inbox")),
			ShowAvatar: true,
		},
		{
			ID:         "replied",
			Label:      "Replied To",
			Icon:       "reply",
			AppliesTo:  pages(memo.PageInbox),
			Match:      Custom(StatusRule(nil, "replied", "reply", "responded")),
			ShowAvatar: true,
		},
		{
			ID:         "draft",
			Label:      "Unassigned",
			Icon:       "file-pen",
			AppliesTo:  pages(memo.PageDrafts),
			Match:      Custom(StatusRule([]string{"final"}, "review", "draft", "work-in-progress")),
			ShowAvatar: false,
		},
		{
			ID:         "my-drafts",
			Label:      "Drafts",
			Icon:       "file",
			AppliesTo:  pages(memo.PageDrafts),
			Match:      Custom(StatusRule([]string{"review"}, "draft", "work-in-progress")),
			ShowAvatar: false,
		},
		{
			ID:         "sent",
			Label:      "Sent Memos",
			Icon:       "send",
			AppliesTo:  pages(memo.PageSent),
			Match:      Custom(StatusRule(nil, "sent", "dispatched")),
			ShowAvatar: false,
		},
		{
			ID:         "archived",
			Label:      "Archived",
			Icon:       "archive",
			AppliesTo:  pages(memo.PageSent),
			Match:      Custom(StatusRule(nil, "archiv")),
			ShowAvatar: false,
		},
		{
			ID:         "unread",
			Label:      "Unread",
			Icon:       "mail",
			AppliesTo:  pages(memo.PageCopied),
			Match:      Custom(StatusRule([]string{"review"}, "unread")),
			ShowAvatar: true,
		},
		{
			ID:         "read",
			Label:      "Read",
			Icon:       "mail-open",
			AppliesTo:  pages(memo.PageCopied),
			Match:      Custom(StatusRule([]string{"unread"}, "read")),
			ShowAvatar: true,
		},
		{
			ID:         "bcc-unread",
			Label:      "Unread",
			Icon:       "mail",
			AppliesTo:  pages(memo.PageBcc),
			Match:      Custom(StatusRule(nil, "unread")),
			ShowAvatar: true,
		},
		{
			ID:         "bcc-read",
			Label:      "Read",
			Icon:       "mail-open",
			AppliesTo:  pages(memo.PageBcc),
			Match:      Custom(StatusRule([]string{"unread"}, "read")),
			ShowAvatar: true,
		},
		{
			ID:         "all",
			Label:      "All",
			Icon:       "layers",
			Match:      Custom(func(memo.Item) bool { return true }),
			ShowAvatar: false,
		},
	}
}

// DefaultCatalog wraps DefaultPills.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultPills()...)
}
