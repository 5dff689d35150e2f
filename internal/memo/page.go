package memo

import "fmt"

// PageID names a logical page of the application shell.
type PageID string

const (
	PageNew       PageID = "new"
	PageDrafts    PageID = "drafts"
	PageInbox     PageID = "inbox"
	PageSent      PageID = "sent"
	PageCopied    PageID = "copied"
	PageBcc       PageID = "bcc"
	PageDashboard PageID = "dashboard"
	PageSettings  PageID = "settings"
)

var pageTitles = map[PageID]string{
	PageNew:       "Create New Memo",
	PageDrafts:    "Draft & Unassigned Memos",
	PageInbox:     "Inbox | Memos Assigned to Me",
	PageSent:      "Sent Memos",
	PageCopied:    "Memos CC To Me",
	PageBcc:       "Memos BCC To Me",
	PageDashboard: "Memo Reporting Dashboard",
	PageSettings:  "Settings",
}

// Pages returns every logical page in sidebar order.
func Pages() []PageID {
	return []PageID{PageNew, PageDrafts, PageInbox, PageSent, PageCopied, PageBcc, PageDashboard, PageSettings}
}

// ListPages returns the pages that render a memo list.
func ListPages() []PageID {
	return []PageID{PageDrafts, PageInbox, PageSent, PageCopied, PageBcc}
}

// Valid reports whether p is one of the known pages.
func (p PageID) Valid() bool {
	_, ok := pageTitles[p]
	return ok
}

// Title is the heading shown for the page.
func (p PageID) Title() string {
	return pageTitles[p]
}

// ParsePage converts s into a PageID.
func ParsePage(s string) (PageID, error) {
	p := PageID(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown page %q", s)
	}
	return p, nil
}
