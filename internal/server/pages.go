package server

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/memodesk/internal/badge"
	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/filter"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/pill"
)

type pageEntry struct {
	ID    memo.PageID `json:"id"`
	Title string      `json:"title"`
	Count *int        `json:"count,omitempty"`
}

type pillEntry struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Icon       string `json:"icon,omitempty"`
	ShowAvatar bool   `json:"showAvatar"`
}

type pillList struct {
	Page    memo.PageID `json:"page"`
	Initial string      `json:"initial"`
	Pills   []pillEntry `json:"pills"`
}

type memoRow struct {
	memo.Item
	Avatar *dataaccess.Profile `json:"avatar,omitempty"`
}

type memoList struct {
	Page  memo.PageID `json:"page"`
	Title string      `json:"title"`
	Pill  string      `json:"pill"`
	Sort  string      `json:"sort,omitempty"`
	Items []memoRow   `json:"items"`
}

// listPages returns every page with the caller's badge counts.
func (s *Server) listPages(w http.ResponseWriter, r *http.Request) {
	id, err := s.app.Data.CurrentIdentity(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	items, err := s.app.Data.ListItemsForOwner(r.Context(), id.ID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	counts := badge.Count(items, badge.DefaultTable(), badge.DefaultOptions())

	out := make([]pageEntry, 0, len(memo.Pages()))
	for _, p := range memo.Pages() {
		e := pageEntry{ID: p, Title: p.Title()}
		if n, ok := counts[p]; ok {
			e.Count = &n
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listPills(w http.ResponseWriter, r *http.Request) {
	page, ok := s.listPage(w, r)
	if !ok {
		return
	}
	pills := s.catalog.ForPage(page)
	out := pillList{
		Page:    page,
		Initial: pill.InitialPillID(page, pills, ""),
		Pills:   make([]pillEntry, 0, len(pills)),
	}
	for _, p := range pills {
		out.Pills = append(out.Pills, pillEntry{ID: p.ID, Label: p.Label, Icon: p.Icon, ShowAvatar: p.ShowAvatar})
	}
	writeJSON(w, http.StatusOK, out)
}

// listMemos runs the filter pipeline over the caller's memos for a page.
func (s *Server) listMemos(w http.ResponseWriter, r *http.Request) {
	page, ok := s.listPage(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	order, err := filter.ParseSort(q.Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	structured := filter.Structured{
		From:           q.Get("from"),
		To:             q.Get("to"),
		RequesterEmail: q.Get("requester"),
	}
	if err := structured.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	items, err := s.app.Data.ListPage(r.Context(), page)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	pills := s.catalog.ForPage(page)
	pillID := pill.InitialPillID(page, pills, strings.TrimSpace(q.Get("pill")))
	visible := filter.Apply(items, filter.Criteria{
		PillID:     pillID,
		Pills:      pills,
		Query:      q.Get("q"),
		Structured: structured,
		Sort:       order,
		Location:   s.location,
	})

	active, found := pill.Find(pills, pillID)
	showAvatar := !found || active.ShowAvatar

	out := memoList{
		Page:  page,
		Title: page.Title(),
		Pill:  pillID,
		Sort:  order.String(),
		Items: make([]memoRow, 0, len(visible)),
	}
	for _, it := range visible {
		row := memoRow{Item: it}
		if showAvatar {
			row.Avatar = s.avatar(r, it)
		}
		out.Items = append(out.Items, row)
	}
	writeJSON(w, http.StatusOK, out)
}

// avatar resolves the first action officer on it.
func (s *Server) avatar(r *http.Request, it memo.Item) *dataaccess.Profile {
	for _, rv := range it.Reviews {
		if rv.ActionOfficer != "" {
			p := s.profiles.Get(r.Context(), rv.ActionOfficer)
			return &p
		}
	}
	return nil
}

// listPage reads the {page} parameter and rejects pages without a memo list.
func (s *Server) listPage(w http.ResponseWriter, r *http.Request) (memo.PageID, bool) {
	page, err := memo.ParsePage(chi.URLParam(r, "page"))
	if err == nil && !slices.Contains(memo.ListPages(), page) {
		err = fmt.Errorf("page %q has no memo list", page)
	}
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return "", false
	}
	return page, true
}
