package server

import (
	"net/http"
	"strconv"

	"github.com/aretw0/memodesk/internal/schemaform"
	"github.com/aretw0/memodesk/internal/view"
)

// dashboard loads every list page, dedupes the result and returns one page
// of the reporting table.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page must be a non-negative integer")
			return
		}
		page = n
	}

	d := view.NewDashboard(s.app.Data, nil, s.pageSize, s.logger)
	defer d.Close()
	if err := d.Load(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	table := d.Table()
	table.SetQuery(r.URL.Query().Get("q"))
	table.GoTo(page)
	writeJSON(w, http.StatusOK, table.View())
}

type formResponse struct {
	Fields []schemaform.Field `json:"fields"`
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formResponse{Fields: s.schema.Fields()})
}
