package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/ypk/pubflix/internal/catalog"
	"github.com/ypk/pubflix/internal/eventlog"
	"github.com/ypk/pubflix/internal/model"
	"github.com/ypk/pubflix/internal/stats"
)

func (h *Handler) pageData(r *http.Request, title string, data interface{}) PageData {
	user := h.Ledger.Snapshot()
	return PageData{
		Title:     title,
		UserName:  user.DisplayName,
		Points:    user.Points,
		Flash:     r.URL.Query().Get("flash"),
		Error:     r.URL.Query().Get("error"),
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}
}

// Index renders the ad catalog with the search box and quick filters.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	q := catalog.Query{Text: r.URL.Query().Get("q")}
	filter := r.URL.Query().Get("filter")
	switch filter {
	case "short":
		q.MaxDurationSeconds = catalog.DefaultDurationSeconds
	case "popular":
		q.SortByReward = true
	}

	type indexData struct {
		Ads    []model.Ad
		Query  string
		Filter string
	}
	h.render(w, "index.html", h.pageData(r, "Catalog", indexData{
		Ads:    h.Catalog.List(q),
		Query:  r.URL.Query().Get("q"),
		Filter: filter,
	}))
}

// Dashboard renders points, the reversed view history, and summary stats.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := h.Ledger.Snapshot()

	// Most recent first for display; storage order stays chronological.
	history := make([]model.ViewRecord, 0, len(user.History))
	for i := len(user.History) - 1; i >= 0; i-- {
		history = append(history, user.History[i])
	}

	type dashData struct {
		History []model.ViewRecord
		Summary stats.Summary
	}
	h.render(w, "dashboard.html", h.pageData(r, "Dashboard", dashData{
		History: history,
		Summary: stats.Summarize(user, h.Catalog.ActiveCount()),
	}))
}

// Admin renders the full catalog, inactive ads included, with CRUD forms.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	type adminData struct {
		Ads []model.Ad
	}
	h.render(w, "admin.html", h.pageData(r, "Admin", adminData{
		Ads: h.Catalog.All(),
	}))
}

// AdminEvents renders the audit trail, newest first, with a kind filter.
func (h *Handler) AdminEvents(w http.ResponseWriter, r *http.Request) {
	kind := eventlog.Kind(r.URL.Query().Get("kind"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	const pageSize = 50

	type eventsData struct {
		Entries []eventlog.Entry
		Kind    string
		Offset  int
		Next    int
		Total   int
	}
	total := h.Events.Count(kind)
	next := offset + pageSize
	if next >= total {
		next = 0
	}
	h.render(w, "events.html", h.pageData(r, "Event Log", eventsData{
		Entries: h.Events.List(pageSize, offset, kind),
		Kind:    string(kind),
		Offset:  offset,
		Next:    next,
		Total:   total,
	}))
}
