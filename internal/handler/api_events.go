package handler

import (
	"net/http"
	"strconv"

	"github.com/ypk/pubflix/internal/eventlog"
)

// APIEventList - GET /api/v1/events?kind=&limit=&offset=
func (h *Handler) APIEventList(w http.ResponseWriter, r *http.Request) {
	kind := eventlog.Kind(r.URL.Query().Get("kind"))

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	type eventPage struct {
		Entries []eventlog.Entry `json:"entries"`
		Total   int              `json:"total"`
	}
	entries := h.Events.List(limit, offset, kind)
	if entries == nil {
		entries = []eventlog.Entry{}
	}
	jsonOK(w, eventPage{Entries: entries, Total: h.Events.Count(kind)})
}
