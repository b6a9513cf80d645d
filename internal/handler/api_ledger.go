package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ypk/pubflix/internal/stats"
)

// APILedgerGet - GET /api/v1/ledger
func (h *Handler) APILedgerGet(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.Ledger.Snapshot())
}

// APILedgerSetName - PUT /api/v1/ledger/name
func (h *Handler) APILedgerSetName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if err := h.Ledger.SetDisplayName(body.Name); err != nil {
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to save name")
		return
	}
	jsonOK(w, h.Ledger.Snapshot())
}

// APILedgerReset - POST /api/v1/ledger/reset
func (h *Handler) APILedgerReset(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.Reset(); err != nil {
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to reset ledger")
		return
	}
	jsonOK(w, h.Ledger.Snapshot())
}

// APIStats - GET /api/v1/stats
func (h *Handler) APIStats(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, stats.Summarize(h.Ledger.Snapshot(), h.Catalog.ActiveCount()))
}
