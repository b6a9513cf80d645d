package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ypk/pubflix/internal/catalog"
	"github.com/ypk/pubflix/internal/eventlog"
)

func adIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func renderCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		renderJSONError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		renderJSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "operation failed")
	}
}

// APIAdList - GET /api/v1/ads?q=&filter=short|popular&all=1
func (h *Handler) APIAdList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("all") == "1" {
		jsonOK(w, h.Catalog.All())
		return
	}

	q := catalog.Query{Text: r.URL.Query().Get("q")}
	switch r.URL.Query().Get("filter") {
	case "short":
		q.MaxDurationSeconds = catalog.DefaultDurationSeconds
	case "popular":
		q.SortByReward = true
	}
	jsonOK(w, h.Catalog.List(q))
}

// APIAdGet - GET /api/v1/ads/{id}
func (h *Handler) APIAdGet(w http.ResponseWriter, r *http.Request) {
	id, ok := adIDParam(r)
	if !ok {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid ad id")
		return
	}
	ad, err := h.Catalog.Get(id)
	if err != nil {
		renderCatalogError(w, err)
		return
	}
	jsonOK(w, ad)
}

// APIAdCreate - POST /api/v1/ads
func (h *Handler) APIAdCreate(w http.ResponseWriter, r *http.Request) {
	var draft catalog.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	ad, err := h.Catalog.Add(draft)
	if err != nil {
		renderCatalogError(w, err)
		return
	}

	h.Events.Append(eventlog.AdminAdded, map[string]string{
		"ad_id": strconv.FormatInt(ad.ID, 10),
		"title": ad.Title,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ad)
}

// APIAdPatch - PATCH /api/v1/ads/{id}
func (h *Handler) APIAdPatch(w http.ResponseWriter, r *http.Request) {
	id, ok := adIDParam(r)
	if !ok {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid ad id")
		return
	}

	var patch catalog.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	ad, err := h.Catalog.Edit(id, patch)
	if err != nil {
		renderCatalogError(w, err)
		return
	}

	h.Events.Append(eventlog.AdminEdited, map[string]string{
		"ad_id": strconv.FormatInt(ad.ID, 10),
		"title": ad.Title,
	})
	jsonOK(w, ad)
}

// APIAdDelete - DELETE /api/v1/ads/{id}
func (h *Handler) APIAdDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := adIDParam(r)
	if !ok {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid ad id")
		return
	}

	if err := h.Catalog.Remove(id); err != nil {
		renderCatalogError(w, err)
		return
	}

	h.Events.Append(eventlog.AdminRemoved, map[string]string{
		"ad_id": strconv.FormatInt(id, 10),
	})
	w.WriteHeader(http.StatusNoContent)
}

// APIAdSeed - POST /api/v1/ads/seed
func (h *Handler) APIAdSeed(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.Catalog.LoadDefaults())
}
