package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ypk/pubflix/internal/catalog"
	"github.com/ypk/pubflix/internal/playback"
)

// APIPlayerStatus - GET /api/v1/player
func (h *Handler) APIPlayerStatus(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.Player.Status())
}

// APIPlayerSelect - POST /api/v1/player/select
func (h *Handler) APIPlayerSelect(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdID int64 `json:"ad_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	ad, err := h.Catalog.Get(body.AdID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			renderJSONError(w, http.StatusNotFound, "NOT_FOUND", "ad not found")
			return
		}
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "operation failed")
		return
	}

	jsonOK(w, h.Player.Select(ad))
}

// APIPlayerClaim - POST /api/v1/player/claim
func (h *Handler) APIPlayerClaim(w http.ResponseWriter, r *http.Request) {
	user, err := h.Player.Claim()
	if err != nil {
		if errors.Is(err, playback.ErrNotEligible) {
			renderJSONError(w, http.StatusConflict, "NOT_ELIGIBLE", err.Error())
			return
		}
		renderJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "claim failed")
		return
	}
	jsonOK(w, user)
}

// APIPlayerClose - POST /api/v1/player/close
func (h *Handler) APIPlayerClose(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.Player.Close())
}
