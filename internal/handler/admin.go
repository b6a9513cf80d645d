package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ypk/pubflix/internal/catalog"
	"github.com/ypk/pubflix/internal/eventlog"
)

func redirectFlash(w http.ResponseWriter, r *http.Request, to, flash string) {
	http.Redirect(w, r, to+"?flash="+url.QueryEscape(flash), http.StatusSeeOther)
}

func redirectError(w http.ResponseWriter, r *http.Request, to, msg string) {
	http.Redirect(w, r, to+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// ProfileName handles POST /profile/name.
func (h *Handler) ProfileName(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.SetDisplayName(r.FormValue("name")); err != nil {
		slog.Error("set display name", "error", err)
		redirectError(w, r, "/", "Could not save your name")
		return
	}
	redirectFlash(w, r, "/", "Welcome, "+h.Ledger.Snapshot().DisplayName)
}

// AdminAdAdd handles POST /admin/ads.
func (h *Handler) AdminAdAdd(w http.ResponseWriter, r *http.Request) {
	duration, _ := strconv.Atoi(r.FormValue("duration_seconds"))
	reward, rewardErr := strconv.Atoi(r.FormValue("reward_points"))
	if rewardErr != nil {
		reward = -1 // absent, take the default
	}

	ad, err := h.Catalog.Add(catalog.Draft{
		Title:           r.FormValue("title"),
		ThumbnailRef:    r.FormValue("thumbnail_ref"),
		MediaRef:        r.FormValue("media_ref"),
		DurationSeconds: duration,
		RewardPoints:    reward,
	})
	if err != nil {
		redirectError(w, r, "/admin", err.Error())
		return
	}

	h.Events.Append(eventlog.AdminAdded, map[string]string{
		"ad_id": strconv.FormatInt(ad.ID, 10),
		"title": ad.Title,
	})
	redirectFlash(w, r, "/admin", "Ad added")
}

// AdminAdEdit handles POST /admin/ads/{id}/edit.
func (h *Handler) AdminAdEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		redirectError(w, r, "/admin", "Bad ad id")
		return
	}

	var p catalog.Patch
	if v := r.FormValue("title"); v != "" {
		p.Title = &v
	}
	if v := r.FormValue("thumbnail_ref"); v != "" {
		p.ThumbnailRef = &v
	}
	if v := r.FormValue("media_ref"); v != "" {
		p.MediaRef = &v
	}
	if v := r.FormValue("duration_seconds"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.DurationSeconds = &n
		}
	}
	if v := r.FormValue("reward_points"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.RewardPoints = &n
		}
	}

	ad, err := h.Catalog.Edit(id, p)
	if err != nil {
		redirectError(w, r, "/admin", err.Error())
		return
	}

	h.Events.Append(eventlog.AdminEdited, map[string]string{
		"ad_id": strconv.FormatInt(ad.ID, 10),
		"title": ad.Title,
	})
	redirectFlash(w, r, "/admin", "Ad updated")
}

// AdminAdDelete handles POST /admin/ads/{id}/delete.
func (h *Handler) AdminAdDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		redirectError(w, r, "/admin", "Bad ad id")
		return
	}

	if err := h.Catalog.Remove(id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			redirectError(w, r, "/admin", "Ad not found")
			return
		}
		redirectError(w, r, "/admin", err.Error())
		return
	}

	h.Events.Append(eventlog.AdminRemoved, map[string]string{
		"ad_id": strconv.FormatInt(id, 10),
	})
	redirectFlash(w, r, "/admin", "Ad removed")
}

// AdminAdToggle handles POST /admin/ads/{id}/toggle: flips Active so an ad
// can leave the catalog without being deleted.
func (h *Handler) AdminAdToggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		redirectError(w, r, "/admin", "Bad ad id")
		return
	}

	ad, err := h.Catalog.Get(id)
	if err != nil {
		redirectError(w, r, "/admin", "Ad not found")
		return
	}
	active := !ad.Active
	if _, err := h.Catalog.Edit(id, catalog.Patch{Active: &active}); err != nil {
		redirectError(w, r, "/admin", err.Error())
		return
	}

	h.Events.Append(eventlog.AdminEdited, map[string]string{
		"ad_id":  strconv.FormatInt(id, 10),
		"active": strconv.FormatBool(active),
	})
	redirectFlash(w, r, "/admin", "Ad updated")
}

// AdminSeed handles POST /admin/seed: replaces the catalog with the demo set.
func (h *Handler) AdminSeed(w http.ResponseWriter, r *http.Request) {
	h.Catalog.LoadDefaults()
	redirectFlash(w, r, "/admin", "Sample ads loaded")
}

// AdminReset handles POST /admin/reset. It reseeds the catalog, clears the
// ledger and the audit trail, and drops any active session.
func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	h.Player.Close()
	h.Catalog.LoadDefaults()
	if err := h.Ledger.Reset(); err != nil {
		slog.Error("reset ledger", "error", err)
	}
	if err := h.Events.Clear(); err != nil {
		slog.Error("clear event log", "error", err)
	}
	redirectFlash(w, r, "/admin", "Demo reset")
}
