package handler

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
)

func (h *Handler) Routes(staticFS fs.FS) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	csrfProtect := csrf.Protect(
		[]byte(h.Cfg.SessionSecret),
		csrf.Secure(strings.HasPrefix(h.Cfg.BaseURL, "https")),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	// The JSON API and the SSE stream are not form surfaces; everything
	// else goes through CSRF protection.
	r.Use(func(next http.Handler) http.Handler {
		protected := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/v1") || r.URL.Path == "/player/events" {
				next.ServeHTTP(w, r)
				return
			}
			protected.ServeHTTP(w, r)
		})
	})

	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.FS(staticFS))))

	// JSON REST API v1, rate-limited per IP
	apiRL := NewRateLimiter(2.0, 60) // 2 req/sec sustained, burst 60
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiRL.Middleware)

		r.Get("/ads", h.APIAdList)
		r.Post("/ads", h.APIAdCreate)
		r.Post("/ads/seed", h.APIAdSeed)
		r.Get("/ads/{id}", h.APIAdGet)
		r.Patch("/ads/{id}", h.APIAdPatch)
		r.Delete("/ads/{id}", h.APIAdDelete)

		r.Get("/ledger", h.APILedgerGet)
		r.Put("/ledger/name", h.APILedgerSetName)
		r.Post("/ledger/reset", h.APILedgerReset)

		r.Get("/events", h.APIEventList)
		r.Get("/stats", h.APIStats)

		r.Get("/player", h.APIPlayerStatus)
		r.Post("/player/select", h.APIPlayerSelect)
		r.Post("/player/claim", h.APIPlayerClaim)
		r.Post("/player/close", h.APIPlayerClose)
	})

	// HTML pages
	r.Get("/", h.Index)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/admin", h.Admin)
	r.Get("/admin/events", h.AdminEvents)

	// Form actions
	r.Post("/profile/name", h.ProfileName)
	r.Post("/admin/ads", h.AdminAdAdd)
	r.Post("/admin/ads/{id}/edit", h.AdminAdEdit)
	r.Post("/admin/ads/{id}/delete", h.AdminAdDelete)
	r.Post("/admin/ads/{id}/toggle", h.AdminAdToggle)
	r.Post("/admin/seed", h.AdminSeed)
	r.Post("/admin/reset", h.AdminReset)

	// Player event stream
	r.Get("/player/events", h.PlayerSSE)

	return r
}
