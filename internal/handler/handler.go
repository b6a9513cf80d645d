package handler

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/ypk/pubflix/internal/catalog"
	"github.com/ypk/pubflix/internal/config"
	"github.com/ypk/pubflix/internal/eventlog"
	"github.com/ypk/pubflix/internal/ledger"
	"github.com/ypk/pubflix/internal/playback"
	"github.com/ypk/pubflix/internal/sse"
)

type Handler struct {
	Catalog   *catalog.Store
	Ledger    *ledger.Ledger
	Events    *eventlog.Log
	Player    *playback.Player
	SSE       *sse.Hub
	Cfg       *config.Config
	templates map[string]*template.Template
}

func New(cat *catalog.Store, led *ledger.Ledger, events *eventlog.Log, player *playback.Player, hub *sse.Hub, cfg *config.Config, templateFS fs.FS) *Handler {
	funcMap := template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04 UTC")
		},
		"formatCountdown": func(s int) string {
			return fmt.Sprintf("%02d:%02d", s/60, s%60)
		},
		"formatPoints": func(p int) string {
			return fmt.Sprintf("%d pts", p)
		},
		"kindBadge": func(kind eventlog.Kind) template.HTML {
			class := "badge"
			switch kind {
			case eventlog.ViewStarted:
				class += " badge-blue"
			case eventlog.ViewCompleted:
				class += " badge-green"
			case eventlog.AdminRemoved:
				class += " badge-red"
			default:
				class += " badge-gray"
			}
			return template.HTML(fmt.Sprintf(`<span class="%s">%s</span>`, class, kind))
		},
	}

	// Parse layout template as the base
	layoutTmpl := template.Must(
		template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "layout.html"),
	)

	// Build per-page template sets: clone layout + parse page
	templates := make(map[string]*template.Template)
	entries, err := fs.ReadDir(templateFS, ".")
	if err != nil {
		panic("read template dir: " + err.Error())
	}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" || e.IsDir() {
			continue
		}
		t := template.Must(template.Must(layoutTmpl.Clone()).ParseFS(templateFS, name))
		templates[name] = t
	}

	return &Handler{
		Catalog:   cat,
		Ledger:    led,
		Events:    events,
		Player:    player,
		SSE:       hub,
		Cfg:       cfg,
		templates: templates,
	}
}

type PageData struct {
	Title     string
	UserName  string
	Points    int
	Flash     string
	Error     string
	CSRFField template.HTML
	Data      interface{}
}

func (h *Handler) render(w http.ResponseWriter, name string, data PageData) {
	t, ok := h.templates[name]
	if !ok {
		slog.Error("template not found", "name", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("render template", "name", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func renderJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}
