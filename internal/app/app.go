package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	pubflix "github.com/ypk/pubflix"
	"github.com/ypk/pubflix/internal/catalog"
	"github.com/ypk/pubflix/internal/config"
	"github.com/ypk/pubflix/internal/eventlog"
	"github.com/ypk/pubflix/internal/handler"
	"github.com/ypk/pubflix/internal/ledger"
	"github.com/ypk/pubflix/internal/playback"
	"github.com/ypk/pubflix/internal/sse"
	"github.com/ypk/pubflix/internal/storage"
)

func Run(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}

	// Open database
	kv, err := storage.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer kv.Close()

	// Run migrations
	if err := kv.Migrate(pubflix.MigrationFS); err != nil {
		return err
	}
	slog.Info("database ready")

	// Build the core stores
	cat := catalog.New(kv)
	if cat.Len() == 0 {
		cat.LoadDefaults()
		slog.Info("catalog seeded with sample ads")
	}
	led := ledger.New(kv)
	events := eventlog.New(kv)

	// Playback: SSE hub, state machine, and the 1 Hz tick driver
	hub := sse.New()
	player := playback.New(led, events, hub)
	driver := &playback.Driver{Player: player, Interval: cfg.TickInterval}
	driver.Start(ctx)
	defer driver.Stop()

	// Get template FS (sub-directory)
	templateFS, err := fs.Sub(pubflix.TemplateFS, "templates")
	if err != nil {
		return err
	}

	// Get static FS (sub-directory)
	staticFS, err := fs.Sub(pubflix.StaticFS, "static")
	if err != nil {
		return err
	}

	// Build handler and routes
	h := handler.New(cat, led, events, player, hub, cfg, templateFS)
	router := h.Routes(staticFS)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		srv.Shutdown(context.Background())
	}()

	slog.Info("server starting", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
