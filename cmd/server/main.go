package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/board-go/internal/asset"
	"github.com/inamate/inamate/board-go/internal/auth"
	"github.com/inamate/inamate/board-go/internal/config"
	mw "github.com/inamate/inamate/board-go/internal/middleware"
	"github.com/inamate/inamate/board-go/internal/session"
	"github.com/inamate/inamate/board-go/internal/store"
	"github.com/inamate/inamate/board-go/internal/task"
	"github.com/inamate/inamate/board-go/internal/widget"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	opts := cfg.Board()
	assetHandler := asset.NewHandler(cfg.AssetDir, int(opts.Width), int(opts.Height))
	icons := asset.NewIconSet(cfg.IconDir, widget.IconNames)
	opts.Images = asset.NewLoader(assetHandler.Dir())
	opts.Icon = icons.Icon
	opts.Exec = task.Background

	hub := session.NewHub(st, opts)
	go hub.Run()

	authService := auth.NewService(cfg.JWTSecret, cfg.AccessPasscodeHash)
	authHandler := auth.NewHandler(authService)
	boardHandler := session.NewHandler(hub, st, authService, cfg.Origins())

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/auth/token", authHandler.Token).Methods("POST", "OPTIONS")

	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/assets/{assetId}", assetHandler.Remove).Methods("DELETE", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Board listing is public; everything scoped to a board needs its token.
	r.HandleFunc("/api/boards", boardHandler.List).Methods("GET")

	api := r.PathPrefix("/api/boards/{boardId}").Subrouter()
	api.Use(authService.BoardMiddleware)
	api.HandleFunc("/thumbnail", boardHandler.Thumbnail).Methods("GET", "OPTIONS")
	api.HandleFunc("/snapshot", boardHandler.Snapshot).Methods("GET", "OPTIONS")
	api.HandleFunc("/layers/{widgetId}.png", boardHandler.Layer).Methods("GET", "OPTIONS")
	api.HandleFunc("", boardHandler.Delete).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/ws/board/{boardId}", boardHandler.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so every open board is saved.
		slog.Info("saving open boards...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "board", fmt.Sprintf("%vx%v", opts.Width, opts.Height))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore uses Postgres when DATABASE_URL is set and snapshot files
// otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("using file store", "dir", cfg.SnapshotDir)
		return store.NewFileStore(cfg.SnapshotDir)
	}
	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	st, err := store.NewPGStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("using postgres store")
	return st, nil
}
