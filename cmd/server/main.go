package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/wikinav/internal/api"
	"github.com/dgallion1/wikinav/internal/config"
	"github.com/dgallion1/wikinav/internal/content"
	"github.com/dgallion1/wikinav/internal/parser"
	"github.com/dgallion1/wikinav/internal/session"
	"github.com/dgallion1/wikinav/internal/statestore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// State backend.
	backend, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("opening state backend", "backend", cfg.StateBackend, "error", err)
		os.Exit(1)
	}
	store := statestore.Instrument(backend, cfg.StateBackend, time.Hour)
	log.Info("state backend ready", "backend", cfg.StateBackend)

	// Content library.
	lib, err := content.NewLibrary(content.Config{
		Dir:           cfg.WikiDir,
		MaxConcurrent: cfg.MaxConcurrentParse,
		Parser:        parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	}, log)
	if err != nil {
		log.Error("opening content directory", "error", err)
		os.Exit(1)
	}
	if err := lib.Load(ctx); err != nil {
		// Serve an empty tree until the content is fixed.
		log.Error("initial content load failed", "error", err)
	}

	// Sessions follow every tree rebuild.
	sessions := session.NewRegistry(lib.Tree(), store, cfg.SessionTTL, log)
	lib.Subscribe(sessions.SetTree)
	sessions.Start(ctx, 5*time.Minute)

	if cfg.WatchContent {
		go func() {
			if err := lib.Watch(ctx, cfg.WatchDebounce); err != nil {
				log.Error("content watcher stopped", "error", err)
			}
		}()
	}

	// Initialize HTTP server.
	srv := api.NewServer(lib, sessions, store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()
		sessions.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		closeStore()
	}()

	log.Info("starting wikinav", "port", cfg.Port, "wiki_dir", cfg.WikiDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
