// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/compliee/compliee/internal/ai"
	"github.com/compliee/compliee/internal/api"
	"github.com/compliee/compliee/internal/autosave"
	"github.com/compliee/compliee/internal/extract"
	"github.com/compliee/compliee/internal/index"
	"github.com/compliee/compliee/internal/library"
	"github.com/compliee/compliee/internal/nav"
	"github.com/compliee/compliee/internal/session"
	"github.com/compliee/compliee/internal/sse"
	"github.com/compliee/compliee/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("library_path", cfg.Library.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.Bool("ai_enabled", cfg.AI.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure library and subscription directories exist.
	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return fmt.Errorf("create library dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Subscription.Path, 0o755); err != nil {
		return fmt.Errorf("create subscription dir: %w", err)
	}

	// Initialize storage.
	store, err := storage.NewFS(cfg.Library.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// Run initial sync.
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Document library service.
	svc := library.NewService(store, db)

	// Access gate: identity provider per auth mode plus the subscription store.
	subs := session.NewSubscriptionStore(cfg.Subscription.Path)
	gate := session.NewGate(cfg.Auth.Provider(), subs)

	// AI drafter, only when a provider is configured.
	var drafter *ai.Drafter
	if cfg.AI.Enabled() {
		provider := ai.NewOpenAIProvider(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
		drafter = ai.NewDrafter(provider, cfg.AI.Model)
		logger.Info("AI drafting enabled",
			slog.String("provider", provider.Name()),
			slog.String("model", cfg.AI.Model))
	} else {
		logger.Info("AI drafting disabled, no api_key configured")
	}

	// Attachment text extraction.
	extractor := extract.New(logger)
	defer extractor.Close()

	// Autosave scheduler: debounced writes that also feed the SSE stream.
	saver := autosave.NewScheduler(cfg.Autosave.Delay, func(ctx context.Context, path, title, color, body string) error {
		if _, err := svc.Save(ctx, path, title, color, body); err != nil {
			return err
		}
		broker.PublishDocumentEvent("updated", path)
		return nil
	}, logger)

	// View router: leaving the editor flushes pending autosaves so the
	// library list never shows stale content.
	views := nav.NewRouter()
	views.OnNavigate(func(from, to nav.View) {
		if from == nav.ViewEditor {
			saver.Flush("")
		}
	})

	// Build API handlers and router.
	ah := api.NewAttachmentHandler(cfg.Library.Path, extractor)
	h := api.NewHandler(svc, drafter, saver, subs, ah, views, broker.PublishDocumentEvent)
	apiRouter := api.NewRouter(h, ah, gate, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with SSE callback.
	g.Go(func() error {
		err := index.Watch(gCtx, db, store, cfg.Library.Path, logger, func(kind, path string) {
			broker.PublishDocumentEvent(kind, path)
		})
		if err != nil {
			logger.Error("file watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Run the autosave loop. It drains pending edits before returning.
	g.Go(func() error {
		return saver.Run(gCtx)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
