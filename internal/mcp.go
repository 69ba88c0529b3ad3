package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/compliee/compliee/internal/ai"
	"github.com/compliee/compliee/internal/index"
	"github.com/compliee/compliee/internal/library"
	"github.com/compliee/compliee/internal/mcpserver"
	"github.com/compliee/compliee/internal/storage"
)

// RunMCP serves the document tools over MCP stdio instead of HTTP. Logs go
// to stderr because stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return fmt.Errorf("create library dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Library.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	svc := library.NewService(store, db)

	var drafter *ai.Drafter
	if cfg.AI.Enabled() {
		provider := ai.NewOpenAIProvider(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model)
		drafter = ai.NewDrafter(provider, cfg.AI.Model)
	}

	logger.Info("MCP server starting on stdio", slog.String("library_path", cfg.Library.Path))
	return mcpserver.New(svc, drafter).ServeStdio()
}
