// Package main implements the entry point for the kanban API server,
// which manages multi-project task boards with WIP-limited workflow stages
// and LLM integration for backlog generation.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/taipo/kanban-api/internal/config"
	"github.com/taipo/kanban-api/internal/platform/logger"
)

// main initializes configuration, logging, the database, and the service
// graph, then starts the HTTP server. Pending migrations are applied at
// startup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Server.LogLevel)
	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	ctx := context.Background()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
