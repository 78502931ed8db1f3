package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taipo/kanban-api/internal/config"
	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/generation"
	"github.com/taipo/kanban-api/internal/platform/gemini"
	"github.com/taipo/kanban-api/internal/platform/github"
	"github.com/taipo/kanban-api/internal/platform/postgres"
	"github.com/taipo/kanban-api/internal/service"
	"github.com/taipo/kanban-api/internal/service/auth"
	"github.com/taipo/kanban-api/internal/store"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB
	stages *domain.StageSet

	// Stores (interfaces for proper abstraction)
	projectStore     store.ProjectStore
	taskStore        store.TaskStore
	userStore        store.UserStore
	requirementStore store.RequirementStore

	// Service interfaces
	jwtService        auth.JWTService
	authService       auth.AuthService
	projectService    service.ProjectService
	workflowService   service.WorkflowService
	generationService service.GenerationService
}

// newApplication creates a new application instance with all dependencies
// initialized: database connection, migrations, stores, auth, the LLM
// generator, and the domain services.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	logger := slog.Default()

	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	stages, err := cfg.Board.StageSet()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid board configuration: %w", err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		stages: stages,
	}

	app.projectStore = postgres.NewPostgresProjectStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.requirementStore = postgres.NewPostgresRequirementStore(db, logger)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.authService, err = auth.NewAuthService(
		app.userStore,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		auth.NewBcryptVerifier(),
		app.jwtService,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	generator, err := gemini.NewGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.LLM.ModelName)

	app.projectService, err = service.NewProjectService(db, app.projectStore, app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create project service: %w", err)
	}

	app.workflowService, err = service.NewWorkflowService(db, app.projectStore, app.taskStore, stages, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow service: %w", err)
	}

	publisher, err := setupCodePublisher(cfg, logger)
	if err != nil {
		return nil, err
	}

	parserCfg := generation.ParserConfig{
		Stages:            stages,
		MaxTitleLen:       cfg.Board.MaxTitleLen,
		MinDescriptionLen: cfg.Board.MinDescriptionLen,
	}

	app.generationService, err = service.NewGenerationService(
		db,
		generator,
		app.workflowService,
		app.projectStore,
		app.taskStore,
		app.requirementStore,
		publisher,
		parserCfg,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupCodePublisher creates the GitHub publisher when configured.
// A disabled integration is not an error; publishing endpoints report
// it per request instead.
func setupCodePublisher(cfg *config.Config, logger *slog.Logger) (service.CodePublisher, error) {
	client, err := github.NewClient(cfg.GitHub, logger.With("component", "github_publisher"))
	if err != nil {
		if errors.Is(err, github.ErrNotConfigured) {
			logger.Info("GitHub publishing disabled; no token configured")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	logger.Info("GitHub publishing enabled",
		"owner", cfg.GitHub.Owner,
		"repository", cfg.GitHub.Repository,
		"branch", cfg.GitHub.Branch)
	return client, nil
}

// run starts the application server, handling lifecycle and cleanup.
func (app *application) run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
