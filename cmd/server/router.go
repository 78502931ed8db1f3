package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taipo/kanban-api/internal/api"
	apiMiddleware "github.com/taipo/kanban-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.authService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	projectHandler := api.NewProjectHandler(app.projectService, app.stages)
	taskHandler := api.NewTaskHandler(app.workflowService)
	generationHandler := api.NewGenerationHandler(app.generationService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Project endpoints
			r.Get("/projects", projectHandler.List)
			r.Post("/projects", projectHandler.Create)
			r.Get("/projects/{projectID}", projectHandler.Get)
			r.Put("/projects/{projectID}", projectHandler.Rename)
			r.Delete("/projects/{projectID}", projectHandler.Delete)

			// Task endpoints
			r.Get("/projects/{projectID}/tasks", taskHandler.List)
			r.Post("/projects/{projectID}/tasks", taskHandler.Create)
			r.Get("/projects/{projectID}/tasks/{taskID}", taskHandler.Get)
			r.Put("/projects/{projectID}/tasks/{taskID}", taskHandler.Edit)
			r.Delete("/projects/{projectID}/tasks/{taskID}", taskHandler.Delete)
			r.Post("/projects/{projectID}/tasks/{taskID}/transition", taskHandler.Transition)
			r.Post("/projects/{projectID}/tasks/{taskID}/importance", taskHandler.ToggleImportance)
			r.Post("/projects/{projectID}/reorder", taskHandler.Reorder)

			// Generation endpoints
			r.Post("/generate/specification", generationHandler.GenerateFromSpec)
			r.Post("/projects/{projectID}/generate", generationHandler.GenerateTasks)
			r.Post("/projects/{projectID}/tasks/{taskID}/decompose", generationHandler.Decompose)
			r.Post("/projects/{projectID}/tasks/{taskID}/query", generationHandler.Query)
			r.Post("/projects/{projectID}/tasks/{taskID}/code", generationHandler.GenerateCode)
			r.Post("/projects/{projectID}/tasks/{taskID}/code/publish", generationHandler.PublishCode)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
