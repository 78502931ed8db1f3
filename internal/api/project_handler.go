package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/taipo/kanban-api/internal/api/shared"
	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/service"
)

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// RenameProjectRequest represents the request body for renaming a project
type RenameProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// DeleteProjectResponse reports how many tasks were removed with the project.
type DeleteProjectResponse struct {
	TasksRemoved int64 `json:"tasks_removed"`
}

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projectService service.ProjectService
	stages         *domain.StageSet
	validator      *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService service.ProjectService, stages *domain.StageSet) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		stages:         stages,
		validator:      validator.New(),
	}
}

// List handles GET /api/projects requests
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Create handles POST /api/projects requests
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), req.Name)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, projectToResponse(project))
}

// Get handles GET /api/projects/{projectID} requests, returning the full
// board view.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	board, err := h.projectService.GetBoard(r.Context(), projectID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, boardToResponse(board, h.stages))
}

// Rename handles PUT /api/projects/{projectID} requests
func (h *ProjectHandler) Rename(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req RenameProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.projectService.RenameProject(r.Context(), projectID, req.Name); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/projects/{projectID} requests
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	removed, err := h.projectService.DeleteProject(r.Context(), projectID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteProjectResponse{TasksRemoved: removed})
}
