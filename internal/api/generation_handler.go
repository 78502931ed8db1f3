package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/taipo/kanban-api/internal/api/shared"
	"github.com/taipo/kanban-api/internal/service"
)

// GenerateTasksRequest represents the request body for bulk backlog generation
type GenerateTasksRequest struct {
	Description string `json:"description" validate:"required,min=10"`
}

// GenerateFromSpecRequest represents the request body for specification extraction
type GenerateFromSpecRequest struct {
	Specification string `json:"specification" validate:"required,min=10"`
	FallbackName  string `json:"fallback_name" validate:"required,min=1,max=120"`
}

// QueryTaskRequest represents the request body for a product-owner query
type QueryTaskRequest struct {
	Question string `json:"question" validate:"required,min=3"`
}

// QueryTaskResponse carries the product owner's answer.
type QueryTaskResponse struct {
	Answer string `json:"answer"`
}

// CodeResponse carries generated code for a task.
type CodeResponse struct {
	Code string `json:"code"`
}

// SpecGenerationResponse reports a project created from a specification.
type SpecGenerationResponse struct {
	Project      ProjectResponse `json:"project"`
	TasksCreated int             `json:"tasks_created"`
}

// GenerationHandler handles LLM-backed generation HTTP requests
type GenerationHandler struct {
	generation service.GenerationService
	validator  *validator.Validate
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generation service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generation: generation,
		validator:  validator.New(),
	}
}

// GenerateTasks handles POST /api/projects/{projectID}/generate requests
func (h *GenerationHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req GenerateTasksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	count, err := h.generation.GenerateProjectTasks(r.Context(), projectID, req.Description)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	resp := GenerationResponse{TasksCreated: count}
	if count == 0 {
		resp.Warning = "the generated output contained no usable tasks; the board was left unchanged"
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GenerateFromSpec handles POST /api/generate/specification requests
func (h *GenerationHandler) GenerateFromSpec(w http.ResponseWriter, r *http.Request) {
	var req GenerateFromSpecRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	project, count, err := h.generation.GenerateFromSpecification(r.Context(), req.Specification, req.FallbackName)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, SpecGenerationResponse{
		Project:      projectToResponse(project),
		TasksCreated: count,
	})
}

// Decompose handles POST /api/projects/{projectID}/tasks/{taskID}/decompose requests
func (h *GenerationHandler) Decompose(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	count, err := h.generation.DecomposeTask(r.Context(), projectID, taskID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerationResponse{TasksCreated: count})
}

// Query handles POST /api/projects/{projectID}/tasks/{taskID}/query requests
func (h *GenerationHandler) Query(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	var req QueryTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	answer, err := h.generation.QueryTask(r.Context(), projectID, taskID, req.Question)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QueryTaskResponse{Answer: answer})
}

// GenerateCode handles POST /api/projects/{projectID}/tasks/{taskID}/code requests
func (h *GenerationHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	code, err := h.generation.GenerateCode(r.Context(), projectID, taskID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CodeResponse{Code: code})
}

// PublishCode handles POST /api/projects/{projectID}/tasks/{taskID}/code/publish requests
func (h *GenerationHandler) PublishCode(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	if err := h.generation.PublishCode(r.Context(), projectID, taskID); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
