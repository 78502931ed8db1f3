package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/taipo/kanban-api/internal/api/shared"
	"github.com/taipo/kanban-api/internal/service"
)

// AddTaskRequest represents the request body for creating a task
type AddTaskRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"required,min=1"`
	Status      string `json:"status"`
	Important   bool   `json:"is_important"`
}

// EditTaskRequest represents the request body for editing a task
type EditTaskRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"required,min=1"`
}

// TransitionRequest represents the request body for a stage transition
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReorderRequest represents the request body for reordering a stage column
type ReorderRequest struct {
	Status  string  `json:"status" validate:"required"`
	TaskIDs []int64 `json:"task_ids" validate:"required"`
}

// ToggleImportanceResponse reports a task's new importance flag.
type ToggleImportanceResponse struct {
	Important bool `json:"is_important"`
}

// DeleteTaskResponse reports the stage a deleted task was in.
type DeleteTaskResponse struct {
	PriorStage string `json:"prior_stage"`
}

// TaskHandler handles task and workflow HTTP requests
type TaskHandler struct {
	workflow  service.WorkflowService
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(workflow service.WorkflowService) *TaskHandler {
	return &TaskHandler{
		workflow:  workflow,
		validator: validator.New(),
	}
}

// taskScope extracts the projectID and taskID URL parameters.
func taskScope(w http.ResponseWriter, r *http.Request) (projectID, taskID int64, ok bool) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return 0, 0, false
	}
	taskID, err = urlParamInt64(r, "taskID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return 0, 0, false
	}
	return projectID, taskID, true
}

// List handles GET /api/projects/{projectID}/tasks requests
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	tasks, err := h.workflow.ListTasks(r.Context(), projectID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Create handles POST /api/projects/{projectID}/tasks requests
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req AddTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	status := req.Status
	if status == "" {
		status = h.workflow.Stages().Initial().Key
	}

	task, err := h.workflow.AddTask(r.Context(), projectID, req.Title, req.Description, status, req.Important)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// Get handles GET /api/projects/{projectID}/tasks/{taskID} requests
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	task, err := h.workflow.GetTask(r.Context(), projectID, taskID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Edit handles PUT /api/projects/{projectID}/tasks/{taskID} requests
func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	var req EditTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.workflow.EditTask(r.Context(), projectID, taskID, req.Title, req.Description); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Transition handles POST /api/projects/{projectID}/tasks/{taskID}/transition requests
func (h *TaskHandler) Transition(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.workflow.Transition(r.Context(), projectID, taskID, req.Status); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles POST /api/projects/{projectID}/reorder requests
func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req ReorderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.workflow.Reorder(r.Context(), projectID, req.Status, req.TaskIDs); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleImportance handles POST /api/projects/{projectID}/tasks/{taskID}/importance requests
func (h *TaskHandler) ToggleImportance(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	important, err := h.workflow.ToggleImportance(r.Context(), projectID, taskID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ToggleImportanceResponse{Important: important})
}

// Delete handles DELETE /api/projects/{projectID}/tasks/{taskID} requests
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, taskID, ok := taskScope(w, r)
	if !ok {
		return
	}

	priorStage, err := h.workflow.DeleteTask(r.Context(), projectID, taskID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteTaskResponse{PriorStage: priorStage})
}
