package api

import (
	"time"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/service"
)

// ProjectResponse represents the response data for a project
type ProjectResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID            int64     `json:"id"`
	ProjectID     int64     `json:"project_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Position      int       `json:"position"`
	Important     bool      `json:"is_important"`
	Subtask       bool      `json:"is_subtask"`
	ParentTaskID  *int64    `json:"parent_task_id,omitempty"`
	POComments    string    `json:"po_comments,omitempty"`
	HasCachedCode bool      `json:"has_cached_code"`
	CreatedAt     time.Time `json:"created_at"`
}

// StageResponse describes one board column for clients.
type StageResponse struct {
	Key          string `json:"key"`
	DisplayLabel string `json:"display_label"`
	WIPLimit     int    `json:"wip_limit,omitempty"`
}

// BoardResponse is a project together with its ordered tasks and the
// stage layout.
type BoardResponse struct {
	Project ProjectResponse `json:"project"`
	Stages  []StageResponse `json:"stages"`
	Tasks   []TaskResponse  `json:"tasks"`
}

// UserResponse represents the response data for a user
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AuthResponse carries a user and their access token.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// GenerationResponse reports the outcome of a generation flow.
type GenerationResponse struct {
	TasksCreated int    `json:"tasks_created"`
	Warning      string `json:"warning,omitempty"`
}

func projectToResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		ProjectID:     t.ProjectID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status,
		Position:      t.Position,
		Important:     t.Important,
		Subtask:       t.Subtask,
		ParentTaskID:  t.ParentTaskID,
		POComments:    t.POComments,
		HasCachedCode: t.GeneratedCode != "",
		CreatedAt:     t.CreatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func stagesToResponse(stages *domain.StageSet) []StageResponse {
	out := make([]StageResponse, 0, stages.Len())
	for _, s := range stages.Stages() {
		out = append(out, StageResponse{
			Key:          s.Key,
			DisplayLabel: s.DisplayLabel,
			WIPLimit:     s.WIPLimit,
		})
	}
	return out
}

func boardToResponse(b *service.Board, stages *domain.StageSet) BoardResponse {
	return BoardResponse{
		Project: projectToResponse(b.Project),
		Stages:  stagesToResponse(stages),
		Tasks:   tasksToResponse(b.Tasks),
	}
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
	}
}
