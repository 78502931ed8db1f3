package domain

import (
	"strings"
	"time"
)

// Task is a single card on the board. It always belongs to exactly one
// project, referenced by the stable project ID; the project display name is
// resolved by a join, never stored on the task row.
type Task struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Status is a stage key from the configured StageSet.
	Status string `json:"status"`

	// Position orders the task within its stage. Not globally unique,
	// only unique enough for a stable (position, id) sort.
	Position int `json:"position"`

	Important bool `json:"is_important"`

	// Subtask marks tasks produced by the decomposition flow.
	Subtask bool `json:"is_subtask"`

	// ParentTaskID references the decomposed story, when there is one.
	ParentTaskID *int64 `json:"parent_task_id,omitempty"`

	// POComments is an append-only log of product-owner Q&A and feedback.
	// Empty means no comments yet.
	POComments string `json:"po_comments,omitempty"`

	// GeneratedCode caches the last code-generation result for the task.
	GeneratedCode string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// NewTask creates a task in the given stage for the given project.
// The ID and position are assigned by the store on creation.
func NewTask(projectID int64, title, description, status string) (*Task, error) {
	task := &Task{
		ProjectID:   projectID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks structural task invariants. Stage membership is validated
// against the configured StageSet by the workflow engine, not here.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyTaskDescription
	}
	if t.Position < 0 {
		return ErrNegativePosition
	}
	if t.Status == "" {
		return ErrUnknownStage
	}
	return nil
}

// AppendPOComment appends a note to the task's comment log, preserving any
// existing content. The log is append-only.
func (t *Task) AppendPOComment(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if t.POComments == "" {
		t.POComments = note
		return
	}
	t.POComments = t.POComments + "\n" + note
}
