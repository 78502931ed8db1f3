package store

import (
	"context"
	"database/sql"

	"github.com/taipo/kanban-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task, assigning its ID and, when the task's
	// Position is zero, the next free position within its (project, stage)
	// group.
	Create(ctx context.Context, task *domain.Task) error

	// CreateMultiple saves a batch of tasks in input order, assigning each
	// its list index as position. It MUST run within a transaction; use
	// WithTx together with RunInTransaction.
	CreateMultiple(ctx context.Context, tasks []*domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByProject returns the project's tasks ordered by (position, id).
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error)

	// CountByStatus returns the number of the project's tasks currently in
	// the given stage. Used for WIP admission control; callers needing an
	// authoritative count must hold the project lock.
	CountByStatus(ctx context.Context, projectID int64, status string) (int, error)

	// UpdateStatus moves the task to the given stage.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id int64, status string) error

	// UpdatePlacement assigns both stage and position in one statement,
	// the write half of a reorder pass.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdatePlacement(ctx context.Context, id int64, status string, position int) error

	// UpdateContent modifies the task's title and description.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateContent(ctx context.Context, id int64, title, description string) error

	// SetImportant sets or clears the importance flag.
	// Returns ErrTaskNotFound if the task does not exist.
	SetImportant(ctx context.Context, id int64, important bool) error

	// AppendPOComment appends a note to the task's append-only comment log.
	// Returns ErrTaskNotFound if the task does not exist.
	AppendPOComment(ctx context.Context, id int64, note string) error

	// SetGeneratedCode stores the cached code-generation artifact.
	// Returns ErrTaskNotFound if the task does not exist.
	SetGeneratedCode(ctx context.Context, id int64, code string) error

	// Delete removes the task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteByProject removes every task belonging to the project and
	// returns the number removed.
	DeleteByProject(ctx context.Context, projectID int64) (int64, error)

	// FilterIDsByProject returns, preserving input order, the subset of ids
	// that belong to the given project. Unknown or foreign ids are dropped.
	FilterIDsByProject(ctx context.Context, projectID int64, ids []int64) ([]int64, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically via RunInTransaction.
	WithTx(tx *sql.Tx) TaskStore
}
