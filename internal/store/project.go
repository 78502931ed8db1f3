package store

import (
	"context"
	"database/sql"

	"github.com/taipo/kanban-api/internal/domain"
)

// ProjectStore defines the interface for project data persistence.
type ProjectStore interface {
	// Create saves a new project and assigns its ID.
	// Returns ErrProjectNameExists if the name is already taken.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project by its unique ID.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Project, error)

	// GetByName retrieves a project by its unique name.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByName(ctx context.Context, name string) (*domain.Project, error)

	// List returns all projects ordered by name.
	List(ctx context.Context) ([]*domain.Project, error)

	// Rename changes the project's name.
	// Returns ErrProjectNotFound if the project does not exist and
	// ErrProjectNameExists if the new name is already taken.
	Rename(ctx context.Context, id int64, newName string) error

	// Delete removes the project. Task rows are removed by the store in the
	// same operation; the schema's ON DELETE CASCADE is a backstop, not the
	// mechanism the application relies on.
	// Returns ErrProjectNotFound if the project does not exist.
	Delete(ctx context.Context, id int64) error

	// Lock acquires a row-level write lock on the project for the duration
	// of the surrounding transaction, serializing concurrent workflow
	// operations on the same project. Must be called within a transaction.
	// Returns ErrProjectNotFound if the project does not exist.
	Lock(ctx context.Context, id int64) error

	// WithTx returns a new ProjectStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically via RunInTransaction.
	WithTx(tx *sql.Tx) ProjectStore
}
