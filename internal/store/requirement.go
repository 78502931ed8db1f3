package store

import (
	"context"
	"database/sql"

	"github.com/taipo/kanban-api/internal/domain"
)

// RequirementStore defines the interface for the append-only specification
// log kept per project.
type RequirementStore interface {
	// Create appends a requirement record and assigns its ID.
	Create(ctx context.Context, req *domain.Requirement) error

	// ListByProject returns the project's requirements, newest first.
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Requirement, error)

	// WithTx returns a new RequirementStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) RequirementStore
}
