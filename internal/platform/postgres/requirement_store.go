package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/platform/logger"
	"github.com/taipo/kanban-api/internal/store"
)

// PostgresRequirementStore implements the store.RequirementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRequirementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRequirementStore creates a new PostgreSQL implementation of
// the RequirementStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresRequirementStore(db store.DBTX, logger *slog.Logger) *PostgresRequirementStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRequirementStore{
		db:     db,
		logger: logger.With(slog.String("component", "requirement_store")),
	}
}

// Ensure PostgresRequirementStore implements store.RequirementStore interface
var _ store.RequirementStore = (*PostgresRequirementStore)(nil)

// WithTx implements store.RequirementStore.WithTx
func (s *PostgresRequirementStore) WithTx(tx *sql.Tx) store.RequirementStore {
	return &PostgresRequirementStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.RequirementStore.Create
// Returns store.ErrInvalidEntity if the project does not exist.
func (s *PostgresRequirementStore) Create(ctx context.Context, req *domain.Requirement) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := req.Validate(); err != nil {
		log.Warn("requirement validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("project_id", req.ProjectID))
		return err
	}

	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO requirements (project_id, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, req.ProjectID, req.Content, req.CreatedAt).
		Scan(&req.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during requirement creation",
				slog.Int64("project_id", req.ProjectID))
			return fmt.Errorf("%w: project with ID %d not found",
				store.ErrInvalidEntity, req.ProjectID)
		}
		log.Error("failed to create requirement",
			slog.String("error", err.Error()),
			slog.Int64("project_id", req.ProjectID))
		return MapError(err)
	}

	log.Info("requirement recorded",
		slog.Int64("requirement_id", req.ID),
		slog.Int64("project_id", req.ProjectID))
	return nil
}

// ListByProject implements store.RequirementStore.ListByProject
// It returns the project's requirements, newest first.
func (s *PostgresRequirementStore) ListByProject(ctx context.Context, projectID int64) ([]*domain.Requirement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, project_id, content, created_at
		FROM requirements
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		log.Error("failed to list requirements",
			slog.String("error", err.Error()),
			slog.Int64("project_id", projectID))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	reqs := []*domain.Requirement{}
	for rows.Next() {
		var req domain.Requirement
		if err := rows.Scan(&req.ID, &req.ProjectID, &req.Content, &req.CreatedAt); err != nil {
			log.Error("failed to scan requirement row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		reqs = append(reqs, &req)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return reqs, nil
}
