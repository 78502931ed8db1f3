package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/platform/logger"
	"github.com/taipo/kanban-api/internal/store"
)

// PostgresProjectStore implements the store.ProjectStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProjectStore creates a new PostgreSQL implementation of the
// ProjectStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProjectStore(db store.DBTX, logger *slog.Logger) *PostgresProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

// Ensure PostgresProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*PostgresProjectStore)(nil)

// WithTx implements store.ProjectStore.WithTx
func (s *PostgresProjectStore) WithTx(tx *sql.Tx) store.ProjectStore {
	return &PostgresProjectStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProjectStore.Create
// It saves a new project and assigns its generated ID.
// Returns store.ErrProjectNameExists if the name is already taken.
func (s *PostgresProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during create",
			slog.String("error", err.Error()),
			slog.String("project_name", project.Name))
		return err
	}

	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO projects (name, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, project.Name, project.CreatedAt).
		Scan(&project.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate project name during create",
				slog.String("project_name", project.Name))
			return MapUniqueViolation(err, store.ErrProjectNameExists)
		}
		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("project_name", project.Name))
		return MapError(err)
	}

	log.Info("project created successfully",
		slog.Int64("project_id", project.ID),
		slog.String("project_name", project.Name))
	return nil
}

// GetByID implements store.ProjectStore.GetByID
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found", slog.Int64("project_id", id))
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project by ID",
			slog.String("error", err.Error()),
			slog.Int64("project_id", id))
		return nil, MapError(err)
	}

	return &project, nil
}

// GetByName implements store.ProjectStore.GetByName
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at
		FROM projects
		WHERE name = $1
	`

	var project domain.Project
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&project.ID,
		&project.Name,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found", slog.String("project_name", name))
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project by name",
			slog.String("error", err.Error()),
			slog.String("project_name", name))
		return nil, MapError(err)
	}

	return &project, nil
}

// List implements store.ProjectStore.List
// It returns all projects ordered by name.
func (s *PostgresProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at
		FROM projects
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	projects := []*domain.Project{}
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.CreatedAt); err != nil {
			log.Error("failed to scan project row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return projects, nil
}

// Rename implements store.ProjectStore.Rename
// Returns store.ErrProjectNotFound if the project does not exist and
// store.ErrProjectNameExists if the new name is already taken.
func (s *PostgresProjectStore) Rename(ctx context.Context, id int64, newName string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE projects
		SET name = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, newName, id)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate project name during rename",
				slog.Int64("project_id", id),
				slog.String("project_name", newName))
			return MapUniqueViolation(err, store.ErrProjectNameExists)
		}
		log.Error("failed to rename project",
			slog.String("error", err.Error()),
			slog.Int64("project_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "project"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrProjectNotFound
		}
		return err
	}

	log.Info("project renamed successfully",
		slog.Int64("project_id", id),
		slog.String("project_name", newName))
	return nil
}

// Delete implements store.ProjectStore.Delete
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM projects
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete project",
			slog.String("error", err.Error()),
			slog.Int64("project_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "project"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrProjectNotFound
		}
		return err
	}

	log.Info("project deleted successfully", slog.Int64("project_id", id))
	return nil
}

// Lock implements store.ProjectStore.Lock
// It acquires a row-level write lock on the project for the remainder of
// the surrounding transaction. Calling it outside a transaction locks
// nothing useful; workflow services call it through WithTx.
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) Lock(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id
		FROM projects
		WHERE id = $1
		FOR UPDATE
	`

	var lockedID int64
	err := s.db.QueryRowContext(ctx, query, id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found for lock", slog.Int64("project_id", id))
			return store.ErrProjectNotFound
		}
		log.Error("failed to lock project",
			slog.String("error", err.Error()),
			slog.Int64("project_id", id))
		return MapError(err)
	}

	log.Debug("project locked", slog.Int64("project_id", id))
	return nil
}
