package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/platform/logger"
	"github.com/taipo/kanban-api/internal/store"
)

// taskColumns is the column list every task SELECT uses, in scan order.
const taskColumns = `id, project_id, title, description, status, position,
	important, is_subtask, parent_task_id, po_comments, generated_code, created_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanTask scans one task row using the taskColumns order.
func scanTask(row interface{ Scan(...any) error }) (*domain.Task, error) {
	var task domain.Task
	var parentID sql.NullInt64

	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Position,
		&task.Important,
		&task.Subtask,
		&parentID,
		&task.POComments,
		&task.GeneratedCode,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		task.ParentTaskID = &parentID.Int64
	}
	return &task, nil
}

// nullableParent converts an optional parent task ID for binding.
func nullableParent(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// Create implements store.TaskStore.Create
// It saves a new task and assigns its generated ID. When the task's
// Position is zero the next free position within its (project, status)
// group is assigned instead, so new tasks land at the bottom of their
// column.
// Returns store.ErrInvalidEntity if the project does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("project_id", task.ProjectID))
		return err
	}

	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO tasks (project_id, title, description, status, position,
			important, is_subtask, parent_task_id, po_comments, generated_code, created_at)
		VALUES ($1, $2, $3, $4,
			CASE WHEN $5 > 0 THEN $5
				ELSE (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks
					WHERE project_id = $1 AND status = $4)
			END,
			$6, $7, $8, $9, $10, $11)
		RETURNING id, position
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Position,
		task.Important,
		task.Subtask,
		nullableParent(task.ParentTaskID),
		task.POComments,
		task.GeneratedCode,
		task.CreatedAt,
	).Scan(&task.ID, &task.Position)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.Int64("project_id", task.ProjectID))
			return fmt.Errorf("%w: project with ID %d not found",
				store.ErrInvalidEntity, task.ProjectID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("project_id", task.ProjectID))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("project_id", task.ProjectID),
		slog.String("status", task.Status))
	return nil
}

// CreateMultiple implements store.TaskStore.CreateMultiple
// It saves a batch of tasks in input order, assigning each its list index
// as position. The caller is responsible for running it inside a
// transaction via WithTx so a failed insert leaves no partial batch.
func (s *PostgresTaskStore) CreateMultiple(ctx context.Context, tasks []*domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(tasks) == 0 {
		return nil
	}

	query := `
		INSERT INTO tasks (project_id, title, description, status, position,
			important, is_subtask, parent_task_id, po_comments, generated_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	now := time.Now().UTC()
	for i, task := range tasks {
		if err := task.Validate(); err != nil {
			log.Warn("task validation failed during batch create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return err
		}
		if task.CreatedAt.IsZero() {
			task.CreatedAt = now
		}
		task.Position = i

		err := s.db.QueryRowContext(
			ctx,
			query,
			task.ProjectID,
			task.Title,
			task.Description,
			task.Status,
			task.Position,
			task.Important,
			task.Subtask,
			nullableParent(task.ParentTaskID),
			task.POComments,
			task.GeneratedCode,
			task.CreatedAt,
		).Scan(&task.ID)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: project with ID %d not found",
					store.ErrInvalidEntity, task.ProjectID)
			}
			log.Error("failed to create task in batch",
				slog.String("error", err.Error()),
				slog.Int("index", i),
				slog.Int64("project_id", task.ProjectID))
			return MapError(err)
		}
	}

	log.Info("task batch created successfully",
		slog.Int("count", len(tasks)),
		slog.Int64("project_id", tasks[0].ProjectID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	return task, nil
}

// ListByProject implements store.TaskStore.ListByProject
// It returns the project's tasks ordered by (position, id) so board
// rendering is stable even when positions collide.
func (s *PostgresTaskStore) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE project_id = $1
		ORDER BY position, id`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("project_id", projectID))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return tasks, nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(ctx context.Context, projectID int64, status string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM tasks
		WHERE project_id = $1 AND status = $2
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, projectID, status).Scan(&count)
	if err != nil {
		log.Error("failed to count tasks by status",
			slog.String("error", err.Error()),
			slog.Int64("project_id", projectID),
			slog.String("status", status))
		return 0, MapError(err)
	}

	return count, nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.String("status", status))
		return MapError(err)
	}

	if err := checkTaskAffected(result); err != nil {
		log.Debug("task not found for status update", slog.Int64("task_id", id))
		return err
	}

	log.Info("task status updated successfully",
		slog.Int64("task_id", id),
		slog.String("status", status))
	return nil
}

// UpdatePlacement implements store.TaskStore.UpdatePlacement
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) UpdatePlacement(ctx context.Context, id int64, status string, position int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1, position = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, status, position, id)
	if err != nil {
		log.Error("failed to update task placement",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.String("status", status),
			slog.Int("position", position))
		return MapError(err)
	}

	if err := checkTaskAffected(result); err != nil {
		log.Debug("task not found for placement update", slog.Int64("task_id", id))
		return err
	}

	return nil
}

// UpdateContent implements store.TaskStore.UpdateContent
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) UpdateContent(ctx context.Context, id int64, title, description string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title = $1, description = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, title, description, id)
	if err != nil {
		log.Error("failed to update task content",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := checkTaskAffected(result); err != nil {
		log.Debug("task not found for content update", slog.Int64("task_id", id))
		return err
	}

	log.Info("task content updated successfully", slog.Int64("task_id", id))
	return nil
}

// SetImportant implements store.TaskStore.SetImportant
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) SetImportant(ctx context.Context, id int64, important bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET important = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, important, id)
	if err != nil {
		log.Error("failed to set task importance",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := checkTaskAffected(result); err != nil {
		log.Debug("task not found for importance update", slog.Int64("task_id", id))
		return err
	}

	log.Info("task importance updated",
		slog.Int64("task_id", id),
		slog.Bool("important", important))
	return nil
}

// AppendPOComment implements store.TaskStore.AppendPOComment
// The comment log is append-only; concatenation happens in SQL so
// concurrent appends never overwrite each other.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) AppendPOComment(ctx context.Context, id int64, note string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET po_comments = CASE
			WHEN po_comments = '' THEN $1
			ELSE po_comments || E'\n' || $1
		END
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, note, id)
	if err != nil {
		log.Error("failed to append task comment",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := checkTaskAffected(result); err != nil {
		log.Debug("task not found for comment append", slog.Int64("task_id", id))
		return err
	}

	log.Info("task comment appended", slog.Int64("task_id", id))
	return nil
}

// SetGeneratedCode implements store.TaskStore.SetGeneratedCode
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) SetGeneratedCode(ctx context.Context, id int64, code string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET generated_code = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, code, id)
	if err != nil {
		log.Error("failed to store generated code",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := checkTaskAffected(result); err != nil {
		log.Debug("task not found for generated code update", slog.Int64("task_id", id))
		return err
	}

	log.Info("generated code stored", slog.Int64("task_id", id))
	return nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := checkTaskAffected(result); err != nil {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return err
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// DeleteByProject implements store.TaskStore.DeleteByProject
// It removes every task belonging to the project and returns the number
// removed. Zero is not an error; an empty board is a valid state.
func (s *PostgresTaskStore) DeleteByProject(ctx context.Context, projectID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE project_id = $1
	`

	result, err := s.db.ExecContext(ctx, query, projectID)
	if err != nil {
		log.Error("failed to delete project tasks",
			slog.String("error", err.Error()),
			slog.Int64("project_id", projectID))
		return 0, MapError(err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("project_id", projectID))
		return 0, err
	}

	log.Info("project tasks deleted",
		slog.Int64("project_id", projectID),
		slog.Int64("count", count))
	return count, nil
}

// FilterIDsByProject implements store.TaskStore.FilterIDsByProject
// It returns, preserving input order, the subset of ids belonging to the
// given project. IDs from other projects and unknown ids are dropped.
func (s *PostgresTaskStore) FilterIDsByProject(ctx context.Context, projectID int64, ids []int64) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []int64{}, nil
	}

	query := `
		SELECT id
		FROM tasks
		WHERE project_id = $1 AND id = ANY($2)
	`

	rows, err := s.db.QueryContext(ctx, query, projectID, ids)
	if err != nil {
		log.Error("failed to filter task ids",
			slog.String("error", err.Error()),
			slog.Int64("project_id", projectID))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	owned := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan task id", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		owned[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	filtered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := owned[id]; ok {
			filtered = append(filtered, id)
		}
	}

	if len(filtered) < len(ids) {
		log.Warn("dropped task ids not belonging to project",
			slog.Int64("project_id", projectID),
			slog.Int("requested", len(ids)),
			slog.Int("kept", len(filtered)))
	}
	return filtered, nil
}

// checkTaskAffected converts a zero-rows-affected result into
// store.ErrTaskNotFound.
func checkTaskAffected(result sql.Result) error {
	if err := CheckRowsAffected(result, "task"); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrTaskNotFound
		}
		return err
	}
	return nil
}
