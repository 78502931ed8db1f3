package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/store"
)

// WorkflowService provides the task workflow state machine: stage
// transitions with WIP admission control, ordering, and the task CRUD
// surface of the board.
type WorkflowService interface {
	// AddTask creates a new task in the given stage, placing it at the
	// bottom of the stage's column with the given importance flag. A
	// WIP-limited target stage is subject to admission control.
	// Returns ErrProjectNotFound, ErrUnknownStage, or ErrWipLimitExceeded.
	AddTask(ctx context.Context, projectID int64, title, description, stageKey string, important bool) (*domain.Task, error)

	// Transition moves a task to the target stage. When the target stage
	// carries a WIP limit, the occupancy count and the status update run
	// under the project's row lock in a single transaction, so two
	// concurrent transitions cannot both slip under the limit.
	// Returns ErrTaskNotFound, ErrUnknownStage, or ErrWipLimitExceeded.
	Transition(ctx context.Context, projectID, taskID int64, targetStage string) error

	// Reorder assigns status=stageKey and position=index to the given
	// tasks in list order, all in one transaction. IDs not belonging to
	// the project are silently dropped. Reorder deliberately bypasses WIP
	// admission control; an overshoot is logged, not rejected.
	// Returns ErrProjectNotFound or ErrUnknownStage.
	Reorder(ctx context.Context, projectID int64, stageKey string, taskIDs []int64) error

	// ListTasks returns the project's tasks ordered by (position, id).
	ListTasks(ctx context.Context, projectID int64) ([]*domain.Task, error)

	// GetTask retrieves a single task scoped to the project.
	// Returns ErrTaskNotFound for unknown ids and ids of other projects.
	GetTask(ctx context.Context, projectID, taskID int64) (*domain.Task, error)

	// EditTask updates a task's title and description.
	// Returns ErrTaskNotFound.
	EditTask(ctx context.Context, projectID, taskID int64, title, description string) error

	// ToggleImportance flips the task's importance flag and returns the
	// new value.
	// Returns ErrTaskNotFound.
	ToggleImportance(ctx context.Context, projectID, taskID int64) (bool, error)

	// DeleteTask removes a task and returns the stage it was in
	// immediately before deletion.
	// Returns ErrTaskNotFound.
	DeleteTask(ctx context.Context, projectID, taskID int64) (string, error)

	// ReplaceProjectTasks atomically deletes the project's tasks and
	// inserts the given drafts in order, returning the count inserted.
	// A failure rolls the whole replacement back; the board never shows a
	// mix of old and new tasks.
	// Returns ErrProjectNotFound.
	ReplaceProjectTasks(ctx context.Context, projectID int64, drafts []domain.TaskDraft) (int, error)

	// Stages returns the configured stage set.
	Stages() *domain.StageSet
}

// workflowServiceImpl implements the WorkflowService interface
type workflowServiceImpl struct {
	db          *sql.DB
	projectRepo store.ProjectStore
	taskRepo    store.TaskStore
	stages      *domain.StageSet
	logger      *slog.Logger
}

// NewWorkflowService creates a new WorkflowService.
// It returns an error if any of the required dependencies are nil.
func NewWorkflowService(
	db *sql.DB,
	projectRepo store.ProjectStore,
	taskRepo store.TaskStore,
	stages *domain.StageSet,
	logger *slog.Logger,
) (WorkflowService, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if projectRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "projectRepo cannot be nil"}
	}
	if taskRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "taskRepo cannot be nil"}
	}
	if stages == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "stages cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &workflowServiceImpl{
		db:          db,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		stages:      stages,
		logger:      logger.With("component", "workflow_service"),
	}, nil
}

// Stages returns the configured stage set.
func (s *workflowServiceImpl) Stages() *domain.StageSet {
	return s.stages
}

// resolveStage validates a stage key against the configured set.
func (s *workflowServiceImpl) resolveStage(key string) (domain.Stage, error) {
	stage, ok := s.stages.Get(key)
	if !ok {
		return domain.Stage{}, fmt.Errorf("%w: %q", ErrUnknownStage, key)
	}
	return stage, nil
}

// admit enforces the WIP limit for a stage. It must run with the project
// row lock held; the lock is what makes the count authoritative against
// concurrent transitions.
func (s *workflowServiceImpl) admit(
	ctx context.Context,
	taskRepo store.TaskStore,
	projectID int64,
	stage domain.Stage,
) error {
	if !stage.Limited() {
		return nil
	}

	count, err := taskRepo.CountByStatus(ctx, projectID, stage.Key)
	if err != nil {
		return err
	}
	if count >= stage.WIPLimit {
		return &WipLimitError{Stage: stage.Key, Limit: stage.WIPLimit, Count: count}
	}
	return nil
}

// AddTask creates a new task in the given stage.
func (s *workflowServiceImpl) AddTask(
	ctx context.Context,
	projectID int64,
	title, description, stageKey string,
	important bool,
) (*domain.Task, error) {
	stage, err := s.resolveStage(stageKey)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(projectID, title, description, stage.Key)
	if err != nil {
		return nil, err
	}
	task.Important = important

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProjects := s.projectRepo.WithTx(tx)
		txTasks := s.taskRepo.WithTx(tx)

		if err := txProjects.Lock(ctx, projectID); err != nil {
			return err
		}
		if err := s.admit(ctx, txTasks, projectID, stage); err != nil {
			return err
		}
		return txTasks.Create(ctx, task)
	})
	if err != nil {
		return nil, s.mapWorkflowError("add_task", err)
	}

	s.logger.Info("task added",
		"task_id", task.ID,
		"project_id", projectID,
		"stage", stage.Key)
	return task, nil
}

// Transition moves a task to the target stage under admission control.
func (s *workflowServiceImpl) Transition(
	ctx context.Context,
	projectID, taskID int64,
	targetStage string,
) error {
	stage, err := s.resolveStage(targetStage)
	if err != nil {
		return err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProjects := s.projectRepo.WithTx(tx)
		txTasks := s.taskRepo.WithTx(tx)

		// The lock serializes every transition within the project, closing
		// the window between the occupancy count and the status write.
		if err := txProjects.Lock(ctx, projectID); err != nil {
			return err
		}

		task, err := txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task.ProjectID != projectID {
			return store.ErrTaskNotFound
		}
		if task.Status == stage.Key {
			return nil
		}

		if err := s.admit(ctx, txTasks, projectID, stage); err != nil {
			return err
		}

		return txTasks.UpdateStatus(ctx, taskID, stage.Key)
	})
	if err != nil {
		return s.mapWorkflowError("transition_task", err)
	}

	s.logger.Info("task transitioned",
		"task_id", taskID,
		"project_id", projectID,
		"stage", stage.Key)
	return nil
}

// Reorder assigns status and position to the given tasks in list order.
func (s *workflowServiceImpl) Reorder(
	ctx context.Context,
	projectID int64,
	stageKey string,
	taskIDs []int64,
) error {
	stage, err := s.resolveStage(stageKey)
	if err != nil {
		return err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProjects := s.projectRepo.WithTx(tx)
		txTasks := s.taskRepo.WithTx(tx)

		if err := txProjects.Lock(ctx, projectID); err != nil {
			return err
		}

		ids, err := txTasks.FilterIDsByProject(ctx, projectID, taskIDs)
		if err != nil {
			return err
		}

		for i, id := range ids {
			if err := txTasks.UpdatePlacement(ctx, id, stage.Key, i); err != nil {
				return err
			}
		}

		// Reorder is the bulk drag-and-drop path and does not re-run
		// admission control. An overshoot is worth knowing about.
		if stage.Limited() {
			count, err := txTasks.CountByStatus(ctx, projectID, stage.Key)
			if err != nil {
				return err
			}
			if count > stage.WIPLimit {
				s.logger.Warn("reorder overshot stage WIP limit",
					"project_id", projectID,
					"stage", stage.Key,
					"limit", stage.WIPLimit,
					"count", count)
			}
		}
		return nil
	})
	if err != nil {
		return s.mapWorkflowError("reorder_tasks", err)
	}

	s.logger.Info("tasks reordered",
		"project_id", projectID,
		"stage", stage.Key,
		"count", len(taskIDs))
	return nil
}

// ListTasks returns the project's tasks in board order.
func (s *workflowServiceImpl) ListTasks(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, s.mapWorkflowError("list_tasks", err)
	}
	return tasks, nil
}

// GetTask retrieves a single task scoped to the project.
func (s *workflowServiceImpl) GetTask(ctx context.Context, projectID, taskID int64) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, s.mapWorkflowError("get_task", err)
	}
	if task.ProjectID != projectID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// EditTask updates a task's title and description.
func (s *workflowServiceImpl) EditTask(
	ctx context.Context,
	projectID, taskID int64,
	title, description string,
) error {
	if _, err := s.GetTask(ctx, projectID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.UpdateContent(ctx, taskID, title, description); err != nil {
		return s.mapWorkflowError("edit_task", err)
	}
	return nil
}

// ToggleImportance flips the task's importance flag.
func (s *workflowServiceImpl) ToggleImportance(ctx context.Context, projectID, taskID int64) (bool, error) {
	var important bool

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskRepo.WithTx(tx)

		task, err := txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task.ProjectID != projectID {
			return store.ErrTaskNotFound
		}

		important = !task.Important
		return txTasks.SetImportant(ctx, taskID, important)
	})
	if err != nil {
		return false, s.mapWorkflowError("toggle_importance", err)
	}

	return important, nil
}

// DeleteTask removes a task and returns its prior stage.
func (s *workflowServiceImpl) DeleteTask(ctx context.Context, projectID, taskID int64) (string, error) {
	var priorStage string

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskRepo.WithTx(tx)

		task, err := txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task.ProjectID != projectID {
			return store.ErrTaskNotFound
		}

		priorStage = task.Status
		return txTasks.Delete(ctx, taskID)
	})
	if err != nil {
		return "", s.mapWorkflowError("delete_task", err)
	}

	s.logger.Info("task deleted",
		"task_id", taskID,
		"project_id", projectID,
		"prior_stage", priorStage)
	return priorStage, nil
}

// ReplaceProjectTasks atomically swaps the project's task set for the
// given drafts.
func (s *workflowServiceImpl) ReplaceProjectTasks(
	ctx context.Context,
	projectID int64,
	drafts []domain.TaskDraft,
) (int, error) {
	tasks := make([]*domain.Task, 0, len(drafts))
	for _, draft := range drafts {
		status := draft.Status
		if !s.stages.Contains(status) {
			status = s.stages.Initial().Key
		}

		task, err := domain.NewTask(projectID, draft.Title, draft.Description, status)
		if err != nil {
			return 0, err
		}
		task.Important = draft.Important()
		tasks = append(tasks, task)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProjects := s.projectRepo.WithTx(tx)
		txTasks := s.taskRepo.WithTx(tx)

		if err := txProjects.Lock(ctx, projectID); err != nil {
			return err
		}
		if _, err := txTasks.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		return txTasks.CreateMultiple(ctx, tasks)
	})
	if err != nil {
		return 0, s.mapWorkflowError("replace_project_tasks", err)
	}

	s.logger.Info("project tasks replaced",
		"project_id", projectID,
		"count", len(tasks))
	return len(tasks), nil
}

// mapWorkflowError translates store-level errors to service sentinels and
// wraps everything else.
func (s *workflowServiceImpl) mapWorkflowError(operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, store.ErrProjectNotFound):
		return ErrProjectNotFound
	case errors.Is(err, ErrWipLimitExceeded):
		return err
	case errors.Is(err, domain.ErrValidation):
		return err
	}

	s.logger.Error("workflow operation failed",
		"operation", operation,
		"error", err)
	return &ServiceError{
		Operation: operation,
		Message:   "storage operation failed",
		Err:       err,
	}
}
