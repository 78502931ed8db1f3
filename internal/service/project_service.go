package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/store"
)

// Board is a project together with its ordered task list, the unit the
// API renders as a kanban view.
type Board struct {
	Project *domain.Project
	Tasks   []*domain.Task
}

// ProjectService provides project lifecycle operations.
type ProjectService interface {
	// CreateProject creates a new, empty project with a unique name.
	// Returns ErrProjectExists if the name is already taken.
	CreateProject(ctx context.Context, name string) (*domain.Project, error)

	// GetProject retrieves a project by ID.
	// Returns ErrProjectNotFound if it does not exist.
	GetProject(ctx context.Context, id int64) (*domain.Project, error)

	// GetProjectByName retrieves a project by its unique name.
	// Returns ErrProjectNotFound if it does not exist.
	GetProjectByName(ctx context.Context, name string) (*domain.Project, error)

	// GetBoard retrieves a project together with its tasks ordered by
	// (position, id).
	// Returns ErrProjectNotFound if the project does not exist.
	GetBoard(ctx context.Context, id int64) (*Board, error)

	// ListProjects returns all projects ordered by name.
	ListProjects(ctx context.Context) ([]*domain.Project, error)

	// RenameProject changes a project's name. Tasks reference the project
	// by stable ID, so no task rows change.
	// Returns ErrProjectNotFound or ErrProjectExists.
	RenameProject(ctx context.Context, id int64, newName string) error

	// DeleteProject removes the project and all of its tasks in one
	// transaction, returning the number of tasks removed.
	// Returns ErrProjectNotFound if the project does not exist.
	DeleteProject(ctx context.Context, id int64) (int64, error)
}

// projectServiceImpl implements the ProjectService interface
type projectServiceImpl struct {
	db          *sql.DB
	projectRepo store.ProjectStore
	taskRepo    store.TaskStore
	logger      *slog.Logger
}

// NewProjectService creates a new ProjectService.
// It returns an error if any of the required dependencies are nil.
func NewProjectService(
	db *sql.DB,
	projectRepo store.ProjectStore,
	taskRepo store.TaskStore,
	logger *slog.Logger,
) (ProjectService, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if projectRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "projectRepo cannot be nil"}
	}
	if taskRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "taskRepo cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &projectServiceImpl{
		db:          db,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		logger:      logger.With("component", "project_service"),
	}, nil
}

// CreateProject creates a new, empty project with a unique name.
func (s *projectServiceImpl) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	project, err := domain.NewProject(name)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, store.ErrProjectNameExists) {
			return nil, ErrProjectExists
		}
		s.logger.Error("failed to create project",
			"error", err,
			"project_name", name)
		return nil, &ServiceError{
			Operation: "create_project",
			Message:   "failed to save project",
			Err:       err,
		}
	}

	s.logger.Info("project created",
		"project_id", project.ID,
		"project_name", project.Name)
	return project, nil
}

// GetProject retrieves a project by ID.
func (s *projectServiceImpl) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("failed to retrieve project",
			"error", err,
			"project_id", id)
		return nil, &ServiceError{
			Operation: "get_project",
			Message:   "failed to retrieve project",
			Err:       err,
		}
	}
	return project, nil
}

// GetProjectByName retrieves a project by its unique name.
func (s *projectServiceImpl) GetProjectByName(ctx context.Context, name string) (*domain.Project, error) {
	project, err := s.projectRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("failed to retrieve project by name",
			"error", err,
			"project_name", name)
		return nil, &ServiceError{
			Operation: "get_project_by_name",
			Message:   "failed to retrieve project",
			Err:       err,
		}
	}
	return project, nil
}

// GetBoard retrieves a project together with its ordered task list.
func (s *projectServiceImpl) GetBoard(ctx context.Context, id int64) (*Board, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(ctx, id)
	if err != nil {
		s.logger.Error("failed to list board tasks",
			"error", err,
			"project_id", id)
		return nil, &ServiceError{
			Operation: "get_board",
			Message:   "failed to list tasks",
			Err:       err,
		}
	}

	return &Board{Project: project, Tasks: tasks}, nil
}

// ListProjects returns all projects ordered by name.
func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		return nil, &ServiceError{
			Operation: "list_projects",
			Message:   "failed to list projects",
			Err:       err,
		}
	}
	return projects, nil
}

// RenameProject changes a project's name.
func (s *projectServiceImpl) RenameProject(ctx context.Context, id int64, newName string) error {
	// Validate the new name the same way project creation does.
	if _, err := domain.NewProject(newName); err != nil {
		return err
	}

	if err := s.projectRepo.Rename(ctx, id, newName); err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return ErrProjectNotFound
		}
		if errors.Is(err, store.ErrProjectNameExists) {
			return ErrProjectExists
		}
		s.logger.Error("failed to rename project",
			"error", err,
			"project_id", id,
			"new_name", newName)
		return &ServiceError{
			Operation: "rename_project",
			Message:   "failed to rename project",
			Err:       err,
		}
	}

	s.logger.Info("project renamed",
		"project_id", id,
		"new_name", newName)
	return nil
}

// DeleteProject removes the project and all of its tasks in one
// transaction so a failure leaves the board untouched.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, id int64) (int64, error) {
	var removed int64

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProjects := s.projectRepo.WithTx(tx)
		txTasks := s.taskRepo.WithTx(tx)

		if err := txProjects.Lock(ctx, id); err != nil {
			return err
		}

		count, err := txTasks.DeleteByProject(ctx, id)
		if err != nil {
			return err
		}
		removed = count

		return txProjects.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return 0, ErrProjectNotFound
		}
		s.logger.Error("failed to delete project",
			"error", err,
			"project_id", id)
		return 0, &ServiceError{
			Operation: "delete_project",
			Message:   "failed to delete project",
			Err:       err,
		}
	}

	s.logger.Info("project deleted",
		"project_id", id,
		"tasks_removed", removed)
	return removed, nil
}
