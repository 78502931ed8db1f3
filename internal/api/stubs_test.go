package api

import (
	"context"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/service"
	"github.com/taipo/kanban-api/internal/service/auth"
)

// Function-field stubs for the service interfaces. Unset fields return the
// matching not-found sentinel so handler error paths are exercised by
// default.

type stubProjectService struct {
	createFn   func(ctx context.Context, name string) (*domain.Project, error)
	getFn      func(ctx context.Context, id int64) (*domain.Project, error)
	getBoardFn func(ctx context.Context, id int64) (*service.Board, error)
	listFn     func(ctx context.Context) ([]*domain.Project, error)
	renameFn   func(ctx context.Context, id int64, newName string) error
	deleteFn   func(ctx context.Context, id int64) (int64, error)
}

func (s *stubProjectService) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	if s.createFn == nil {
		return nil, service.ErrProjectExists
	}
	return s.createFn(ctx, name)
}

func (s *stubProjectService) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	if s.getFn == nil {
		return nil, service.ErrProjectNotFound
	}
	return s.getFn(ctx, id)
}

func (s *stubProjectService) GetProjectByName(ctx context.Context, name string) (*domain.Project, error) {
	return nil, service.ErrProjectNotFound
}

func (s *stubProjectService) GetBoard(ctx context.Context, id int64) (*service.Board, error) {
	if s.getBoardFn == nil {
		return nil, service.ErrProjectNotFound
	}
	return s.getBoardFn(ctx, id)
}

func (s *stubProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s *stubProjectService) RenameProject(ctx context.Context, id int64, newName string) error {
	if s.renameFn == nil {
		return service.ErrProjectNotFound
	}
	return s.renameFn(ctx, id, newName)
}

func (s *stubProjectService) DeleteProject(ctx context.Context, id int64) (int64, error) {
	if s.deleteFn == nil {
		return 0, service.ErrProjectNotFound
	}
	return s.deleteFn(ctx, id)
}

type stubWorkflowService struct {
	stages *domain.StageSet

	addTaskFn          func(ctx context.Context, projectID int64, title, description, stageKey string, important bool) (*domain.Task, error)
	transitionFn       func(ctx context.Context, projectID, taskID int64, targetStage string) error
	reorderFn          func(ctx context.Context, projectID int64, stageKey string, taskIDs []int64) error
	listTasksFn        func(ctx context.Context, projectID int64) ([]*domain.Task, error)
	getTaskFn          func(ctx context.Context, projectID, taskID int64) (*domain.Task, error)
	editTaskFn         func(ctx context.Context, projectID, taskID int64, title, description string) error
	toggleImportanceFn func(ctx context.Context, projectID, taskID int64) (bool, error)
	deleteTaskFn       func(ctx context.Context, projectID, taskID int64) (string, error)
}

func (s *stubWorkflowService) AddTask(ctx context.Context, projectID int64, title, description, stageKey string, important bool) (*domain.Task, error) {
	if s.addTaskFn == nil {
		return nil, service.ErrProjectNotFound
	}
	return s.addTaskFn(ctx, projectID, title, description, stageKey, important)
}

func (s *stubWorkflowService) Transition(ctx context.Context, projectID, taskID int64, targetStage string) error {
	if s.transitionFn == nil {
		return service.ErrTaskNotFound
	}
	return s.transitionFn(ctx, projectID, taskID, targetStage)
}

func (s *stubWorkflowService) Reorder(ctx context.Context, projectID int64, stageKey string, taskIDs []int64) error {
	if s.reorderFn == nil {
		return service.ErrProjectNotFound
	}
	return s.reorderFn(ctx, projectID, stageKey, taskIDs)
}

func (s *stubWorkflowService) ListTasks(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	if s.listTasksFn == nil {
		return nil, nil
	}
	return s.listTasksFn(ctx, projectID)
}

func (s *stubWorkflowService) GetTask(ctx context.Context, projectID, taskID int64) (*domain.Task, error) {
	if s.getTaskFn == nil {
		return nil, service.ErrTaskNotFound
	}
	return s.getTaskFn(ctx, projectID, taskID)
}

func (s *stubWorkflowService) EditTask(ctx context.Context, projectID, taskID int64, title, description string) error {
	if s.editTaskFn == nil {
		return service.ErrTaskNotFound
	}
	return s.editTaskFn(ctx, projectID, taskID, title, description)
}

func (s *stubWorkflowService) ToggleImportance(ctx context.Context, projectID, taskID int64) (bool, error) {
	if s.toggleImportanceFn == nil {
		return false, service.ErrTaskNotFound
	}
	return s.toggleImportanceFn(ctx, projectID, taskID)
}

func (s *stubWorkflowService) DeleteTask(ctx context.Context, projectID, taskID int64) (string, error) {
	if s.deleteTaskFn == nil {
		return "", service.ErrTaskNotFound
	}
	return s.deleteTaskFn(ctx, projectID, taskID)
}

func (s *stubWorkflowService) ReplaceProjectTasks(ctx context.Context, projectID int64, drafts []domain.TaskDraft) (int, error) {
	return 0, service.ErrProjectNotFound
}

func (s *stubWorkflowService) Stages() *domain.StageSet {
	if s.stages == nil {
		return domain.DefaultStageSet()
	}
	return s.stages
}

type stubGenerationService struct {
	generateProjectTasksFn func(ctx context.Context, projectID int64, description string) (int, error)
	generateFromSpecFn     func(ctx context.Context, specText, fallbackName string) (*domain.Project, int, error)
	decomposeFn            func(ctx context.Context, projectID, taskID int64) (int, error)
	queryFn                func(ctx context.Context, projectID, taskID int64, question string) (string, error)
	generateCodeFn         func(ctx context.Context, projectID, taskID int64) (string, error)
	publishCodeFn          func(ctx context.Context, projectID, taskID int64) error
}

func (s *stubGenerationService) GenerateProjectTasks(ctx context.Context, projectID int64, description string) (int, error) {
	if s.generateProjectTasksFn == nil {
		return 0, service.ErrProjectNotFound
	}
	return s.generateProjectTasksFn(ctx, projectID, description)
}

func (s *stubGenerationService) GenerateFromSpecification(ctx context.Context, specText, fallbackName string) (*domain.Project, int, error) {
	if s.generateFromSpecFn == nil {
		return nil, 0, service.ErrNoTasksGenerated
	}
	return s.generateFromSpecFn(ctx, specText, fallbackName)
}

func (s *stubGenerationService) DecomposeTask(ctx context.Context, projectID, taskID int64) (int, error) {
	if s.decomposeFn == nil {
		return 0, service.ErrTaskNotFound
	}
	return s.decomposeFn(ctx, projectID, taskID)
}

func (s *stubGenerationService) QueryTask(ctx context.Context, projectID, taskID int64, question string) (string, error) {
	if s.queryFn == nil {
		return "", service.ErrTaskNotFound
	}
	return s.queryFn(ctx, projectID, taskID, question)
}

func (s *stubGenerationService) GenerateCode(ctx context.Context, projectID, taskID int64) (string, error) {
	if s.generateCodeFn == nil {
		return "", service.ErrTaskNotFound
	}
	return s.generateCodeFn(ctx, projectID, taskID)
}

func (s *stubGenerationService) PublishCode(ctx context.Context, projectID, taskID int64) error {
	if s.publishCodeFn == nil {
		return service.ErrTaskNotFound
	}
	return s.publishCodeFn(ctx, projectID, taskID)
}

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*domain.User, string, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.User, string, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	if s.registerFn == nil {
		return nil, "", auth.ErrUsernameTaken
	}
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if s.loginFn == nil {
		return nil, "", auth.ErrInvalidCredentials
	}
	return s.loginFn(ctx, username, password)
}
