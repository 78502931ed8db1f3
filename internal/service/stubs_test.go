package service

import (
	"context"
	"database/sql"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/store"
)

// Function-field stubs for the store and generation interfaces. Unset
// fields return zero values, so each test only wires the calls it cares
// about.

type stubProjectStore struct {
	createFn    func(ctx context.Context, project *domain.Project) error
	getByIDFn   func(ctx context.Context, id int64) (*domain.Project, error)
	getByNameFn func(ctx context.Context, name string) (*domain.Project, error)
	listFn      func(ctx context.Context) ([]*domain.Project, error)
	renameFn    func(ctx context.Context, id int64, newName string) error
	deleteFn    func(ctx context.Context, id int64) error
	lockFn      func(ctx context.Context, id int64) error
}

func (s *stubProjectStore) Create(ctx context.Context, project *domain.Project) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, project)
}

func (s *stubProjectStore) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	if s.getByIDFn == nil {
		return nil, store.ErrProjectNotFound
	}
	return s.getByIDFn(ctx, id)
}

func (s *stubProjectStore) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	if s.getByNameFn == nil {
		return nil, store.ErrProjectNotFound
	}
	return s.getByNameFn(ctx, name)
}

func (s *stubProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s *stubProjectStore) Rename(ctx context.Context, id int64, newName string) error {
	if s.renameFn == nil {
		return nil
	}
	return s.renameFn(ctx, id, newName)
}

func (s *stubProjectStore) Delete(ctx context.Context, id int64) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

func (s *stubProjectStore) Lock(ctx context.Context, id int64) error {
	if s.lockFn == nil {
		return nil
	}
	return s.lockFn(ctx, id)
}

func (s *stubProjectStore) WithTx(tx *sql.Tx) store.ProjectStore { return s }

type stubTaskStore struct {
	createFn             func(ctx context.Context, task *domain.Task) error
	createMultipleFn     func(ctx context.Context, tasks []*domain.Task) error
	getByIDFn            func(ctx context.Context, id int64) (*domain.Task, error)
	listByProjectFn      func(ctx context.Context, projectID int64) ([]*domain.Task, error)
	countByStatusFn      func(ctx context.Context, projectID int64, status string) (int, error)
	updateStatusFn       func(ctx context.Context, id int64, status string) error
	updatePlacementFn    func(ctx context.Context, id int64, status string, position int) error
	updateContentFn      func(ctx context.Context, id int64, title, description string) error
	setImportantFn       func(ctx context.Context, id int64, important bool) error
	appendPOCommentFn    func(ctx context.Context, id int64, note string) error
	setGeneratedCodeFn   func(ctx context.Context, id int64, code string) error
	deleteFn             func(ctx context.Context, id int64) error
	deleteByProjectFn    func(ctx context.Context, projectID int64) (int64, error)
	filterIDsByProjectFn func(ctx context.Context, projectID int64, ids []int64) ([]int64, error)
}

func (s *stubTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, task)
}

func (s *stubTaskStore) CreateMultiple(ctx context.Context, tasks []*domain.Task) error {
	if s.createMultipleFn == nil {
		return nil
	}
	return s.createMultipleFn(ctx, tasks)
}

func (s *stubTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if s.getByIDFn == nil {
		return nil, store.ErrTaskNotFound
	}
	return s.getByIDFn(ctx, id)
}

func (s *stubTaskStore) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	if s.listByProjectFn == nil {
		return nil, nil
	}
	return s.listByProjectFn(ctx, projectID)
}

func (s *stubTaskStore) CountByStatus(ctx context.Context, projectID int64, status string) (int, error) {
	if s.countByStatusFn == nil {
		return 0, nil
	}
	return s.countByStatusFn(ctx, projectID, status)
}

func (s *stubTaskStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	if s.updateStatusFn == nil {
		return nil
	}
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubTaskStore) UpdatePlacement(ctx context.Context, id int64, status string, position int) error {
	if s.updatePlacementFn == nil {
		return nil
	}
	return s.updatePlacementFn(ctx, id, status, position)
}

func (s *stubTaskStore) UpdateContent(ctx context.Context, id int64, title, description string) error {
	if s.updateContentFn == nil {
		return nil
	}
	return s.updateContentFn(ctx, id, title, description)
}

func (s *stubTaskStore) SetImportant(ctx context.Context, id int64, important bool) error {
	if s.setImportantFn == nil {
		return nil
	}
	return s.setImportantFn(ctx, id, important)
}

func (s *stubTaskStore) AppendPOComment(ctx context.Context, id int64, note string) error {
	if s.appendPOCommentFn == nil {
		return nil
	}
	return s.appendPOCommentFn(ctx, id, note)
}

func (s *stubTaskStore) SetGeneratedCode(ctx context.Context, id int64, code string) error {
	if s.setGeneratedCodeFn == nil {
		return nil
	}
	return s.setGeneratedCodeFn(ctx, id, code)
}

func (s *stubTaskStore) Delete(ctx context.Context, id int64) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

func (s *stubTaskStore) DeleteByProject(ctx context.Context, projectID int64) (int64, error) {
	if s.deleteByProjectFn == nil {
		return 0, nil
	}
	return s.deleteByProjectFn(ctx, projectID)
}

func (s *stubTaskStore) FilterIDsByProject(ctx context.Context, projectID int64, ids []int64) ([]int64, error) {
	if s.filterIDsByProjectFn == nil {
		return ids, nil
	}
	return s.filterIDsByProjectFn(ctx, projectID, ids)
}

func (s *stubTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }

type stubRequirementStore struct {
	createFn        func(ctx context.Context, req *domain.Requirement) error
	listByProjectFn func(ctx context.Context, projectID int64) ([]*domain.Requirement, error)
}

func (s *stubRequirementStore) Create(ctx context.Context, req *domain.Requirement) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, req)
}

func (s *stubRequirementStore) ListByProject(ctx context.Context, projectID int64) ([]*domain.Requirement, error) {
	if s.listByProjectFn == nil {
		return nil, nil
	}
	return s.listByProjectFn(ctx, projectID)
}

func (s *stubRequirementStore) WithTx(tx *sql.Tx) store.RequirementStore { return s }

// stubGenerator returns canned LLM output.
type stubGenerator struct {
	text string
	err  error

	prompts []string
	calls   int
}

func (g *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

// stubWorkflow implements WorkflowService for generation service tests.
type stubWorkflow struct {
	stages *domain.StageSet

	getTaskFn             func(ctx context.Context, projectID, taskID int64) (*domain.Task, error)
	replaceProjectTasksFn func(ctx context.Context, projectID int64, drafts []domain.TaskDraft) (int, error)
}

func (w *stubWorkflow) AddTask(ctx context.Context, projectID int64, title, description, stageKey string, important bool) (*domain.Task, error) {
	return nil, nil
}

func (w *stubWorkflow) Transition(ctx context.Context, projectID, taskID int64, targetStage string) error {
	return nil
}

func (w *stubWorkflow) Reorder(ctx context.Context, projectID int64, stageKey string, taskIDs []int64) error {
	return nil
}

func (w *stubWorkflow) ListTasks(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	return nil, nil
}

func (w *stubWorkflow) GetTask(ctx context.Context, projectID, taskID int64) (*domain.Task, error) {
	if w.getTaskFn == nil {
		return nil, ErrTaskNotFound
	}
	return w.getTaskFn(ctx, projectID, taskID)
}

func (w *stubWorkflow) EditTask(ctx context.Context, projectID, taskID int64, title, description string) error {
	return nil
}

func (w *stubWorkflow) ToggleImportance(ctx context.Context, projectID, taskID int64) (bool, error) {
	return false, nil
}

func (w *stubWorkflow) DeleteTask(ctx context.Context, projectID, taskID int64) (string, error) {
	return "", nil
}

func (w *stubWorkflow) ReplaceProjectTasks(ctx context.Context, projectID int64, drafts []domain.TaskDraft) (int, error) {
	if w.replaceProjectTasksFn == nil {
		return len(drafts), nil
	}
	return w.replaceProjectTasksFn(ctx, projectID, drafts)
}

func (w *stubWorkflow) Stages() *domain.StageSet {
	if w.stages == nil {
		return domain.DefaultStageSet()
	}
	return w.stages
}

// stubPublisher records published files.
type stubPublisher struct {
	err error

	paths    []string
	messages []string
	contents []string
}

func (p *stubPublisher) PublishFile(ctx context.Context, path, message, content string) error {
	p.paths = append(p.paths, path)
	p.messages = append(p.messages, message)
	p.contents = append(p.contents, content)
	return p.err
}
