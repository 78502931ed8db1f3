package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/generation"
	"github.com/taipo/kanban-api/internal/store"
)

// CodePublisher pushes a generated artifact to an external repository.
// A nil publisher disables the integration.
type CodePublisher interface {
	// PublishFile creates or updates the file at path with the given
	// content, using message as the commit message.
	PublishFile(ctx context.Context, path, message, content string) error
}

// GenerationService orchestrates the LLM-backed flows: bulk project
// generation, story decomposition, specification extraction, product-owner
// queries, and code generation with its cache.
type GenerationService interface {
	// GenerateProjectTasks generates a fresh backlog from the description
	// and atomically replaces the project's tasks with it. When the
	// output parses to zero usable drafts the existing board is left
	// untouched and 0 is returned.
	// Returns ErrProjectNotFound.
	GenerateProjectTasks(ctx context.Context, projectID int64, description string) (int, error)

	// GenerateFromSpecification creates a new project from a free-form
	// specification document. The project name comes from the output's
	// name directive, falling back to fallbackName. The raw specification
	// is recorded in the project's requirements log.
	// Returns ErrProjectExists and ErrNoTasksGenerated.
	GenerateFromSpecification(ctx context.Context, specText, fallbackName string) (*domain.Project, int, error)

	// DecomposeTask splits a story into subtasks appended to the initial
	// stage. Each subtask records the parent task reference and a
	// provenance note in its comment log.
	// Returns ErrTaskNotFound and ErrNoTasksGenerated.
	DecomposeTask(ctx context.Context, projectID, taskID int64) (int, error)

	// QueryTask asks the product owner a question about a task. The Q&A
	// pair is appended to the task's comment log and the answer returned.
	// Returns ErrTaskNotFound.
	QueryTask(ctx context.Context, projectID, taskID int64, question string) (string, error)

	// GenerateCode returns an implementation sketch for the task,
	// consulting the per-task cache before calling the LLM.
	// Returns ErrTaskNotFound.
	GenerateCode(ctx context.Context, projectID, taskID int64) (string, error)

	// PublishCode commits the task's cached generated code to the
	// configured repository. The code must have been generated first.
	// Returns ErrTaskNotFound.
	PublishCode(ctx context.Context, projectID, taskID int64) error
}

// generationServiceImpl implements the GenerationService interface
type generationServiceImpl struct {
	db              *sql.DB
	generator       generation.Generator
	workflow        WorkflowService
	projectRepo     store.ProjectStore
	taskRepo        store.TaskStore
	requirementRepo store.RequirementStore
	publisher       CodePublisher
	parserCfg       generation.ParserConfig
	logger          *slog.Logger
}

// NewGenerationService creates a new GenerationService.
// The publisher may be nil, which disables PublishCode.
// It returns an error if any other required dependency is nil.
func NewGenerationService(
	db *sql.DB,
	generator generation.Generator,
	workflow WorkflowService,
	projectRepo store.ProjectStore,
	taskRepo store.TaskStore,
	requirementRepo store.RequirementStore,
	publisher CodePublisher,
	parserCfg generation.ParserConfig,
	logger *slog.Logger,
) (GenerationService, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if generator == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "generator cannot be nil"}
	}
	if workflow == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "workflow cannot be nil"}
	}
	if projectRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "projectRepo cannot be nil"}
	}
	if taskRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "taskRepo cannot be nil"}
	}
	if requirementRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "requirementRepo cannot be nil"}
	}
	if parserCfg.Stages == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "parser stages cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &generationServiceImpl{
		db:              db,
		generator:       generator,
		workflow:        workflow,
		projectRepo:     projectRepo,
		taskRepo:        taskRepo,
		requirementRepo: requirementRepo,
		publisher:       publisher,
		parserCfg:       parserCfg,
		logger:          logger.With("component", "generation_service"),
	}, nil
}

// generate calls the LLM and wraps failures with operation context.
func (s *generationServiceImpl) generate(ctx context.Context, operation, prompt string) (string, error) {
	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error("text generation failed",
			"operation", operation,
			"error", err)
		return "", &ServiceError{
			Operation: operation,
			Message:   "text generation failed",
			Err:       err,
		}
	}
	return text, nil
}

// GenerateProjectTasks generates a backlog and replaces the project's
// tasks with it.
func (s *generationServiceImpl) GenerateProjectTasks(
	ctx context.Context,
	projectID int64,
	description string,
) (int, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return 0, ErrProjectNotFound
		}
		return 0, &ServiceError{Operation: "generate_project_tasks", Message: "failed to load project", Err: err}
	}

	prompt := generation.ProjectPlanPrompt(project.Name, description, s.parserCfg.Stages)
	text, err := s.generate(ctx, "generate_project_tasks", prompt)
	if err != nil {
		return 0, err
	}

	result := generation.Parse(text, generation.ModeProject, s.parserCfg)
	if len(result.Drafts) == 0 {
		// Replacing with nothing would wipe the board over a bad
		// generation; leave the existing tasks alone.
		s.logger.Warn("generation output contained no usable tasks",
			"project_id", projectID)
		return 0, nil
	}

	count, err := s.workflow.ReplaceProjectTasks(ctx, projectID, result.Drafts)
	if err != nil {
		return 0, err
	}

	s.logger.Info("project backlog generated",
		"project_id", projectID,
		"tasks", count)
	return count, nil
}

// GenerateFromSpecification creates a new project from a specification
// document.
func (s *generationServiceImpl) GenerateFromSpecification(
	ctx context.Context,
	specText, fallbackName string,
) (*domain.Project, int, error) {
	prompt := generation.SpecificationPrompt(specText, s.parserCfg.Stages)
	text, err := s.generate(ctx, "generate_from_specification", prompt)
	if err != nil {
		return nil, 0, err
	}

	result := generation.Parse(text, generation.ModeSpecification, s.parserCfg)
	if len(result.Drafts) == 0 {
		return nil, 0, ErrNoTasksGenerated
	}

	name := result.ProjectName
	if name == "" {
		name = strings.TrimSpace(fallbackName)
	}

	project, err := domain.NewProject(name)
	if err != nil {
		return nil, 0, err
	}

	tasks := make([]*domain.Task, 0, len(result.Drafts))
	for _, draft := range result.Drafts {
		status := draft.Status
		if !s.parserCfg.Stages.Contains(status) {
			status = s.parserCfg.Stages.Initial().Key
		}
		task, err := domain.NewTask(0, draft.Title, draft.Description, status)
		if err != nil {
			return nil, 0, err
		}
		task.Important = draft.Important()
		tasks = append(tasks, task)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProjects := s.projectRepo.WithTx(tx)
		txTasks := s.taskRepo.WithTx(tx)
		txRequirements := s.requirementRepo.WithTx(tx)

		if err := txProjects.Create(ctx, project); err != nil {
			return err
		}

		for _, task := range tasks {
			task.ProjectID = project.ID
		}
		if err := txTasks.CreateMultiple(ctx, tasks); err != nil {
			return err
		}

		req, err := domain.NewRequirement(project.ID, specText)
		if err != nil {
			return err
		}
		return txRequirements.Create(ctx, req)
	})
	if err != nil {
		if errors.Is(err, store.ErrProjectNameExists) {
			return nil, 0, ErrProjectExists
		}
		s.logger.Error("failed to persist generated project",
			"error", err,
			"project_name", name)
		return nil, 0, &ServiceError{
			Operation: "generate_from_specification",
			Message:   "failed to persist generated project",
			Err:       err,
		}
	}

	s.logger.Info("project generated from specification",
		"project_id", project.ID,
		"project_name", project.Name,
		"tasks", len(tasks))
	return project, len(tasks), nil
}

// DecomposeTask splits a story into subtasks.
func (s *generationServiceImpl) DecomposeTask(ctx context.Context, projectID, taskID int64) (int, error) {
	parent, err := s.workflow.GetTask(ctx, projectID, taskID)
	if err != nil {
		return 0, err
	}

	prompt := generation.DecomposePrompt(parent.Title, parent.Description, s.parserCfg.Stages)
	text, err := s.generate(ctx, "decompose_task", prompt)
	if err != nil {
		return 0, err
	}

	result := generation.Parse(text, generation.ModeDecompose, s.parserCfg)
	if len(result.Drafts) == 0 {
		return 0, ErrNoTasksGenerated
	}

	provenance := fmt.Sprintf("Based on original story: %s", parent.Description)
	initial := s.parserCfg.Stages.Initial().Key

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProjects := s.projectRepo.WithTx(tx)
		txTasks := s.taskRepo.WithTx(tx)

		if err := txProjects.Lock(ctx, projectID); err != nil {
			return err
		}

		for _, draft := range result.Drafts {
			// Subtasks always enter the initial stage regardless of any
			// stage token in the output.
			task, err := domain.NewTask(projectID, draft.Title, draft.Description, initial)
			if err != nil {
				return err
			}
			task.Subtask = true
			task.ParentTaskID = &parent.ID
			task.Important = draft.Important()
			task.AppendPOComment(provenance)

			if err := txTasks.Create(ctx, task); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to persist subtasks",
			"error", err,
			"task_id", taskID,
			"project_id", projectID)
		return 0, &ServiceError{
			Operation: "decompose_task",
			Message:   "failed to persist subtasks",
			Err:       err,
		}
	}

	s.logger.Info("story decomposed",
		"task_id", taskID,
		"project_id", projectID,
		"subtasks", len(result.Drafts))
	return len(result.Drafts), nil
}

// QueryTask asks a question about a task and records the Q&A.
func (s *generationServiceImpl) QueryTask(
	ctx context.Context,
	projectID, taskID int64,
	question string,
) (string, error) {
	task, err := s.workflow.GetTask(ctx, projectID, taskID)
	if err != nil {
		return "", err
	}

	prompt := generation.QueryPrompt(task.Title, task.Description, question)
	answer, err := s.generate(ctx, "query_task", prompt)
	if err != nil {
		return "", err
	}

	note := fmt.Sprintf("Q: %s\nA: %s", strings.TrimSpace(question), strings.TrimSpace(answer))
	if err := s.taskRepo.AppendPOComment(ctx, taskID, note); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return "", ErrTaskNotFound
		}
		return "", &ServiceError{
			Operation: "query_task",
			Message:   "failed to record answer",
			Err:       err,
		}
	}

	return answer, nil
}

// GenerateCode returns an implementation sketch for the task, cached per
// task.
func (s *generationServiceImpl) GenerateCode(ctx context.Context, projectID, taskID int64) (string, error) {
	task, err := s.workflow.GetTask(ctx, projectID, taskID)
	if err != nil {
		return "", err
	}

	if task.GeneratedCode != "" {
		s.logger.Debug("serving cached generated code", "task_id", taskID)
		return task.GeneratedCode, nil
	}

	prompt := generation.CodePrompt(task.Title, task.Description)
	code, err := s.generate(ctx, "generate_code", prompt)
	if err != nil {
		return "", err
	}

	if err := s.taskRepo.SetGeneratedCode(ctx, taskID, code); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return "", ErrTaskNotFound
		}
		return "", &ServiceError{
			Operation: "generate_code",
			Message:   "failed to cache generated code",
			Err:       err,
		}
	}

	s.logger.Info("code generated", "task_id", taskID)
	return code, nil
}

// PublishCode commits the task's cached generated code to the configured
// repository.
func (s *generationServiceImpl) PublishCode(ctx context.Context, projectID, taskID int64) error {
	if s.publisher == nil {
		return &ServiceError{
			Operation: "publish_code",
			Message:   "code publishing is not configured",
		}
	}

	task, err := s.workflow.GetTask(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if task.GeneratedCode == "" {
		return &ServiceError{
			Operation: "publish_code",
			Message:   "no generated code to publish; generate it first",
		}
	}

	path := fmt.Sprintf("generated/task_%d.txt", task.ID)
	message := fmt.Sprintf("Add generated code for task %d: %s", task.ID, task.Title)

	if err := s.publisher.PublishFile(ctx, path, message, task.GeneratedCode); err != nil {
		s.logger.Error("failed to publish generated code",
			"error", err,
			"task_id", taskID)
		return &ServiceError{
			Operation: "publish_code",
			Message:   "failed to publish generated code",
			Err:       err,
		}
	}

	s.logger.Info("generated code published",
		"task_id", taskID,
		"path", path)
	return nil
}
