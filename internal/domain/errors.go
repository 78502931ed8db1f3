package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of all domain validation errors. Callers check
// for it with errors.Is to distinguish bad input from system failures.
var ErrValidation = errors.New("validation failed")

// Specific validation errors. Each wraps ErrValidation so a single
// errors.Is check covers the whole family.
var (
	// ErrEmptyProjectName is returned when a project name is empty or blank.
	ErrEmptyProjectName = fmt.Errorf("%w: project name cannot be empty", ErrValidation)

	// ErrEmptyTaskDescription is returned when a task description is empty.
	ErrEmptyTaskDescription = fmt.Errorf("%w: task description cannot be empty", ErrValidation)

	// ErrNegativePosition is returned when a task position is negative.
	ErrNegativePosition = fmt.Errorf("%w: task position cannot be negative", ErrValidation)

	// ErrUnknownStage is returned when a status value is not part of the
	// configured stage set.
	ErrUnknownStage = fmt.Errorf("%w: unknown stage", ErrValidation)

	// ErrDuplicateStage is returned when a stage set is configured with
	// the same key twice.
	ErrDuplicateStage = fmt.Errorf("%w: duplicate stage key", ErrValidation)

	// ErrEmptyStageSet is returned when a stage set is configured with no stages.
	ErrEmptyStageSet = fmt.Errorf("%w: stage set cannot be empty", ErrValidation)

	// ErrInvalidWIPLimit is returned when a stage is configured with a
	// negative WIP limit.
	ErrInvalidWIPLimit = fmt.Errorf("%w: WIP limit cannot be negative", ErrValidation)

	// ErrEmptyUsername is returned when a username is empty or malformed.
	ErrEmptyUsername = fmt.Errorf("%w: invalid username", ErrValidation)

	// ErrEmptyRequirementContent is returned when requirement content is empty.
	ErrEmptyRequirementContent = fmt.Errorf("%w: requirement content cannot be empty", ErrValidation)
)
