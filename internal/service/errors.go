package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent expected conditions callers check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrProjectNotFound indicates the referenced project does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound indicates the referenced task does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectExists indicates a project with the requested name already
	// exists. API layer should map this to HTTP 409 Conflict.
	ErrProjectExists = errors.New("project already exists")

	// ErrUnknownStage indicates a stage key outside the configured stage
	// set. API layer should map this to HTTP 422 Unprocessable Entity.
	ErrUnknownStage = errors.New("unknown workflow stage")

	// ErrWipLimitExceeded indicates a task was refused admission to a stage
	// because the stage is at its WIP limit. Returned as a WipLimitError
	// carrying the stage detail. API layer should map this to HTTP 409
	// Conflict.
	ErrWipLimitExceeded = errors.New("stage WIP limit exceeded")

	// ErrNoTasksGenerated indicates the generation output contained no
	// usable task drafts. API layer should map this to HTTP 422
	// Unprocessable Entity.
	ErrNoTasksGenerated = errors.New("no usable tasks generated")
)

// WipLimitError reports a refused stage admission with the stage key, its
// configured limit, and the occupancy observed under the project lock.
type WipLimitError struct {
	Stage string
	Limit int
	Count int
}

// Error implements the error interface for WipLimitError.
func (e *WipLimitError) Error() string {
	return fmt.Sprintf("stage %s is at its WIP limit (%d of %d tasks)",
		e.Stage, e.Count, e.Limit)
}

// Is makes errors.Is(err, ErrWipLimitExceeded) match WipLimitError values.
func (e *WipLimitError) Is(target error) bool {
	return target == ErrWipLimitExceeded
}

// ServiceError wraps unexpected errors from services with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_project", "transition_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
