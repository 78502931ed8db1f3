package api

import (
	"errors"
	"net/http"

	"github.com/taipo/kanban-api/internal/api/shared"
	"github.com/taipo/kanban-api/internal/domain"
	"github.com/taipo/kanban-api/internal/service"
	"github.com/taipo/kanban-api/internal/service/auth"
	"github.com/taipo/kanban-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors. A WIP rejection is an expected business refusal of
	// an otherwise well-formed request, not bad input.
	case errors.Is(err, service.ErrWipLimitExceeded),
		errors.Is(err, service.ErrProjectExists),
		errors.Is(err, auth.ErrUsernameTaken),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Unprocessable input
	case errors.Is(err, service.ErrUnknownStage),
		errors.Is(err, service.ErrNoTasksGenerated),
		errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"

	case errors.Is(err, auth.ErrUsernameTaken):
		return "Username already taken"

	case errors.Is(err, auth.ErrWeakPassword):
		return "Password does not meet the length requirements"

	case errors.Is(err, service.ErrProjectNotFound):
		return "Project not found"

	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, service.ErrProjectExists):
		return "A project with this name already exists"

	case errors.Is(err, service.ErrUnknownStage):
		return "Unknown workflow stage"

	case errors.Is(err, service.ErrNoTasksGenerated):
		return "The generated output contained no usable tasks"

	case errors.Is(err, service.ErrWipLimitExceeded):
		// The WipLimitError detail (stage, limit, count) is safe to show;
		// the caller needs it to understand the refusal.
		var wipErr *service.WipLimitError
		if errors.As(err, &wipErr) {
			return wipErr.Error()
		}
		return "Stage WIP limit exceeded"

	case errors.Is(err, domain.ErrValidation):
		// Domain validation messages are written for users.
		return err.Error()

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	default:
		return "An unexpected error occurred"
	}
}

// respondWithServiceError maps err to a status code and safe message and
// writes the response. Handlers use it for every service-layer failure.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
