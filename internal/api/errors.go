package api

import (
	"errors"
	"net/http"

	"github.com/asmamir/task-manager-api/internal/api/shared"
	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/platform/avatar"
	"github.com/asmamir/task-manager-api/internal/service"
	"github.com/asmamir/task-manager-api/internal/service/auth"
	"github.com/asmamir/task-manager-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Credential failures are a 400, deliberately indistinguishable
	// between unknown email and wrong password.
	case errors.Is(err, service.ErrUnableToLogin):
		return http.StatusBadRequest

	// Not found errors; an existing resource owned by somebody else
	// reports the same status as a missing one.
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Validation errors, including duplicate email and bad uploads
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, avatar.ErrProcessing):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, domain.ErrUnauthorized):
		return "Please authenticate"

	case errors.Is(err, service.ErrUnableToLogin):
		return "unable to login"

	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "email already in use"

	case errors.Is(err, avatar.ErrProcessing):
		return "only image files are allowed"

	// Field-level validation messages are written for clients; pass
	// them through unchanged.
	case errors.As(err, &validationErr):
		return validationErr.Error()

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes an error response derived from err. The message
// sent to the client comes from GetSafeErrorMessage (or fallbackMessage
// when provided); the raw error only goes to the logs.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
