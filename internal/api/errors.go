package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/recall-api/internal/api/shared"
	"github.com/phrazzld/recall-api/internal/domain"
	"github.com/phrazzld/recall-api/internal/domain/srs"
	"github.com/phrazzld/recall-api/internal/generation"
	"github.com/phrazzld/recall-api/internal/service/review"
	"github.com/phrazzld/recall-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrSnapshotNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyFront),
		errors.Is(err, domain.ErrEmptyBack),
		errors.Is(err, srs.ErrInvalidQuality),
		errors.Is(err, generation.ErrEmptySourceText):
		return http.StatusBadRequest

	// Session state conflicts
	case errors.Is(err, review.ErrNoActiveSession):
		return http.StatusConflict

	// Special cases
	case errors.Is(err, review.ErrEmptySession):
		return http.StatusNoContent

	// Generation failures
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusBadGateway
	case errors.Is(err, generation.ErrInvalidConfig):
		return http.StatusServiceUnavailable

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
	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrSnapshotNotFound):
		return "No saved collection found"

	case errors.Is(err, srs.ErrInvalidQuality):
		return "Quality rating must be between 0 and 5"

	case errors.Is(err, domain.ErrEmptyFront):
		return "Card front cannot be empty"

	case errors.Is(err, domain.ErrEmptyBack):
		return "Card back cannot be empty"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, review.ErrNoActiveSession):
		return "No active review session"

	case errors.Is(err, generation.ErrEmptySourceText):
		return "Source text cannot be empty"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Content was blocked by safety filters"

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, generation.ErrGenerationFailed):
		return "Card generation failed"

	case errors.Is(err, generation.ErrInvalidConfig):
		return "Card generation is not configured"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Struct validation messages look like:
	// "Key: 'CreateCardRequest.Front' Error:Field validation for 'Front' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "lte":
		return "out of range"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps an error to a status code and safe message and
// writes the response. An explicit message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
