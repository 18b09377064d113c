package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionClosed):
		return http.StatusNotFound

	// Mode errors
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict

	// Requests that are well formed but cannot be satisfied
	case errors.Is(err, domain.ErrNoMatches),
		errors.Is(err, domain.ErrInsufficientCards):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNoInput),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Upstream errors
	case errors.Is(err, domain.ErrAssetSourceUnavailable):
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

	var domainValidation *domain.ValidationError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionClosed):
		return "Session not found"

	case errors.Is(err, domain.ErrInvalidTransition):
		return "Operation not allowed in the current mode"

	case errors.Is(err, domain.ErrNoMatches):
		return "No matching flashcards for the word+number pattern"

	case errors.Is(err, domain.ErrInsufficientCards):
		return "Not enough cards for this operation"

	case errors.Is(err, domain.ErrNoInput):
		return "No words supplied"

	case errors.As(err, &domainValidation):
		return fmt.Sprintf("Invalid %s: %s", domainValidation.Field, domainValidation.Message)

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, domain.ErrAssetSourceUnavailable):
		return "Flashcard source is unavailable, try again later"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first offending field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}
	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted detail. fallback replaces the generic message on 500s.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
