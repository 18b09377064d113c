package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/redact"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrValidation)
	}

	return id, nil
}

// sessionIDFromPath extracts the {id} path parameter, writing a 400 on
// failure.
func sessionIDFromPath(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid session id", slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate reads the JSON body into req and validates it. On
// failure the error response has already been written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	log := logger.FromContext(r.Context())

	if err := shared.DecodeJSON(r, req); err != nil {
		log.Debug("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
