package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/session"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// SessionHandler handles flashcard session HTTP requests.
type SessionHandler struct {
	sessions service.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionService, logger *slog.Logger) *SessionHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessions cannot be nil for SessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_handler")),
	}
}

// respond writes res as 200 JSON, or maps err.
func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, res *service.Result, err error, fallback string) {
	if err != nil {
		HandleAPIError(w, r, err, fallback)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// command is the shape shared by the body-less session operations.
type command func(r *http.Request, id uuid.UUID) (*service.Result, error)

// simple adapts a body-less session operation into a handler.
func (h *SessionHandler) simple(name string, cmd command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		id, ok := sessionIDFromPath(w, r, log)
		if !ok {
			return
		}
		res, err := cmd(r, id)
		h.respond(w, r, res, err, "Failed to "+name)
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	res, err := h.sessions.Create(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create session")
		return
	}

	log.Debug("session created", slog.String("session_id", res.View.SessionID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, res)
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}

	view, err := h.sessions.View(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}

	if err := h.sessions.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/sessions/{id}/search
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req WordsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.sessions.Search(r.Context(), id, req.Words)
	h.respond(w, r, res, err, "Failed to search flashcards")
}

// AddCards handles POST /api/sessions/{id}/cards
func (h *SessionHandler) AddCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req WordsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.sessions.AddMore(r.Context(), id, req.Words)
	h.respond(w, r, res, err, "Failed to add flashcards")
}

// SelectCard handles PUT /api/sessions/{id}/selection/{assetID}
func (h *SessionHandler) SelectCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	assetID := chi.URLParam(r, "assetID")
	if assetID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Asset ID is required")
		return
	}
	var req SelectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.sessions.ToggleSelect(r.Context(), id, assetID, *req.Included)
	h.respond(w, r, res, err, "Failed to update selection")
}

// SelectAll handles PUT /api/sessions/{id}/selection
func (h *SessionHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req SelectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.sessions.SelectAll(r.Context(), id, *req.Included)
	h.respond(w, r, res, err, "Failed to update selection")
}

// Shuffle handles POST /api/sessions/{id}/shuffle
func (h *SessionHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	h.simple("shuffle cards", func(r *http.Request, id uuid.UUID) (*service.Result, error) {
		return h.sessions.Shuffle(r.Context(), id)
	})(w, r)
}

// Clear handles POST /api/sessions/{id}/clear
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.simple("clear session", func(r *http.Request, id uuid.UUID) (*service.Result, error) {
		return h.sessions.Clear(r.Context(), id)
	})(w, r)
}

// GoHome handles POST /api/sessions/{id}/home
func (h *SessionHandler) GoHome(w http.ResponseWriter, r *http.Request) {
	h.simple("return home", func(r *http.Request, id uuid.UUID) (*service.Result, error) {
		return h.sessions.GoHome(r.Context(), id)
	})(w, r)
}

// SetGalleryView handles PUT /api/sessions/{id}/gallery
func (h *SessionHandler) SetGalleryView(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req GalleryViewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	view, err := domain.ParseGalleryView(req.View)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.sessions.SetGalleryView(r.Context(), id, view)
	h.respond(w, r, res, err, "Failed to change gallery view")
}

// TurnPage handles POST /api/sessions/{id}/gallery/page
func (h *SessionHandler) TurnPage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req DirectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	dir, err := direction(req.Direction)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.sessions.TurnPage(r.Context(), id, dir)
	h.respond(w, r, res, err, "Failed to turn page")
}

// StartPresentation handles POST /api/sessions/{id}/presentation
func (h *SessionHandler) StartPresentation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req PresentationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.sessions.StartPresentation(r.Context(), id, session.PresentOptions{
		GroupSize:    req.GroupSize,
		Shuffle:      req.Shuffle,
		SelectedOnly: req.SelectedOnly,
	})
	h.respond(w, r, res, err, "Failed to start presentation")
}

// Advance handles POST /api/sessions/{id}/presentation/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req DirectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	dir, err := direction(req.Direction)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	res, err := h.sessions.Advance(r.Context(), id, dir)
	h.respond(w, r, res, err, "Failed to advance presentation")
}

// SetAutoPlay handles PUT /api/sessions/{id}/presentation/autoplay
func (h *SessionHandler) SetAutoPlay(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req AutoPlayRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.sessions.SetAutoPlay(r.Context(), id, *req.Enabled, req.IntervalSeconds)
	h.respond(w, r, res, err, "Failed to change auto-play")
}

// ExitPresentation handles DELETE /api/sessions/{id}/presentation
func (h *SessionHandler) ExitPresentation(w http.ResponseWriter, r *http.Request) {
	h.simple("exit presentation", func(r *http.Request, id uuid.UUID) (*service.Result, error) {
		return h.sessions.ExitPresentation(r.Context(), id)
	})(w, r)
}

// StartMemoryGame handles POST /api/sessions/{id}/memory
func (h *SessionHandler) StartMemoryGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req MemoryGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.sessions.StartMemoryGame(r.Context(), id, req.Pairs)
	h.respond(w, r, res, err, "Failed to start memory game")
}

// Flip handles POST /api/sessions/{id}/memory/flip
func (h *SessionHandler) Flip(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}
	var req FlipRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.sessions.Flip(r.Context(), id, *req.Index)
	h.respond(w, r, res, err, "Failed to flip card")
}

// Reshuffle handles POST /api/sessions/{id}/memory/reshuffle
func (h *SessionHandler) Reshuffle(w http.ResponseWriter, r *http.Request) {
	h.simple("reshuffle memory deck", func(r *http.Request, id uuid.UUID) (*service.Result, error) {
		return h.sessions.Reshuffle(r.Context(), id)
	})(w, r)
}

// ExitMemoryGame handles DELETE /api/sessions/{id}/memory
func (h *SessionHandler) ExitMemoryGame(w http.ResponseWriter, r *http.Request) {
	h.simple("exit memory game", func(r *http.Request, id uuid.UUID) (*service.Result, error) {
		return h.sessions.ExitMemoryGame(r.Context(), id)
	})(w, r)
}
