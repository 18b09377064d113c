package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/domain/matcher"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
)

// AssetIndex is the cached asset listing the refresh endpoint works on.
type AssetIndex interface {
	Index(ctx context.Context) (*matcher.Index, error)
	Invalidate()
}

// RefreshResponse reports the asset listing after a refresh.
type RefreshResponse struct {
	AssetCount int `json:"asset_count"`
}

// AssetsHandler exposes the asset catalog.
type AssetsHandler struct {
	catalog AssetIndex
	logger  *slog.Logger
}

// NewAssetsHandler creates a new AssetsHandler.
func NewAssetsHandler(catalog AssetIndex, logger *slog.Logger) *AssetsHandler {
	if catalog == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog and logger are required for AssetsHandler")
	}
	return &AssetsHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "assets_handler")),
	}
}

// Refresh handles POST /api/assets/refresh. It drops the cached listing
// and lists the folder again, so newly uploaded images become searchable
// before the cache expires.
func (h *AssetsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	h.catalog.Invalidate()
	idx, err := h.catalog.Index(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh assets")
		return
	}

	log.Info("asset listing refreshed", slog.Int("asset_count", idx.Len()))
	shared.RespondWithJSON(w, r, http.StatusOK, RefreshResponse{AssetCount: idx.Len()})
}
