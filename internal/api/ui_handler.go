package api

import (
	"net/http"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/config"
)

// LayoutResponse carries the layout constants the renderer needs.
type LayoutResponse struct {
	GalleryColumns         int `json:"gallery_columns"`
	PageSize               int `json:"page_size"`
	MemoryColumns          int `json:"memory_columns"`
	DefaultIntervalSeconds int `json:"default_interval_seconds"`
	DefaultPairs           int `json:"default_pairs"`
	MaxPairs               int `json:"max_pairs"`
}

// UIHandler serves static layout configuration.
type UIHandler struct {
	layout LayoutResponse
}

// NewUIHandler creates a UIHandler from the UI configuration.
func NewUIHandler(cfg config.UIConfig) *UIHandler {
	return &UIHandler{layout: LayoutResponse{
		GalleryColumns:         cfg.GalleryColumns,
		PageSize:               cfg.PageSize,
		MemoryColumns:          cfg.MemoryColumns,
		DefaultIntervalSeconds: cfg.DefaultIntervalSeconds,
		DefaultPairs:           cfg.DefaultPairs,
		MaxPairs:               cfg.MaxPairs,
	}}
}

// GetLayout handles GET /api/ui
func (h *UIHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.layout)
}
