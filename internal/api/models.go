package api

import "github.com/phrazzld/scry-flashcards/internal/domain"

// WordsRequest carries comma separated words for search and add-more.
type WordsRequest struct {
	Words string `json:"words" validate:"max=2000"`
}

// SelectionRequest includes or excludes cards.
type SelectionRequest struct {
	Included *bool `json:"included" validate:"required"`
}

// GalleryViewRequest switches the gallery layout.
type GalleryViewRequest struct {
	View string `json:"view" validate:"required,oneof=all paged"`
}

// DirectionRequest moves a gallery page or a presentation group.
type DirectionRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next prev forward backward"`
}

// PresentationRequest starts a presentation.
type PresentationRequest struct {
	GroupSize    int  `json:"group_size"    validate:"omitempty,oneof=1 3"`
	Shuffle      bool `json:"shuffle"`
	SelectedOnly bool `json:"selected_only"`
}

// AutoPlayRequest turns auto-advance on or off.
type AutoPlayRequest struct {
	Enabled         *bool `json:"enabled"          validate:"required"`
	IntervalSeconds int   `json:"interval_seconds" validate:"omitempty,gte=1,lte=20"`
}

// MemoryGameRequest deals a memory deck. Zero pairs uses the configured default.
type MemoryGameRequest struct {
	Pairs int `json:"pairs" validate:"gte=0"`
}

// FlipRequest turns over one memory card.
type FlipRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// ErrorBody is returned by every failing endpoint.
type ErrorBody struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// direction parses a validated direction string.
func direction(raw string) (domain.Direction, error) {
	return domain.ParseDirection(raw)
}
